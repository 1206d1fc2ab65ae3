package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetInt(ContextUserID), "request": c.GetString(ContextRequestID)})
	})
	return r
}

func signToken(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret, zap.NewNop()))
	token := signToken(t, Claims{
		UserID:           42,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}, jwt.SigningMethodHS256, testSecret)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":42,"request":""}`, w.Body.String())
}

func TestAuthMiddleware_SubjectFallback(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret, zap.NewNop()))
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}, jwt.SigningMethodHS256, testSecret)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":7`)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := signToken(t, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}, jwt.SigningMethodHS256, testSecret)
	wrongKey := signToken(t, Claims{UserID: 1}, jwt.SigningMethodHS256, []byte("other"))
	unsigned := signToken(t, Claims{UserID: 1}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer ",
		"garbage":        "Bearer not-a-jwt",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"alg none":       "Bearer " + unsigned,
	}
	r := newRouter(AuthMiddleware(testSecret, zap.NewNop()))
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			w := doRequest(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"reason":"session_expired"`)
		})
	}
}

func TestAuthMiddleware_EmptySecret(t *testing.T) {
	r := newRouter(AuthMiddleware(nil, zap.NewNop()))
	token := signToken(t, Claims{UserID: 99}, jwt.SigningMethodHS256, []byte(""))

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), `"user":99`)
}

func TestNoAuth(t *testing.T) {
	w := doRequest(newRouter(NoAuth()), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":0`)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID(), Logger(zap.NewNop()))

	w := doRequest(r, "")
	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), id)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
}
