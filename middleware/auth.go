package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"go-geofal-humedad/utils"
)

// ContextUserID gin 上下文中的用户 ID 键
const ContextUserID = "userID"

// Claims 定义JWT的声明结构. Tokens are issued by the CRM shell; userID may
// also travel as the standard subject.
type Claims struct {
	UserID int `json:"userID"`
	jwt.RegisteredClaims
}

// AuthMiddleware 验证JWT Token的中间件
func AuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// HS256 with an empty key is forgeable
		if len(secret) == 0 {
			logger.Error("jwt secret is empty, rejecting request", zap.String("path", c.FullPath()))
			utils.Unauthorized(c, "Authentication is not configured")
			return
		}

		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			utils.Unauthorized(c, "Authorization header required")
			return
		}

		scheme, tokenString, ok := strings.Cut(authorization, " ")
		if !ok || scheme != "Bearer" || tokenString == "" {
			utils.Unauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			logger.Debug("rejected bearer token", zap.Error(err), zap.String("path", c.FullPath()))
			utils.Unauthorized(c, "Invalid or expired token")
			return
		}

		userID := claims.UserID
		if userID == 0 && claims.Subject != "" {
			if id, err := strconv.Atoi(claims.Subject); err == nil {
				userID = id
			}
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// NoAuth 本地实验室部署不校验令牌
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, 0)
		c.Next()
	}
}
