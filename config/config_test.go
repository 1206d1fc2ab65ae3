package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HUMEDAD_JWT_SECRET", "jwt-key")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "jwt", cfg.Auth.Mode)
	assert.Equal(t, DefaultReportTimeout, cfg.Report.Timeout)
	assert.Equal(t, "EQP-0046", cfg.Equipment["equipo_balanza_01"])
	assert.Equal(t, "EQP-0045", cfg.Equipment["equipo_balanza_001"])
	assert.Equal(t, "EQP-0049", cfg.Equipment["equipo_horno"])
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `server:
  addr: ":9090"
  mode: debug
database:
  user: lab
  host: db:3306
  name: humedad
auth:
  mode: none
report:
  url: http://reports:8000/humedad/excel
  timeout: 10s
log:
  level: debug
  development: true
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "lab", cfg.Database.User)
	assert.Equal(t, "db:3306", cfg.Database.Host)
	assert.Equal(t, "none", cfg.Auth.Mode)
	assert.Equal(t, "http://reports:8000/humedad/excel", cfg.Report.URL)
	assert.Equal(t, 10*time.Second, cfg.Report.Timeout)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "EQP-0049", cfg.Equipment["equipo_horno"], "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HUMEDAD_ADDR", ":7000")
	t.Setenv("HUMEDAD_REPORT_URL", "http://gen/excel")
	t.Setenv("HUMEDAD_DB_PASSWORD", "s3cret")
	t.Setenv("HUMEDAD_JWT_SECRET", "jwt-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "http://gen/excel", cfg.Report.URL)
	assert.Equal(t, "s3cret", cfg.Database.Password())
	assert.Equal(t, "jwt-key", cfg.Auth.Secret())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HUMEDAD_JWT_SECRET", "jwt-key")
	tests := map[string]string{
		"bad auth mode":  "auth:\n  mode: basic\n",
		"bad gin mode":   "server:\n  mode: fast\n",
		"jwt no secret":  "auth:\n  mode: jwt\n  secret_env: \"\"\n",
		"no db name":     "database:\n  name: \"\"\n",
		"malformed yaml": "server: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_JWTSecretUnset(t *testing.T) {
	t.Setenv("HUMEDAD_JWT_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HUMEDAD_JWT_SECRET")

	cfg, err := Load(writeConfig(t, "auth:\n  mode: none\n"))
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Auth.Mode)
}

func TestLoad_DatabaseParams(t *testing.T) {
	t.Setenv("HUMEDAD_JWT_SECRET", "jwt-key")
	cfg, err := Load(writeConfig(t, "database:\n  params:\n    loc: Local\n    charset: utf8\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"loc": "Local", "charset": "utf8"}, cfg.Database.Params)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault_EquipmentIsCopied(t *testing.T) {
	cfg := Default()
	cfg.Equipment["equipo_horno"] = "EQP-9999"
	assert.Equal(t, "EQP-0049", DefaultEquipment["equipo_horno"])
}
