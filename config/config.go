package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认配置
const (
	DefaultAddr          = ":8080"
	DefaultReportTimeout = 30 * time.Second
	DefaultListLimit     = 100
	MaxListLimit         = 500
)

// Config 服务配置, read from config.yaml
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Database  DatabaseConfig    `yaml:"database"`
	Auth      AuthConfig        `yaml:"auth"`
	Report    ReportConfig      `yaml:"report"`
	Log       LogConfig         `yaml:"log"`
	Equipment map[string]string `yaml:"equipment"`
}

// ServerConfig HTTP 服务
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug | release | test.
	Mode string `yaml:"mode"`
}

// DatabaseConfig MySQL 连接信息
type DatabaseConfig struct {
	User        string `yaml:"user"`
	PasswordEnv string `yaml:"password_env"`
	Host        string `yaml:"host"`
	Name        string `yaml:"name"`

	// Params are extra DSN parameters, merged over charset=utf8mb4.
	Params map[string]string `yaml:"params"`
}

// Password 从环境变量读取数据库密码
func (d DatabaseConfig) Password() string {
	if d.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(d.PasswordEnv)
}

// AuthConfig bearer token 校验
type AuthConfig struct {
	// Mode is one of: jwt | none.
	Mode      string `yaml:"mode"`
	SecretEnv string `yaml:"secret_env"`
}

// Secret 从环境变量读取 JWT 密钥
func (a AuthConfig) Secret() string {
	if a.SecretEnv == "" {
		return ""
	}
	return os.Getenv(a.SecretEnv)
}

// ReportConfig 报告生成服务
type ReportConfig struct {
	// URL of the report generator. Empty disables downloads.
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig 日志
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultEquipment 实验室设备 (balanza 0.1 g, balanza 0.01 g, horno 110°C)
var DefaultEquipment = map[string]string{
	"equipo_balanza_01":  "EQP-0046",
	"equipo_balanza_001": "EQP-0045",
	"equipo_horno":       "EQP-0049",
}

// Default 返回默认配置
func Default() *Config {
	equipment := make(map[string]string, len(DefaultEquipment))
	for k, v := range DefaultEquipment {
		equipment[k] = v
	}
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr, Mode: "release"},
		Database: DatabaseConfig{
			User:        "root",
			PasswordEnv: "HUMEDAD_DB_PASSWORD",
			Host:        "127.0.0.1:3306",
			Name:        "geofal",
		},
		Auth:      AuthConfig{Mode: "jwt", SecretEnv: "HUMEDAD_JWT_SECRET"},
		Report:    ReportConfig{Timeout: DefaultReportTimeout},
		Log:       LogConfig{Level: "info"},
		Equipment: equipment,
	}
}

// Load 读取配置文件; an empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HUMEDAD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HUMEDAD_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("HUMEDAD_REPORT_URL"); v != "" {
		c.Report.URL = v
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode: unknown mode %q", c.Server.Mode)
	}
	switch c.Auth.Mode {
	case "none":
	case "jwt":
		if c.Auth.SecretEnv == "" {
			return errors.New("auth.secret_env is required when auth.mode is jwt")
		}
		if c.Auth.Secret() == "" {
			return fmt.Errorf("auth: %s is not set", c.Auth.SecretEnv)
		}
	default:
		return fmt.Errorf("auth.mode: unknown mode %q", c.Auth.Mode)
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("database.host and database.name are required")
	}
	if c.Report.Timeout <= 0 {
		c.Report.Timeout = DefaultReportTimeout
	}
	return nil
}
