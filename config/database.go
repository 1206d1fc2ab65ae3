package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// DSN 组装 MySQL 连接串
func (d DatabaseConfig) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = d.User
	dsn.Passwd = d.Password()
	dsn.Net = "tcp"
	dsn.Addr = d.Host
	dsn.DBName = d.Name
	dsn.ParseTime = true
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range d.Params {
		dsn.Params[k] = v
	}
	return dsn.FormatDSN()
}

// ConnectDB 连接数据库
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	return sql.Open("mysql", cfg.DSN())
}

// InitDB 初始化数据库连接并执行迁移
func InitDB(ctx context.Context, cfg DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database connected and migrated", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// Migration 迁移结构
type Migration struct {
	Name string
	SQL  string
}

// Migrate 创建迁移表并执行尚未执行的迁移
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if _, err := db.ExecContext(ctx, createMigrationsSQL); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	for _, m := range Migrations() {
		if err := runMigrationIfNotExists(ctx, db, m, logger); err != nil {
			return fmt.Errorf("run migration %s: %w", m.Name, err)
		}
	}
	return nil
}

const createMigrationsSQL = `
	CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

// Migrations 获取所有迁移
func Migrations() []Migration {
	return []Migration{
		{
			Name: "001_create_humedad_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS humedad_ensayos (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				codigo VARCHAR(32) NOT NULL UNIQUE,
				user_id INT NOT NULL DEFAULT 0,
				muestra VARCHAR(255) NOT NULL,
				numero_ot VARCHAR(255) NOT NULL,
				fecha_ensayo VARCHAR(32),
				realizado_por VARCHAR(255) NOT NULL,
				contenido_humedad DOUBLE NULL,
				payload JSON NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				INDEX idx_numero_ot (numero_ot),
				INDEX idx_user_id (user_id)
			)
			`,
		},
		{
			Name: "002_add_checksum_to_humedad",
			SQL: `
			ALTER TABLE humedad_ensayos
				ADD COLUMN checksum CHAR(64) NOT NULL DEFAULT ''
			`,
		},
	}
}

// runMigrationIfNotExists 如果迁移不存在则运行
func runMigrationIfNotExists(ctx context.Context, db *sql.DB, m Migration, logger *zap.Logger) error {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE name = ?", m.Name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("migration already executed, skipping", zap.String("migration", m.Name))
		return nil
	}

	logger.Info("running migration", zap.String("migration", m.Name))
	if _, err := db.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "INSERT INTO migrations (name) VALUES (?)", m.Name)
	return err
}
