package config

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrate_RunsPendingOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := Migrations()
	require.Len(t, migrations, 2)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// first migration already applied
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM migrations WHERE name = ?")).
		WithArgs(migrations[0].Name).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM migrations WHERE name = ?")).
		WithArgs(migrations[1].Name).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE humedad_ensayos")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations (name) VALUES (?)")).
		WithArgs(migrations[1].Name).
		WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, Migrate(context.Background(), db, zap.NewNop()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_PropagatesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS migrations")).
		WillReturnError(context.DeadlineExceeded)

	err = Migrate(context.Background(), db, zap.NewNop())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDSN_Params(t *testing.T) {
	cfg := DatabaseConfig{User: "lab", Host: "db:3306", Name: "geofal"}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "lab@tcp(db:3306)/geofal")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")

	cfg.Params = map[string]string{"charset": "latin1", "sql_mode": "TRADITIONAL"}
	dsn = cfg.DSN()
	assert.Contains(t, dsn, "charset=latin1")
	assert.Contains(t, dsn, "sql_mode=TRADITIONAL")
	assert.NotContains(t, dsn, "utf8mb4")
}
