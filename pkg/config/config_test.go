package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*1024*1024, cfg.Upload.MaxBytes)
	assert.False(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_BUCKET", "imagenes")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("METRICS_ENABLED", "false")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_ProductionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "protrack", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/protrack?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
