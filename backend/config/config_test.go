package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, int64(2*1024*1024), cfg.UploadMaxBytes())
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "twelve")
	t.Setenv("JWT_EXPIRES_IN", "7 days")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.True(t, cfg.IsProduction())
}
