package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashly/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Cashly", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "spa+eng", cfg.OCR.Languages)
	assert.Equal(t, int64(32<<20), cfg.Import.MaxUploadBytes)
	assert.Equal(t, "postgres://postgres:@localhost:5432/cashly?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("OCR_LANGUAGES", "spa")
	t.Setenv("SERVER_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "spa", cfg.OCR.Languages)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "postgres://postgres:secret@db:5432/cashly?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := config.Load()
	assert.Error(t, err)
}
