package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/hogwarts")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "/api/v1", cfg.BaseURL)
		assert.Equal(t, "postgres", cfg.DB.Driver)
		assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.True(t, cfg.S3.ForcePathStyle)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/hogwarts")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_URL", "whatever")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "oracle")

		_, err := Load()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_URL", "file:hogwarts.db")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("JWT_TTL", "30m")
		t.Setenv("API_BASE_URL", "/api/v2")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.DB.Driver)
		assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
		assert.Equal(t, "/api/v2", cfg.BaseURL)
	})
}
