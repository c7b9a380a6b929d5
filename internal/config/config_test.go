package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SESSION_STORE", "CACHE_SIZE", "GITHUB_CLIENT_ID", "MINIO_ENDPOINT", "SITE_URL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "auto", cfg.Session.Store)
	assert.Equal(t, 500, cfg.Cache.Size)
	assert.Equal(t, "http://localhost:8080", cfg.Server.SiteURL)
	assert.False(t, cfg.GitHub.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_SIZE", "not-a-number")
	t.Setenv("SITE_URL", "https://stories.example/")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := FromEnv()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 500, cfg.Cache.Size)
	assert.Equal(t, "https://stories.example", cfg.Server.SiteURL)
	assert.True(t, cfg.GitHub.Enabled())
	assert.True(t, cfg.MinIO.UseSSL)
}
