package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	assert.Equal(t, "data/blog.db", cfg.Database.Path)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.EnforceOwnership)
	assert.Equal(t, "blog-exports", cfg.Storage.KeyPrefix)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOG_AUTH_JWTSECRET", "from-env")
	t.Setenv("BLOG_AUTH_ENFORCEOWNERSHIP", "true")
	t.Setenv("BLOG_SERVER_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.EnforceOwnership)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("BLOG_DATABASE_PATH=from-dotenv.db\nBLOG_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("BLOG_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("BLOG_DATABASE_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}
