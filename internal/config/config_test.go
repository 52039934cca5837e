package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/songs.db", cfg.Database.Path)
	assert.Equal(t, "mga_session", cfg.Auth.CookieName)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL())
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.Equal(t, []string{"en", "es"}, cfg.I18n.Supported)
	assert.Equal(t, "locale", cfg.I18n.CookieName)
	assert.Equal(t, "theme", cfg.Theme.CookieName)
	assert.Equal(t, 10*time.Minute, cfg.FeedInterval())
	assert.Empty(t, cfg.Feed.Bucket)
	assert.Empty(t, cfg.Feed.ACL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MGA_SERVER_ADDR", ":9000")
	t.Setenv("MGA_AUTH_SESSIONSECRET", "s3cr3t")
	t.Setenv("MGA_I18N_SUPPORTED", "en, es")
	t.Setenv("MGA_FEED_INTERVALMINUTES", "3")
	t.Setenv("MGA_FEED_ACL", "public-read")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "s3cr3t", cfg.Auth.SessionSecret)
	assert.Equal(t, []string{"en", "es"}, cfg.I18n.Supported)
	assert.Equal(t, 3*time.Minute, cfg.FeedInterval())
	assert.Equal(t, "public-read", cfg.Feed.ACL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"# comment\nMGA_LOG_LEVEL=debug\nMGA_SERVER_ADDR=\":7000\"\n",
	), 0o644))
	t.Setenv("MGA_SERVER_ADDR", ":9100")
	t.Cleanup(func() { _ = os.Unsetenv("MGA_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.SessionSecret = "secret"
		cfg.Auth.SessionTTLHours = 1
		cfg.I18n.DefaultLocale = "en"
		cfg.I18n.Supported = []string{"en", "es"}
		return cfg
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})
	t.Run("missing secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.SessionSecret = "  "
		assert.EqualError(t, cfg.Validate(), "auth session secret is required")
	})
	t.Run("non positive ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.SessionTTLHours = 0
		assert.Error(t, cfg.Validate())
	})
	t.Run("unsupported default locale", func(t *testing.T) {
		cfg := valid()
		cfg.I18n.DefaultLocale = "fr"
		assert.Error(t, cfg.Validate())
	})
}
