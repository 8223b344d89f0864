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
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(65536), cfg.Server.MaxBodySize)
	assert.Equal(t, "https://taeyoon.kr", cfg.Server.AllowedOrigin)
	assert.False(t, cfg.Server.TrustProxyHeader)
	assert.Equal(t, 5*time.Second, cfg.Captcha.RequestTimeout)
	assert.Equal(t, "contact@taeyoon.kr", cfg.Mail.From)
	assert.Equal(t, "submission-accepted", cfg.Notify.Events)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, int64(3), cfg.RateLimit.Max)
	assert.Equal(t, 3*time.Second, cfg.Abuse.MinFillTime)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONTACTD_SERVER_LISTEN", ":9090")
	t.Setenv("CONTACTD_SERVER_ALLOWED_ORIGIN", "https://staging.taeyoon.kr")
	t.Setenv("CONTACTD_RATELIMIT_MAX", "5")
	t.Setenv("CONTACTD_RATELIMIT_WINDOW", "120s")
	t.Setenv("CONTACTD_CAPTCHA_SECRET_KEY", "0x4AAA-secret")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "https://staging.taeyoon.kr", cfg.Server.AllowedOrigin)
	assert.Equal(t, int64(5), cfg.RateLimit.Max)
	assert.Equal(t, 120*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "0x4AAA-secret", cfg.Captcha.SecretKey)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`server:
  listen: ":7070"
ratelimit:
  max: 10
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Listen)
	assert.Equal(t, int64(10), cfg.RateLimit.Max)
	// untouched settings keep their defaults
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen: \":7070\"\n"), 0o600))

	t.Setenv("CONTACTD_SERVER_LISTEN", ":9090")

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	cfg, err := Load(&path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(nil)
		require.NoError(t, err)

		cfg.Captcha.SecretKey = "0x4AAA-secret"

		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing allowed origin", func(t *testing.T) {
		cfg := base()
		cfg.Server.AllowedOrigin = ""

		assert.ErrorIs(t, cfg.Validate(), ErrMissingAllowedOrigin)
	})

	t.Run("missing captcha secret", func(t *testing.T) {
		cfg := base()
		cfg.Captcha.SecretKey = ""

		assert.ErrorIs(t, cfg.Validate(), ErrMissingCaptchaSecret)
	})

	t.Run("non-positive rate limit", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.Max = 0

		assert.ErrorIs(t, cfg.Validate(), ErrInvalidRateLimit)
	})
}

func TestNotifyEventKinds(t *testing.T) {
	tests := []struct {
		name   string
		events string
		want   []string
	}{
		{
			name:   "single kind",
			events: "submission-accepted",
			want:   []string{"submission-accepted"},
		},
		{
			name:   "multiple with spaces",
			events: "submission-accepted, security-alert",
			want:   []string{"submission-accepted", "security-alert"},
		},
		{
			name:   "empty entries dropped",
			events: ",submission-accepted,,",
			want:   []string{"submission-accepted"},
		},
		{
			name:   "empty string",
			events: "",
			want:   []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := Notify{Events: tc.events}
			assert.Equal(t, tc.want, n.EventKinds())
		})
	}
}
