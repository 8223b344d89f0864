// Package config loads service configuration from defaults, an optional YAML
// file, and CONTACTD_-prefixed environment variables, in that order of
// precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
	"github.com/samber/lo"
)

// envPrefix is the environment variable prefix for all settings
const envPrefix = "CONTACTD_"

// Config holds service configuration
type Config struct {
	Server    Server    `koanf:"server" json:"server"`
	Captcha   Captcha   `koanf:"captcha" json:"captcha"`
	Mail      Mail      `koanf:"mail" json:"mail"`
	Notify    Notify    `koanf:"notify" json:"notify"`
	RateLimit RateLimit `koanf:"ratelimit" json:"ratelimit"`
	Abuse     Abuse     `koanf:"abuse" json:"abuse"`
}

// Server holds the HTTP listener and request policy settings
type Server struct {
	// Listen is the address the HTTP server binds to
	Listen string `koanf:"listen" json:"listen" default:":8080"`
	// ReadTimeout bounds reading one request
	ReadTimeout time.Duration `koanf:"read_timeout" json:"read_timeout" default:"10s"`
	// WriteTimeout bounds writing one response
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout" default:"30s"`
	// ShutdownGracePeriod bounds graceful shutdown
	ShutdownGracePeriod time.Duration `koanf:"shutdown_grace_period" json:"shutdown_grace_period" default:"30s"`
	// MaxBodySize caps the request body in bytes
	MaxBodySize int64 `koanf:"max_body_size" json:"max_body_size" default:"65536"`
	// AllowedOrigin is the single origin permitted to post submissions
	AllowedOrigin string `koanf:"allowed_origin" json:"allowed_origin" default:"https://taeyoon.kr"`
	// TrustProxyHeader uses the first X-Forwarded-For hop as client identity
	TrustProxyHeader bool `koanf:"trust_proxy_header" json:"trust_proxy_header" default:"false"`
	// Debug enables debug logging output
	Debug bool `koanf:"debug" json:"-"`
	// Pretty enables human readable logging output
	Pretty bool `koanf:"pretty" json:"-"`
}

// Captcha holds the challenge verification settings
type Captcha struct {
	// SecretKey authenticates siteverify calls
	SecretKey string `koanf:"secret_key" json:"-" sensitive:"true"`
	// VerifyURL overrides the verification endpoint, mainly for tests
	VerifyURL string `koanf:"verify_url" json:"verify_url"`
	// RequestTimeout bounds one verification call
	RequestTimeout time.Duration `koanf:"request_timeout" json:"request_timeout" default:"5s"`
}

// Mail holds the transactional email settings
type Mail struct {
	// APIKey authenticates email API calls
	APIKey string `koanf:"api_key" json:"-" sensitive:"true"`
	// From is the sender address
	From string `koanf:"from" json:"from" default:"contact@taeyoon.kr"`
	// To is the notification recipient address
	To string `koanf:"to" json:"to"`
	// RequestTimeout bounds one delivery call
	RequestTimeout time.Duration `koanf:"request_timeout" json:"request_timeout" default:"10s"`
}

// Notify holds the optional webhook channels
type Notify struct {
	// ChatWebhookURL receives chat alerts for accepted submissions
	ChatWebhookURL string `koanf:"chat_webhook_url" json:"-" sensitive:"true"`
	// SecurityWebhookURL receives security events for rejected submissions
	SecurityWebhookURL string `koanf:"security_webhook_url" json:"-" sensitive:"true"`
	// Events is the comma-separated list of event kinds that trigger chat alerts
	Events string `koanf:"events" json:"events" default:"submission-accepted"`
	// RequestTimeout bounds one webhook call
	RequestTimeout time.Duration `koanf:"request_timeout" json:"request_timeout" default:"10s"`
}

// RateLimit holds the per-identity submission cap settings
type RateLimit struct {
	// Window is the counting window duration
	Window time.Duration `koanf:"window" json:"window" default:"60s"`
	// Max is the number of submissions allowed per identity per window
	Max int64 `koanf:"max" json:"max" default:"3"`
	// RedisAddr switches the counter store to Redis when set
	RedisAddr string `koanf:"redis_addr" json:"redis_addr"`
}

// Abuse holds the offline heuristic thresholds
type Abuse struct {
	// MinFillTime is the minimum plausible time between form render and submit
	MinFillTime time.Duration `koanf:"min_fill_time" json:"min_fill_time" default:"3s"`
}

// Load builds the configuration from defaults, the optional YAML file at
// cfgPath, and the environment
func Load(cfgPath *string) (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{}
	defaults.SetDefaults(cfg)

	if cfgPath != nil && *cfgPath != "" {
		err := k.Load(file.Provider(*cfgPath), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	return cfg, nil
}

// envTransform maps CONTACTD_SECTION_SOME_KEY to section.some_key; only the
// first underscore separates the section from the key
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))

	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}

	return parts[0] + "." + parts[1]
}

// Validate checks the settings serve cannot start without
func (c *Config) Validate() error {
	if c.Server.AllowedOrigin == "" {
		return ErrMissingAllowedOrigin
	}

	if c.Captcha.SecretKey == "" {
		return ErrMissingCaptchaSecret
	}

	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

// EventKinds returns the parsed chat-alert event kinds
func (n Notify) EventKinds() []string {
	kinds := strings.Split(n.Events, ",")

	kinds = lo.Map(kinds, func(kind string, _ int) string {
		return strings.TrimSpace(kind)
	})

	return lo.Filter(kinds, func(kind string, _ int) bool {
		return kind != ""
	})
}
