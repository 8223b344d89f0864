package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/dispatch"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/security"
)

// defaultRequestTimeout bounds a whole request, captcha call included
const defaultRequestTimeout = 30 * time.Second

// defaultMaxBodySize caps the request body when no limit is configured
const defaultMaxBodySize = 64 * 1024

// RouterConfig carries the handler dependencies and policy knobs
type RouterConfig struct {
	Limiter        RateLimiter
	Abuse          AbuseChecker
	Captcha        CaptchaVerifier
	Mailer         MailSender
	Chat           ChatNotifier
	Reporter       SecurityReporter
	Dispatcher     *dispatch.Dispatcher
	AllowedOrigin  string
	TrustProxy     bool
	MaxBodySize    int64
	CaptchaTimeout time.Duration
	NotifyEvents   []string
}

// NewRouter creates a chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.CaptchaTimeout <= 0 {
		cfg.CaptchaTimeout = defaultCaptchaTimeout
	}

	if cfg.Dispatcher == nil {
		cfg.Dispatcher = dispatch.New()
	}

	if cfg.Reporter == nil {
		cfg.Reporter = security.New()
	}

	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}

	h := &Handler{
		limiter:        cfg.Limiter,
		abuse:          cfg.Abuse,
		captcha:        cfg.Captcha,
		mailer:         cfg.Mailer,
		chat:           cfg.Chat,
		reporter:       cfg.Reporter,
		dispatcher:     cfg.Dispatcher,
		allowedOrigin:  cfg.AllowedOrigin,
		trustProxy:     cfg.TrustProxy,
		maxBodySize:    cfg.MaxBodySize,
		captchaTimeout: cfg.CaptchaTimeout,
		notifyEvents:   cfg.NotifyEvents,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(securityHeaders)
	r.Use(corsHandler(cfg.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Post("/contact", h.handleContact)
	})

	return r
}

// securityHeaders applies the hardened header set to every response,
// success or rejection
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

// corsHandler restricts cross-origin access to the single configured origin.
// The allow-origin header is never a wildcard: the endpoint's trust model is
// tied to the one origin serving the form.
func corsHandler(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one structured line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
