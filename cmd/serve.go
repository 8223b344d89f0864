package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/taeyoon0526/taeyoon.kr-sub000/config"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/abuse"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/api"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/captcha"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/dispatch"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/mail"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/ratelimit"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/security"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/webhook"
)

// serveCmd is the cobra command that starts the contact intake server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the contact intake server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", "./config/.config.yaml", "config file location")
}

// serve initializes dependencies and starts the contact intake server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	limiter := setupLimiter(ctx, cfg)

	captchaClient, err := setupCaptcha(cfg)
	if err != nil {
		return fmt.Errorf("setting up captcha verifier: %w", err)
	}

	routerCfg := api.RouterConfig{
		Limiter:        limiter,
		Abuse:          abuse.New(abuse.WithMinFillTime(cfg.Abuse.MinFillTime)),
		Captcha:        captchaClient,
		Reporter:       setupReporter(cfg),
		Dispatcher:     dispatch.New(),
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		TrustProxy:     cfg.Server.TrustProxyHeader,
		MaxBodySize:    cfg.Server.MaxBodySize,
		CaptchaTimeout: cfg.Captcha.RequestTimeout,
		NotifyEvents:   cfg.Notify.EventKinds(),
	}

	if mailer := setupMail(cfg); mailer != nil {
		routerCfg.Mailer = mailer
	}

	if chat := setupChat(cfg); chat != nil {
		routerCfg.Chat = chat
	}

	handler := api.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Str("origin", cfg.Server.AllowedOrigin).Msg("starting contact intake service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupLimiter initializes the rate limiter, backed by Redis when configured
// and an in-process store otherwise
func setupLimiter(ctx context.Context, cfg *config.Config) *ratelimit.Limiter {
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})

		log.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("rate limiter using redis store")

		return ratelimit.New(ratelimit.NewRedisStore(rdb), cfg.RateLimit.Window, cfg.RateLimit.Max)
	}

	store := ratelimit.NewMemoryStore()
	store.StartJanitor(ctx)

	log.Info().Msg("rate limiter using in-memory store")

	return ratelimit.New(store, cfg.RateLimit.Window, cfg.RateLimit.Max)
}

// setupCaptcha initializes the challenge verification client from config
func setupCaptcha(cfg *config.Config) (*captcha.Client, error) {
	opts := []captcha.Option{
		captcha.WithHTTPClient(&http.Client{Timeout: cfg.Captcha.RequestTimeout}),
	}

	if cfg.Captcha.VerifyURL != "" {
		opts = append(opts, captcha.WithVerifyURL(cfg.Captcha.VerifyURL))
	}

	return captcha.New(cfg.Captcha.SecretKey, opts...)
}

// setupMail initializes the email client from config, returning nil when
// unconfigured. Email is the primary promised action to the submitter, so a
// missing key is loudly warned about.
func setupMail(cfg *config.Config) *mail.Client {
	if cfg.Mail.APIKey == "" || cfg.Mail.To == "" {
		log.Warn().Msg("email notifications not configured, accepted submissions will only be logged")
		return nil
	}

	client, err := mail.New(
		cfg.Mail.APIKey,
		cfg.Mail.From,
		cfg.Mail.To,
		mail.WithHTTPClient(&http.Client{Timeout: cfg.Mail.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize email client")
		return nil
	}

	log.Info().Str("to", cfg.Mail.To).Msg("email notifications configured")

	return client
}

// setupChat initializes the chat webhook client from config, returning nil
// when unconfigured
func setupChat(cfg *config.Config) *webhook.Client {
	if cfg.Notify.ChatWebhookURL == "" {
		log.Info().Msg("chat notifications not configured, skipping")
		return nil
	}

	client, err := webhook.New(
		cfg.Notify.ChatWebhookURL,
		webhook.WithHTTPClient(&http.Client{Timeout: cfg.Notify.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize chat webhook client")
		return nil
	}

	log.Info().Msg("chat notifications configured")

	return client
}

// setupReporter initializes the security event reporter, with webhook
// forwarding when a security webhook is configured
func setupReporter(cfg *config.Config) *security.Reporter {
	if cfg.Notify.SecurityWebhookURL == "" {
		log.Info().Msg("security alert webhook not configured, events will only be logged")
		return security.New()
	}

	client, err := webhook.New(
		cfg.Notify.SecurityWebhookURL,
		webhook.WithHTTPClient(&http.Client{Timeout: cfg.Notify.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize security webhook client")
		return security.New()
	}

	log.Info().Msg("security alert webhook configured")

	return security.New(security.WithNotifier(client))
}
