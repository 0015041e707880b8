package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/agents"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ai"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/config"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/crm"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/db"
	httpapi "github.com/Flofactionllc/flofaction-website-sub000/internal/http"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/http/handlers"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/intent"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/mail"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ratelimit"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/service"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/speech"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "website-backend").Logger()

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init telemetry")
	}

	store := openStore(ctx, cfg, logger)
	defer store.Close()

	registry := agents.NewRegistry(agents.Defaults())
	if cfg.AgentProfilesPath != "" {
		registry, err = agents.LoadRegistry(cfg.AgentProfilesPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.AgentProfilesPath).Msg("failed to load agent profiles")
		}
	}

	var adapter ai.Adapter
	if cfg.ConvAIURL == "" {
		adapter = ai.MockAdapter{}
		logger.Info().Msg("using mock agent platform adapter")
	} else {
		adapter = ai.HTTPAdapter{BaseURL: cfg.ConvAIURL, APIKey: cfg.ConvAIAPIKey}
	}

	var crmClient crm.Client = crm.Noop{}
	if cfg.CRMURL == "" {
		logger.Info().Msg("crm sync disabled")
	} else {
		crmClient = crm.HTTPClient{BaseURL: cfg.CRMURL, APIKey: cfg.CRMAPIKey}
	}
	leads := &service.LeadSync{CRM: crmClient, Logger: logger, Timeout: cfg.VendorTimeout}

	var mailer mail.Mailer
	if cfg.SMTPHost == "" {
		mailer = mail.LogMailer{Logger: logger}
		logger.Info().Msg("smtp disabled, intake emails are logged")
	} else {
		mailer = mail.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.VendorTimeout,
		}
	}

	var (
		synth       speech.Synthesizer
		transcriber speech.Transcriber
	)
	if cfg.TTSURL == "" {
		logger.Info().Msg("speech vendor not configured, clients use on-device speech")
	} else {
		cached, err := speech.NewCachedSynthesizer(speech.HTTPSynthesizer{
			BaseURL: cfg.TTSURL,
			APIKey:  cfg.TTSAPIKey,
			Model:   cfg.TTSModel,
		}, cfg.TTSCacheMB<<20)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create tts cache")
		}
		defer cached.Close()
		synth = cached
		transcriber = speech.HTTPTranscriber{BaseURL: cfg.TTSURL, APIKey: cfg.TTSAPIKey}
	}

	limiters := openLimiters(cfg, logger)

	engine := intent.NewEngine(intent.DefaultKnowledge(cfg.SchedulingURL))
	for _, name := range engine.Intents() {
		metrics.ChatIntents.WithLabelValues(string(name))
	}

	h := &handlers.Handler{
		Agents: &service.AgentService{
			Store:          store,
			Registry:       registry,
			Engine:         engine,
			AI:             adapter,
			Leads:          leads,
			Logger:         logger,
			PersistTimeout: cfg.PersistTimeout,
			VendorTimeout:  cfg.VendorTimeout,
		},
		Intake: &service.IntakeService{
			Store:  store,
			Mailer: mailer,
			Mailboxes: service.Mailboxes{
				Insurance: cfg.MailboxInsurance,
				Business:  cfg.MailboxBusiness,
				Music:     cfg.MailboxMusic,
				Default:   cfg.MailboxDefault,
			},
			Leads:          leads,
			Logger:         logger,
			PersistTimeout: cfg.PersistTimeout,
			VendorTimeout:  cfg.VendorTimeout,
		},
		Contact: &service.ContactService{
			Store:          store,
			Leads:          leads,
			Logger:         logger,
			PersistTimeout: cfg.PersistTimeout,
		},
		Store:         store,
		Registry:      registry,
		Synth:         synth,
		Transcriber:   transcriber,
		Validator:     validator.New(),
		Logger:        logger,
		MaxTTSChars:   cfg.TTSMaxChars,
		VendorTimeout: cfg.VendorTimeout,
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.Router(cfg, h, limiters, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Int("agents", len(registry.All())).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	if err := shutdownTracing(ctxShutdown); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown")
	}
	logger.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) db.Gateway {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
		return db.NewMemoryStore()
	}
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate db")
	}
	return store
}

func openLimiters(cfg config.Config, logger zerolog.Logger) httpapi.Limiters {
	if cfg.RedisURL == "" {
		return httpapi.Limiters{
			Agent: ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute),
			Forms: ratelimit.NewMemoryLimiter(cfg.FormRateLimit, time.Minute),
		}
	}
	client, err := ratelimit.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	logger.Info().Msg("using redis rate limiter")
	return httpapi.Limiters{
		Agent: ratelimit.NewRedisLimiter(client, "agent", cfg.RateLimitPerMinute, time.Minute),
		Forms: ratelimit.NewRedisLimiter(client, "forms", cfg.FormRateLimit, time.Minute),
	}
}
