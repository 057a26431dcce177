package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/database"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/httpapi"
	"brightscope/internal/logging"
	"brightscope/internal/payments"
	"brightscope/internal/services"
	"brightscope/internal/tokenstore"
	"brightscope/internal/util"
)

const (
	shutdownTimeout   = 30 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	poolStatsInterval = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}
	log := logging.New(cfg.App)

	if err := config.ValidateSecrets(cfg); err != nil {
		log.Fatal().Err(err).Msg("configuration validation failed")
	}

	log.Info().
		Str("name", cfg.App.Name).
		Str("version", cfg.App.Version).
		Bool("debug", cfg.App.Debug).
		Str("addr", cfg.App.Host+":"+cfg.App.Port).
		Msg("starting")

	db, err := database.Open(cfg.Database, logging.Component(log, "database"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()
	if err := database.InstrumentQueries(db); err != nil {
		log.Fatal().Err(err).Msg("failed to instrument queries")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go reportPoolStats(ctx, db)

	blacklist, closeBlacklist := openBlacklist(ctx, cfg, db, log)
	defer closeBlacklist()

	publisher := openPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event publisher")
		}
	}()

	mailer := email.New(cfg.Email, logging.Component(log, "email"))
	gateway := payments.NewPayTabs(cfg.PayTabs, &http.Client{Timeout: cfg.PayTabs.Timeout()})
	tokens := util.NewTokenManager(cfg.Auth, nil)

	contactSvc := services.NewContactService(db, mailer, publisher, cfg.Email.AdminNotify, logging.Component(log, "contact"))
	svcs := httpapi.Services{
		Auth:     services.NewAuthService(db, tokens, blacklist, mailer, publisher, cfg, logging.Component(log, "auth")),
		Contact:  contactSvc,
		Catalog:  services.NewCatalogService(db, logging.Component(log, "catalog")),
		Features: services.NewFeatureService(db, logging.Component(log, "features")),
		Bookings: services.NewBookingService(db, mailer, publisher, logging.Component(log, "booking")),
		Payments: services.NewPaymentService(db, gateway, publisher, cfg.Frontend, logging.Component(log, "payments")),
		Settings: services.NewSettingsService(db, publisher, logging.Component(log, "settings")),
		Admin:    services.NewAdminService(db, logging.Component(log, "admin")),
		Health:   services.NewHealthService(db, cfg.App.Name, cfg.App.Version, logging.Component(log, "health")),
	}
	handler := httpapi.New(cfg, svcs, logging.Component(log, "http")).Handler()

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     stdlog.New(logging.Component(log, "net/http"), "", 0),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error().Err(err).Msg("server failed")
	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("starting graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if errors.Is(err, context.DeadlineExceeded) {
			_ = httpServer.Close()
		}
	}
	contactSvc.Wait()

	log.Info().Msg("server shutdown complete")
}

// openBlacklist prefers redis when configured and falls back to the database table.
func openBlacklist(ctx context.Context, cfg *config.Config, db *gorm.DB, log zerolog.Logger) (tokenstore.Blacklist, func()) {
	if cfg.Redis.URL == "" {
		return tokenstore.NewGormBlacklist(db), func() {}
	}
	rb, err := tokenstore.NewRedisBlacklist(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Msg("token blacklist backed by redis")
	return rb, func() {
		if err := rb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}
}

func openPublisher(cfg *config.Config, log zerolog.Logger) events.Publisher {
	if cfg.RabbitMQ.URL == "" {
		return events.Nop{}
	}
	pub, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logging.Component(log, "events"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	return pub
}

func reportPoolStats(ctx context.Context, db *gorm.DB) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		database.ReportPoolStats(db)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
