// Package main initializes and starts the Zenly API server, setting up
// configuration, logging, storage, services, handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/config"
	"github.com/atinyakov/zenly/internal/db"
	"github.com/atinyakov/zenly/internal/logger"
	"github.com/atinyakov/zenly/internal/metrics"
	"github.com/atinyakov/zenly/internal/middleware"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/atinyakov/zenly/internal/repository"
	"github.com/atinyakov/zenly/internal/security"
	"github.com/atinyakov/zenly/internal/server/handler/http"
	"github.com/atinyakov/zenly/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

// stores groups the repositories behind the services.
type stores struct {
	users       service.UserRepository
	moods       service.MoodRepository
	journals    service.JournalRepository
	meditations service.MeditationRepository
}

// seedStore adapts stores to what the seeder needs.
type seedStore struct {
	service.UserRepository
	meditations service.MeditationRepository
}

func (s seedStore) CreateMeditation(ctx context.Context, m *models.Meditation) error {
	return s.meditations.CreateMeditation(ctx, m)
}

func main() {
	// Parse command-line, file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	if err := options.Validate(); err != nil {
		zapLogger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStores(ctx, options, zapLogger)
	defer closeStore()

	if options.Seed {
		if options.SeedAdminPassword == config.DefaultAdminPassword {
			zapLogger.Warn("seeding admin account with the default password; change it",
				zap.String("email", options.SeedAdminEmail))
		}
		seeder := service.NewSeeder(seedStore{UserRepository: st.users, meditations: st.meditations}, zapLogger)
		if err := seeder.Seed(ctx, service.SeedOptions{
			AdminEmail:    options.SeedAdminEmail,
			AdminPassword: options.SeedAdminPassword,
		}); err != nil {
			zapLogger.Fatal("failed to seed store", zap.Error(err))
		}
	}

	// Credentials and the auth gate.
	issuer, err := auth.NewIssuer([]byte(options.JWTSecret), options.TokenTTL.Duration)
	if err != nil {
		zapLogger.Fatal("failed to create token issuer", zap.Error(err))
	}
	gate := auth.NewGate(issuer, st.users)

	// Initialize business-logic services.
	sanitizer := security.NewSanitizer()
	authService := service.NewAuthService(st.users, issuer)
	userService := service.NewUserService(st.users)
	moodService := service.NewMoodService(st.moods, sanitizer)
	journalService := service.NewJournalService(st.journals, sanitizer)
	meditationService := service.NewMeditationService(st.meditations, sanitizer)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var limiter *middleware.RateLimiter
	if options.AuthRateLimit > 0 {
		limiter = middleware.NewRateLimiter(middleware.PerMinute(options.AuthRateLimit), zapLogger)
		defer limiter.Stop()
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.RouterDeps{
		Auth:        &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Users:       &http.UserHandler{UserService: userService, Log: zapLogger},
		Moods:       &http.MoodHandler{MoodService: moodService, Log: zapLogger},
		Journals:    &http.JournalHandler{JournalService: journalService, Log: zapLogger},
		Meditations: &http.MeditationHandler{MeditationService: meditationService, Log: zapLogger},
		Gate:        gate,
		Metrics:     metrics.NewCollector(registry),
		Gatherer:    registry,
		AuthLimiter: limiter,
		TrustProxy:  options.TrustProxy,
		CORSOrigins: options.Origins(),
		Logger:      zapLogger,
	})

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSEnabled() {
			server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// openStores connects to PostgreSQL when a DSN is configured and falls
// back to the in-memory store otherwise. The returned func releases it.
func openStores(ctx context.Context, options *config.Options, log *zap.Logger) (stores, func()) {
	if options.DatabaseDSN == "" {
		log.Warn("no database DSN configured; using the in-memory store")
		mem := repository.NewMemoryStore()
		return stores{users: mem, moods: mem, journals: mem, meditations: mem}, func() {}
	}

	if err := db.RunMigrations(options.DatabaseDSN); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		log.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted entries in the background.
	db.StartSoftDeleteCleaner(ctx, postgresDB, time.Hour, db.DefaultRetention, log)

	return stores{
		users:       repository.NewPostgresUserRepository(postgresDB),
		moods:       repository.NewPostgresMoodRepository(postgresDB),
		journals:    repository.NewPostgresJournalRepository(postgresDB),
		meditations: repository.NewPostgresMeditationRepository(postgresDB),
	}, func() { _ = postgresDB.Close() }
}
