package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/config"
	"github.com/medlink/portal-server-go/internal/database"
	"github.com/medlink/portal-server-go/internal/handler"
	"github.com/medlink/portal-server-go/internal/jobs"
	"github.com/medlink/portal-server-go/internal/mail"
	"github.com/medlink/portal-server-go/internal/middleware"
	"github.com/medlink/portal-server-go/internal/redis"
	"github.com/medlink/portal-server-go/internal/repository"
	"github.com/medlink/portal-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("database ping failed")
	}

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	accountRepo := repository.NewAccountRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	resetRepo := repository.NewResetTokenRepository(db.DB)
	requestRepo := repository.NewConsultationRequestRepository(db.DB)
	apptRepo := repository.NewAppointmentRepository(db.DB)

	mailer := mail.NewSender(cfg)

	authService, err := service.NewAuthService(
		db, accountRepo, sessionRepo, resetRepo, mailer,
		cfg.Argon2Params(), cfg.SessionSecret, cfg.PortalBaseURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}
	consultationService := service.NewConsultationService(db, requestRepo, apptRepo)

	sessionGuard := middleware.NewSessionMiddleware(authService)
	authRateLimit := middleware.NewAuthRateLimitMiddleware(redisClient.Client)
	csrf := middleware.NewCSRFMiddleware(isProduction)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isProduction)
	bodyLimit := middleware.NewBodyLimitMiddleware(middleware.DefaultMaxBodySize)

	authHandler := handler.NewAuthHandler(authService, isProduction)
	consultationHandler := handler.NewConsultationHandler(consultationService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeaders.Handler)
	r.Use(bodyLimit.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(csrf.Handler)

		r.With(authRateLimit.Handler).Mount("/auth", authHandler.Routes(sessionGuard.Handler))

		r.Group(func(r chi.Router) {
			r.Use(sessionGuard.Handler)
			r.Mount("/consultations", consultationHandler.Routes())
			r.Get("/appointments", consultationHandler.ListAppointments)
		})
	})

	cleanup := jobs.NewCleanupJob(sessionRepo, resetRepo, config.CleanupJobInterval)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	cleanup.Start(cleanupCtx)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("production", isProduction).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	stopCleanup()
	cleanup.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
