package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"eventmanager/config"
	_ "eventmanager/docs"
	"eventmanager/internal/adapters/auth"
	"eventmanager/internal/adapters/email"
	deliveryhttp "eventmanager/internal/delivery/http"
	"eventmanager/internal/delivery/http/controllers"
	"eventmanager/internal/delivery/http/middleware"
	"eventmanager/internal/domain"
	"eventmanager/internal/repository/postgres"
	"eventmanager/internal/repository/redis"
	"eventmanager/internal/services"
	"eventmanager/migrations"
)

// @title Event Manager API
// @version 1.0
// @description Events, participation requests with capacity-bounded confirmation, compilations and comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	logger.Info("database ready")

	eventCache, closeCache, err := newEventCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretKey,
			InsecureSkipVerify: cfg.SESSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewParticipationRequestRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	userService := services.NewUserService(userRepo, roleRepo, loginCodeRepo, auth.NewBcryptCodeHasher(0), jwt, emailService,
		services.UserServiceConfig{
			TokenExpiry:    cfg.JWTExpiry,
			AdminEmails:    cfg.AdminEmails,
			ContextTimeout: cfg.ContextTimeout,
		})
	eventService := services.NewEventService(eventRepo, categoryRepo, userRepo, eventCache, logger, cfg.ContextTimeout)
	participationService := services.NewParticipationService(tx, eventRepo, requestRepo, userRepo, eventCache, emailService, logger, cfg.ContextTimeout)
	categoryService := services.NewCategoryService(categoryRepo, cfg.ContextTimeout)
	compilationService := services.NewCompilationService(tx, compilationRepo, eventRepo, cfg.ContextTimeout)
	commentService := services.NewCommentService(commentRepo, eventRepo, userRepo, cfg.ContextTimeout)

	limiter := middleware.NewRateLimiter(ctx, middleware.LimiterConfig{
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
		IdleTTL: 10 * time.Minute,
	})

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:        controllers.NewAuthController(logger, userService),
		User:        controllers.NewUserController(logger, userService),
		Event:       controllers.NewEventController(logger, eventService),
		Request:     controllers.NewRequestController(logger, participationService),
		Category:    controllers.NewCategoryController(logger, categoryService),
		Compilation: controllers.NewCompilationController(logger, compilationService),
		Comment:     controllers.NewCommentController(logger, commentService),
	}, jwt, limiter, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(mux, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

// newEventCache connects to Redis when REDIS_URL is set and otherwise caches nothing.
func newEventCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.EventCache, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, event cache disabled")
		return redis.NewNoopEventCache(), func() {}, nil
	}
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("event cache enabled", "ttl", cfg.EventCacheTTL)
	return redis.NewEventCache(client, cfg.EventCacheTTL), func() { _ = client.Close() }, nil
}
