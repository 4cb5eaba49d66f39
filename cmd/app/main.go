package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "gymflow/docs"

	"gymflow/internal/auth"
	"gymflow/internal/billing"
	"gymflow/internal/booking"
	"gymflow/internal/club"
	"gymflow/internal/config"
	"gymflow/internal/db"
	"gymflow/internal/email"
	"gymflow/internal/events"
	"gymflow/internal/gymclass"
	"gymflow/internal/ledger"
	"gymflow/internal/logger"
	"gymflow/internal/membership"
	"gymflow/internal/server"
	"gymflow/internal/user"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// @title GymFlow API
// @version 1.0
// @description Gym membership backend: class booking, membership plans and daily billing.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	logger.Info("Starting GymFlow", "env", cfg.Env)

	bookingLoc := cfg.Booking.Timezone.Location
	billingLoc := cfg.Billing.Timezone.Location
	windowMode, err := booking.ParseWindowMode(cfg.Booking.WindowMode)
	if err != nil {
		logger.Fatalf("Invalid booking window: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(rdb,
		cfg.Email.From,
		cfg.Email.FromName,
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
	)
	defer emailService.Close()

	publisher, err := events.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	tokens, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		logger.Fatalf("Invalid auth configuration: %v", err)
	}

	userService := user.NewService(user.NewRepository(database), tokens)
	clubRepo := club.NewRepository(database)
	clubService := club.NewService(clubRepo)
	classService := gymclass.NewService(gymclass.NewRepository(database), clubRepo)
	ledgerService := ledger.NewService(ledger.NewRepository(database), emailService, publisher, billingLoc)
	membershipService := membership.NewService(membership.NewRepository(database), ledgerService)
	bookingService := booking.NewService(
		booking.NewRepository(database),
		classService,
		userService,
		emailService,
		publisher,
		booking.Config{
			WeeklyLimit: cfg.Booking.WeeklyLimit,
			WindowMode:  windowMode,
			Location:    bookingLoc,
		},
	)

	scheduler, err := billing.NewScheduler(ledgerService, billing.NewRedisLocker(rdb, cfg.Billing.LockTTL), billing.Config{
		Schedule:   cfg.Billing.Schedule,
		Location:   billingLoc,
		RunOnStart: cfg.Billing.RunOnStart,
	})
	if err != nil {
		logger.Fatalf("Invalid billing schedule: %v", err)
	}

	srv := server.New(cfg, database, tokens, server.Handlers{
		User:       user.NewHandler(userService),
		Club:       club.NewHandler(clubService),
		Class:      gymclass.NewHandler(classService),
		Booking:    booking.NewHandler(bookingService),
		Membership: membership.NewHandler(membershipService),
		Ledger:     ledger.NewHandler(ledgerService),
		Billing:    billing.NewHandler(scheduler),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		emailService.Start(gctx)
		return nil
	})
	g.Go(func() error {
		return scheduler.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server error: %v", err)
	}
	logger.Info("Server stopped")
}
