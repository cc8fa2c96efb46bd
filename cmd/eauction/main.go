package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eauction-service/internal/adapters/db"
	"eauction-service/internal/adapters/email"
	"eauction-service/internal/adapters/notifier"
	"eauction-service/internal/adapters/redis"
	"eauction-service/internal/adapters/scheduler"
	"eauction-service/internal/app"
	"eauction-service/internal/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting eAuction service...")

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	log.Info().Msg("Database connection established")

	// Create repositories
	repoFactory := db.NewRepositoryFactory(dbConn)
	itemRepo := repoFactory.GetItemRepository()
	auctionRepo := repoFactory.GetAuctionRepository()
	bidRepo := repoFactory.GetBidRepository()
	userRepo := repoFactory.GetUserRepository()
	notificationRepo := repoFactory.GetNotificationRepository()

	log.Info().Msg("Database repositories initialized")

	// Create Redis client
	redisClient := redis.NewClient(cfg)
	if err := redis.PingRedis(redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	// Connect to NATS for the email worker
	natsConn, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer natsConn.Drain()
	log.Info().Msg("NATS connection established")

	clock := scheduler.SystemClock{}

	// Create dispatchers
	notificationDispatcher := notifier.NewRedisNotifier(notifier.RedisNotifierParams{
		RedisClient: redisClient,
		Repo:        notificationRepo,
		Clock:       clock,
		Logger:      log.Logger,
	})
	emailDispatcher := email.NewNatsDispatcher(email.NatsDispatcherParams{
		Conn:    natsConn,
		Subject: cfg.Nats.EmailSubject,
		Logger:  log.Logger,
	})
	log.Info().Msg("Dispatchers initialized")

	// The lifecycle service drives all scheduled transitions. The guard
	// serializes them per item against concurrent bid placement.
	guard := app.NewItemGuard()

	auctionService := app.NewAuctionService(app.AuctionServiceParams{
		AuctionRepo:      auctionRepo,
		ItemRepo:         itemRepo,
		BidRepo:          bidRepo,
		UserRepo:         userRepo,
		Notifier:         notificationDispatcher,
		Emailer:          emailDispatcher,
		Guard:            guard,
		Clock:            clock,
		EndingSoonWindow: cfg.Clock.EndingSoonWindow,
		Logger:           log.Logger,
	})

	log.Info().Msg("Auction lifecycle service initialized")

	// Create and start the auction clock
	auctionClock := scheduler.NewAuctionClock(scheduler.AuctionClockParams{
		AuctionRepo:      auctionRepo,
		Lifecycle:        auctionService,
		Clock:            clock,
		Interval:         cfg.Clock.SweepInterval,
		EndingSoonWindow: cfg.Clock.EndingSoonWindow,
		MaxWorkers:       cfg.Clock.MaxWorkers,
		Logger:           log.Logger,
	})
	auctionClock.Start()
	log.Info().Msg("Auction clock started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	log.Info().Msg("Starting graceful shutdown...")

	auctionClock.Stop()
	log.Info().Msg("Auction clock stopped")

	log.Info().Msg("Graceful shutdown completed")
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		// JSON format (default)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Console format for development
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global logger
	zerolog.DefaultContextLogger = &log.Logger
}
