package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campusprep-api/internal/config"
	"github.com/noah-isme/campusprep-api/internal/database"
	"github.com/noah-isme/campusprep-api/internal/handler"
	"github.com/noah-isme/campusprep-api/internal/middleware"
	"github.com/noah-isme/campusprep-api/internal/repository"
	"github.com/noah-isme/campusprep-api/internal/router"
	"github.com/noah-isme/campusprep-api/internal/service"
	"github.com/noah-isme/campusprep-api/pkg/ai"
	cloud "github.com/noah-isme/campusprep-api/pkg/cloudinary"
	"github.com/noah-isme/campusprep-api/pkg/events"
	"github.com/noah-isme/campusprep-api/pkg/storage"
	"github.com/noah-isme/campusprep-api/pkg/token"
)

const sessionSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if !cfg.IsProduction() {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to access database handle")
	}
	defer sqlDB.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, refresh sessions fall back to the database")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, domain events use the fallback publisher")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.AppName,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure token manager")
	}

	hasher, err := service.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure password hasher")
	}

	provider, err := ai.NewProvider(ai.Settings{
		Provider:        cfg.AIProvider,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure question provider")
	}

	fileStorage, uploadDir, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure note storage")
	}

	publisher := events.NewBestEffort(buildPublisher(cfg, natsConn, redisClient, logger), logger)
	validate := service.NewValidator()

	accountRepo := repository.NewAccountRepository(db)
	sessionRepo := repository.NewRefreshSessionRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	var sessions service.RefreshSessionStore
	if redisClient != nil {
		sessions = service.NewRedisSessionStore(redisClient, "campusprep")
	} else {
		sessions = service.NewDBSessionStore(sessionRepo)
		go sweepExpiredSessions(ctx, sessionRepo, logger)
	}

	authService := service.NewAuthService(accountRepo, sessions, tokens, hasher, validate, logger)
	interviewService := service.NewInterviewService(interviewRepo, provider, publisher, validate, logger)
	dashboardService := service.NewDashboardService(interviewRepo, noteRepo, logger)
	noteService := service.NewNoteService(noteRepo, fileStorage, publisher, validate, cfg.MaxUploadMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.ClientURL,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authService, cfg.IsProduction(), logger),
		InterviewHandler: handler.NewInterviewHandler(interviewService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		NoteHandler:      handler.NewNoteHandler(noteService, logger),
		HealthHandler:    handler.HealthCheck(cfg, provider.Name(), sqlDB),
		JWTMiddleware:    middleware.JWTProtected(tokens),
		AuthLimiter:      middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
		UploadDir:        uploadDir,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("provider", provider.Name()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(ctx, app, logger)
}

// buildStorage prefers Cloudinary when credentials exist; otherwise notes are written to disk
// and the returned directory is served under /uploads.
func buildStorage(cfg config.Config, logger zerolog.Logger) (storage.FileStorage, string, error) {
	if cfg.CloudinaryEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		return uploader, "", nil
	}

	local, err := storage.NewLocal(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	logger.Info().Str("dir", local.Root()).Msg("storing notes on local disk")
	return local, local.Root(), nil
}

func buildPublisher(cfg config.Config, natsConn *nats.Conn, redisClient *redis.Client, logger zerolog.Logger) events.Publisher {
	switch {
	case natsConn != nil:
		return events.NewNATSPublisher(natsConn, cfg.NATSSubjectPrefix, cfg.AppName)
	case redisClient != nil:
		return events.NewRedisPublisher(redisClient, cfg.NATSSubjectPrefix, cfg.AppName)
	default:
		logger.Info().Msg("no event broker configured, domain events are dropped")
		return events.Nop{}
	}
}

func sweepExpiredSessions(ctx context.Context, repo repository.RefreshSessionRepository, logger zerolog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to sweep expired refresh sessions")
				continue
			}
			if removed > 0 {
				logger.Debug().Int64("removed", removed).Msg("expired refresh sessions swept")
			}
		}
	}
}

func waitForShutdown(ctx context.Context, app *fiber.App, logger zerolog.Logger) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
