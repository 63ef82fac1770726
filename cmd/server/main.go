package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anoa.com/eduelevate/internal/bootstrap"
	"anoa.com/eduelevate/internal/config"
	aiService "anoa.com/eduelevate/internal/modules/ai/service"
	notifService "anoa.com/eduelevate/internal/modules/notification/service"
	userRepo "anoa.com/eduelevate/internal/modules/user/repository"
	"anoa.com/eduelevate/internal/scheduler"
	"anoa.com/eduelevate/internal/server"
	"anoa.com/eduelevate/pkg/database"
	"anoa.com/eduelevate/pkg/logger"
	"anoa.com/eduelevate/pkg/mailer"
	"anoa.com/eduelevate/pkg/razorpay"
	"anoa.com/eduelevate/pkg/storage"
	"github.com/hibiken/asynq"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    !cfg.IsProduction(),
	})
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db, zlog); err != nil {
			zlog.Fatal("failed to seed admin user", zap.Error(err))
		}
		if err := bootstrap.SeedCategories(db, zlog); err != nil {
			zlog.Fatal("failed to seed categories", zap.Error(err))
		}
	}

	redisClient := connectRedis(cfg.RedisURL, zlog)
	if redisClient != nil {
		defer redisClient.Close()
	}

	m, err := mailer.New(mailer.Options{
		Driver:         cfg.MailDriver,
		FromName:       cfg.MailFromName,
		From:           cfg.MailFrom,
		Host:           cfg.MailHost,
		Port:           cfg.MailPort,
		Username:       cfg.MailUser,
		Password:       cfg.MailPass,
		SendgridAPIKey: cfg.SendgridAPIKey,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize mailer", zap.Error(err))
	}

	var dispatcher notifService.Dispatcher = notifService.NewGoroutineDispatcher(m, zlog)
	if redisClient != nil {
		redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("invalid REDIS_URL for queue", zap.Error(err))
		}
		queue := asynq.NewClient(redisOpt)
		defer queue.Close()
		dispatcher = notifService.NewQueueDispatcher(queue, dispatcher, zlog)
	}
	notifier := notifService.NewNotificationService(dispatcher, zlog)

	media, err := storage.NewCloudinaryStorage(storage.Options{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		zlog.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	ctx := context.Background()

	var chatModel aiService.ChatModel
	gemini, err := aiService.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		zlog.Warn("study assistant disabled", zap.Error(err))
	} else {
		defer gemini.Close()
		chatModel = gemini
	}

	jobs := scheduler.New(zlog)
	cleanup := scheduler.NewCleanupJob(userRepo.NewOTPRepository(db), userRepo.NewUserRepository(db), cfg.CleanupSchedule, zlog)
	if err := jobs.Register(cleanup); err != nil {
		zlog.Fatal("failed to schedule cleanup", zap.Error(err))
	}
	jobs.Start()
	defer jobs.Stop()

	srv := server.NewServer(cfg, server.Dependencies{
		DB:     db,
		Redis:  redisClient,
		Media:  media,
		Search: meilisearch.New(meiliHost(cfg.MeiliSearchHost), meilisearch.WithAPIKey(cfg.MeiliMasterKey)),
		Payments: razorpay.NewClient(razorpay.Options{
			KeyID:     cfg.RazorpayKey,
			KeySecret: cfg.RazorpaySecret,
			BaseURL:   cfg.RazorpayBaseURL,
		}),
		ChatModel: chatModel,
		Notifier:  notifier,
	}, zlog)

	go func() {
		if err := srv.Run(":" + cfg.Port); err != nil {
			zlog.Fatal("server exited with error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; caching and queueing are then skipped.
func connectRedis(url string, zlog *zap.Logger) *redis.Client {
	if url == "" {
		zlog.Warn("REDIS_URL not set, running without redis")
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		zlog.Fatal("invalid REDIS_URL", zap.Error(err))
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("redis unreachable, running without redis", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

func meiliHost(host string) string {
	if host == "" {
		return "http://localhost:7700"
	}
	if !strings.HasPrefix(host, "http") {
		return "http://" + host + ":7700"
	}
	return host
}
