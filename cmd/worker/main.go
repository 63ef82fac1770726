package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/eduelevate/internal/config"
	notifService "anoa.com/eduelevate/internal/modules/notification/service"
	"anoa.com/eduelevate/pkg/logger"
	"anoa.com/eduelevate/pkg/mailer"
	"github.com/hibiken/asynq"
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

	if cfg.RedisURL == "" {
		zlog.Fatal("REDIS_URL is required for the worker")
	}
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("invalid REDIS_URL", zap.Error(err))
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

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			notifService.QueueEmail: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(notifService.TypeEmailSend, notifService.NewEmailTaskHandler(m, zlog))

	if err := srv.Start(mux); err != nil {
		zlog.Fatal("failed to start worker", zap.Error(err))
	}
	zlog.Info("email worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down worker")
	srv.Shutdown()
}
