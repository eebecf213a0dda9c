package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/config"
	"github.com/nekogravitycat/stay-booking-backend/internal/notification"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
)

// The notifier consumes booking.confirmed events and mails the guest and the
// admin address.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadNotifier()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load config", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "stay-booking-notifier",
	})

	client, err := notification.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatal("failed to create smtp client", "error", err)
	}
	mailer := notification.NewMailer(client, cfg.MailFrom, cfg.MailAdmin, log)

	consumer, err := notification.NewConsumer(notification.ConsumerConfig{
		Brokers:    cfg.KafkaBrokers,
		Topic:      cfg.KafkaTopicConfirmed,
		GroupID:    cfg.KafkaConsumerGroup,
		MaxRetries: cfg.KafkaConsumerMaxRetries,
		Backoff:    time.Second,
	}, mailer.Handle, log)
	if err != nil {
		log.Fatal("failed to create consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("failed to close consumer", "error", err)
		}
	}()

	log.Info("notifier running", "topic", cfg.KafkaTopicConfirmed, "group", cfg.KafkaConsumerGroup)
	if err := consumer.Run(ctx); err != nil {
		log.Error("consumer stopped", "error", err)
	}
	log.Info("notifier exited")
}
