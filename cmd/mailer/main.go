// Command mailer consumes queued mail jobs from RabbitMQ and delivers them
// over SMTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-info-api/config"
	"health-info-api/internal/infrastructure/mail"
	"health-info-api/internal/infrastructure/queue"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	conn, err := queue.Connect(cfg.AMQP.URL, 10, 3*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := queue.SetupChannel(conn, []queue.QueueConfig{
		{QueueName: cfg.AMQP.Queue, RoutingKey: queue.EmailRoutingKey},
	})
	if err != nil {
		log.Fatalf("Failed to set up RabbitMQ channel: %v", err)
	}
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.AMQP.Queue, "mailer", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("Failed to consume %s: %v", cfg.AMQP.Queue, err)
	}

	sender := mail.NewSMTPSender(cfg.Mail, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("Mailer consuming queue %s", cfg.AMQP.Queue)
	queue.Drain(ctx, deliveries, deliver(sender, log), log)
	log.Info("Mailer shut down")
}

func deliver(sender mail.Sender, log *logrus.Logger) queue.HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var msg mail.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("decode mail job: %w", err)
		}
		if err := sender.Send(ctx, msg); err != nil {
			err = fmt.Errorf("send %q to %s: %s: %w", msg.Subject, msg.To, mail.Describe(err), err)
			// Timeouts and refused connections usually clear up, so the job goes back on the queue.
			if errors.Is(err, mail.ErrTimeout) || errors.Is(err, mail.ErrConnect) {
				return queue.Transient(err)
			}
			return err
		}
		log.Infof("Delivered %q to %s", msg.Subject, msg.To)
		return nil
	}
}
