// Command answer_audit subscribes to answered-question events on NATS and keeps them in a dedicated log.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"rainier-guide-be/internal/config"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/pkg/events"
	pktNats "rainier-guide-be/pkg/nats"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	defer auditLogger.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe(ctx, events.TypeQuestionAnswered, cfg.Data.AuditDurable, func(_ context.Context, ev events.Event) error {
		auditLogger.Info("AUDIT", "question answered", ev.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	err = sub.Subscribe(ctx, events.TypePassagesIngested, cfg.Data.AuditDurable+"-ingest", func(_ context.Context, ev events.Event) error {
		auditLogger.Info("AUDIT", "passages ingested", ev.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Printf("Answer audit running, writing to %s", cfg.App.AuditLogFilePath)
	<-ctx.Done()
	log.Println("Answer audit stopped")
}
