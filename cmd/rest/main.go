package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"rainier-guide-be/internal/bootstrap"
	"rainier-guide-be/internal/config"
	"rainier-guide-be/internal/server"
	"rainier-guide-be/internal/tracer"
	"rainier-guide-be/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// Tracing stays a no-op unless OTEL_ENABLED=true
	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	} else if cfg.Tracing.Enabled {
		log.Printf("OpenTelemetry tracing to %s as %s", cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	}
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.StartBackground(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
