package bootstrap

import (
	"context"
	"fmt"
	"log"

	"rainier-guide-be/internal/config"
	"rainier-guide-be/internal/controller"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/repository/implementation"
	"rainier-guide-be/internal/repository/memory"
	"rainier-guide-be/internal/repository/unitofwork"
	"rainier-guide-be/internal/service"
	"rainier-guide-be/internal/websocket"
	"rainier-guide-be/pkg/events"
	pktNats "rainier-guide-be/pkg/nats"
	"rainier-guide-be/pkg/trails"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController       controller.IChatController
	TrailController      controller.ITrailController
	ConditionsController controller.IConditionsController
	PassageController    controller.IPassageController
	AdminController      controller.IAdminController

	// Guards maintenance routes
	AdminGuard fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	conditionsService service.IConditionsService
	indexAlerts       bool

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	logs := Loggers(sysLogger.StdLogger)
	c := &Container{Logger: sysLogger}

	// 2. Ingestion queue
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var eventPublisher events.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	rdb := NewRedisClient(ctx, cfg)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	embeddingProvider := NewEmbeddingProvider(cfg)
	loader := NewCacheLoader(cfg, rdb, logs)
	weatherClient := NewWeatherClient(cfg, loader, logs)
	alertsClient := NewAlertsClient(cfg, loader, logs)

	catalog, err := trails.Load(cfg.Data.TrailsFile)
	if err != nil {
		return nil, fmt.Errorf("trail dataset: %w", err)
	}

	passageRepo := implementation.NewParkPassageRepository(db)
	chain, err := NewPipeline(cfg, PipelineParts{
		Embedding: embeddingProvider,
		Index:     passageRepo,
		Weather:   weatherClient,
		Alerts:    alertsClient,
		Trails:    catalog,
	}, logs)
	if err != nil {
		return nil, err
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.SocketLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	go c.WebSocketHub.Run(ctx)

	// 4. Services
	sessionRepo := memory.NewSessionRepository(cfg.Cache.SessionTTL)
	publisherService := service.NewPublisherService(pubSub, cfg.Data.IngestTopic)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Data.IngestTopic,
		uowFactory,
		embeddingProvider,
		eventPublisher,
		service.ChunkConfig{Size: cfg.Data.ChunkSize, Overlap: cfg.Data.ChunkOverlap},
		sysLogger,
	)

	chatService := service.NewChatService(chain.Orchestrator, sessionRepo, eventPublisher, sysLogger)
	passageService := service.NewPassageService(passageRepo, publisherService, chain.Retriever, cfg.Pipeline.TopK)
	c.conditionsService = service.NewConditionsService(weatherClient, alertsClient, publisherService, sysLogger)
	c.indexAlerts = cfg.Data.AlertsToIndex
	trailService := service.NewTrailService(catalog)
	logService := service.NewLogService(sysLogger)

	// 5. Controllers
	c.ChatController = controller.NewChatController(chatService, c.WebSocketHub, wsLogger)
	c.TrailController = controller.NewTrailController(trailService)
	c.ConditionsController = controller.NewConditionsController(c.conditionsService)
	c.PassageController = controller.NewPassageController(passageService)
	c.AdminController = controller.NewAdminController(logService)
	c.AdminGuard = serverutils.AdminTokenMiddleware(cfg.App.AdminToken)

	return c, nil
}

// StartBackground subscribes the ingestion consumer and, when enabled, queues the current park alerts.
// The queue drops messages published before a subscriber exists, so alerts go out after Consume.
func (c *Container) StartBackground(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	if c.indexAlerts {
		go func() {
			if _, err := c.conditionsService.IndexAlerts(ctx); err != nil {
				log.Printf("[WARN] Park alerts were not indexed: %v", err)
			}
		}()
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
