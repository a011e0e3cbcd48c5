package bootstrap

import (
	"context"
	"log"
	"path/filepath"

	"ai-forge-be/internal/config"
	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/controller"
	"ai-forge-be/internal/handler"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/internal/repository/memory"
	"ai-forge-be/internal/service"
	"ai-forge-be/internal/websocket"
	"ai-forge-be/pkg/events"
	"ai-forge-be/pkg/llm"
	"ai-forge-be/pkg/llm/factory"
	"ai-forge-be/pkg/workspace"

	pktNats "ai-forge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	WorkspaceController controller.IWorkspaceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	EventLogService *service.EventLogService // nil without NATS

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer builds the completion provider from config and wires everything
func NewContainer(cfg *config.Config) *Container {
	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.Settings{
		Provider:           cfg.Ai.LLMProvider,
		Model:              cfg.Ai.LLMModel,
		GeminiAPIKey:       cfg.Keys.GoogleGemini,
		OllamaBaseURL:      cfg.Ai.OllamaBaseURL,
		HuggingFaceAPIKey:  cfg.Keys.HuggingFace,
		HuggingFaceBaseURL: cfg.Ai.HuggingFaceBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, factory.ResolveModel(cfg.Ai.LLMProvider, cfg.Ai.LLMModel))

	return NewContainerWithProvider(cfg, llmProvider)
}

func NewContainerWithProvider(cfg *config.Config, llmProvider llm.LLMProvider) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure (optional)
	var eventPublisher events.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	wsLogger := logger.NewIsolatedLogger(siblingLog(cfg, "websocket.log"))
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)

	// 4. Workspace domain
	sessionRepo := memory.NewSessionRepository(cfg.Workspace.TTL, cfg.Workspace.TTL/4)
	manager := workspace.NewManager(sessionRepo)
	workspaceController := workspace.NewController(llmProvider, workspace.Settings{
		PreviewTag:     cfg.Workspace.PreviewLanguage,
		Temperature:    cfg.Ai.Temperature,
		ThinkingBudget: cfg.Ai.ThinkingBudget,
		Model:          cfg.Ai.LLMModel,
		Timeout:        cfg.Workspace.GenerationTimeout,
		Engine:         factory.ResolveModel(cfg.Ai.LLMProvider, cfg.Ai.LLMModel),
	}, sysLogger)

	publisherService := service.NewPublisherService(constant.WorkspaceUpdatedTopic, pubSub)
	workspaceService := service.NewWorkspaceService(manager, workspaceController, publisherService, eventPublisher, sysLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, constant.WorkspaceUpdatedTopic, wsHub, wsLogger)
	if natsSub != nil {
		c.EventLogService = service.NewEventLogService(natsSub, logger.NewIsolatedLogger(siblingLog(cfg, "events.log")))
	}

	// 5. Handlers & Controllers
	c.StreamHandler = handler.NewStreamHandler(workspaceService, wsHub, wsLogger)
	c.WebSocketHub = wsHub
	c.WorkspaceController = controller.NewWorkspaceController(workspaceService)

	return c
}

// Close releases background resources in reverse order of creation
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// siblingLog places a dedicated log next to the main one
func siblingLog(cfg *config.Config, name string) string {
	return filepath.Join(filepath.Dir(cfg.App.LogFilePath), name)
}
