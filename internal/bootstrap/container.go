package bootstrap

import (
	"log"

	"digital-twin-be/internal/config"
	"digital-twin-be/internal/controller"
	"digital-twin-be/internal/pkg/logger"
	"digital-twin-be/internal/repository/implementation"
	"digital-twin-be/internal/repository/memory"
	"digital-twin-be/internal/repository/unitofwork"
	"digital-twin-be/internal/service"
	"digital-twin-be/pkg/embedding"
	"digital-twin-be/pkg/llm/factory"
	"digital-twin-be/pkg/profile"
	"digital-twin-be/pkg/rag/planner"
	"digital-twin-be/pkg/rag/relevance"
	"digital-twin-be/pkg/rag/response"
	"digital-twin-be/pkg/rag/rewrite"
	"digital-twin-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background services, exposed for main.go to run
	IndexerService   service.IIndexerService
	PublisherService service.IPublisherService
	ChatService      service.IChatService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Profile memory, embedded data unless a path overrides it
	var profileMemory *profile.Memory
	if cfg.Ingest.ProfilePath != "" {
		profileMemory, err = profile.LoadFile(cfg.Ingest.ProfilePath)
	} else {
		profileMemory, err = profile.Load()
	}
	if err != nil {
		log.Fatalf("[FATAL] Failed to load profile data: %v", err)
	}

	// In-memory session storage
	sessionRepo := memory.NewSessionRepository()

	// RAG pipeline stages share a file-backed llm log so prompt traces and
	// degrade paths stay out of the system log
	llmLogger := logger.NewLLMLogger()
	filter := relevance.NewFilter(llmProvider, nil, llmLogger)
	rewriter := rewrite.NewRewriter(llmProvider, llmLogger)
	plannerSvc := planner.NewPlanner(llmProvider, llmLogger)
	embeddingRepo := implementation.NewProfileEmbeddingRepository(db)
	retriever := search.NewRetriever(embeddingProvider, embeddingRepo, sysLogger)
	generator := response.NewGenerator(llmProvider, llmLogger)

	chatService := service.NewChatService(
		sessionRepo,
		profileMemory,
		filter,
		rewriter,
		plannerSvc,
		retriever,
		generator,
		sysLogger,
		cfg.Session.HistoryLimit,
		cfg.Ai.RetrievalTopK,
		cfg.Ai.ScoreThreshold,
	)

	publisherService := service.NewPublisherService(pubSub, cfg.Ingest.Topic)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.Ingest.Topic,
		uowFactory,
		embeddingProvider,
		sysLogger,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController:   chatController,
		IndexerService:   indexerService,
		PublisherService: publisherService,
		ChatService:      chatService,
		Logger:           sysLogger,
	}
}
