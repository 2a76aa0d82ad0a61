package bootstrap

import (
	"context"
	"log"

	"tyrechat-be/internal/config"
	"tyrechat-be/internal/controller"
	"tyrechat-be/internal/pkg/logger"
	"tyrechat-be/internal/pkg/mailer"
	"tyrechat-be/internal/repository/implementation"
	"tyrechat-be/internal/repository/memory"
	"tyrechat-be/internal/service"
	internalWS "tyrechat-be/internal/websocket"
	"tyrechat-be/pkg/agent/generate"
	"tyrechat-be/pkg/agent/normalize"
	"tyrechat-be/pkg/agent/router"
	"tyrechat-be/pkg/agent/session"
	"tyrechat-be/pkg/database"
	"tyrechat-be/pkg/embedding"
	llmfactory "tyrechat-be/pkg/llm/factory"
	pktNats "tyrechat-be/pkg/nats"
	"tyrechat-be/pkg/retrieval"
	"tyrechat-be/pkg/retrieval/lexical"
	"tyrechat-be/pkg/retrieval/relational"
	"tyrechat-be/pkg/retrieval/semantic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// Container wires every dependency once at startup. Controllers and the
// websocket handler are the only things the server layer touches.
type Container struct {
	Logger     logger.ILogger
	ChatLogger logger.ILogger

	AuthController controller.IAuthController
	ChatController controller.IChatController
	ChatHandler    *internalWS.ChatHandler

	HistoryWriter service.IHistoryWriter
	NatsPublisher *pktNats.Publisher
	LexicalIndex  *lexical.Index
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return nil, err
	}

	// 2. Session storage: go-cache fast path, redis mirror when reachable.
	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Redis unreachable, sessions stay in-memory only: %v", err)
			rdb = nil
		}
	} else {
		log.Printf("[WARN] Invalid REDIS_URL, sessions stay in-memory only: %v", err)
	}
	sessionRepo := memory.NewSessionRepository(rdb, sysLogger)
	sessions := session.NewStore(sessionRepo, cfg.Chat.HistoryLimit)

	// 3. AI providers
	var embedProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embedProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := llmfactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Repositories
	users := implementation.NewUserRepository(db)
	chatHistory := implementation.NewChatHistoryRepository(db)
	leads := implementation.NewLeadRepository(db)
	feedback := implementation.NewFeedbackRepository(db)
	dealers := implementation.NewDealerRepository(db)
	tyres := implementation.NewTyreRepository(db)
	corpusEmbeddings := implementation.NewCorpusEmbeddingRepository(db)

	// 5. Retrieval pipeline
	lexicalIndex := lexical.NewIndex()
	if err := lexicalIndex.Load(cfg.Retrieval.LexicalIndexPath); err != nil {
		log.Printf("[WARN] Lexical index not loaded, lexical source disabled: %v", err)
	} else {
		log.Printf("[INFO] Lexical index loaded: %d documents", lexicalIndex.Size())
	}

	retriever := retrieval.NewRetriever(
		lexicalIndex,
		semantic.NewSearcher(embedProvider, corpusEmbeddings, cfg.Retrieval.SemanticTopK),
		relational.NewLookup(tyres),
		retrieval.Weights{
			Lexical:    cfg.Retrieval.LexicalWeight,
			Semantic:   cfg.Retrieval.SemanticWeight,
			Relational: cfg.Retrieval.RelationalWeight,
			MinScore:   cfg.Retrieval.MinScore,
			LexicalTop: cfg.Retrieval.LexicalTopN,
		},
		chatLogger,
	)

	// 6. Infrastructure: NATS, mailer, watermill history persistence
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" && cfg.SMTP.SalesEmail != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SalesEmail,
		)
	}

	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	historyWriter := service.NewHistoryWriter(pubSub, chatHistory, sysLogger)
	if err := historyWriter.Consume(context.Background()); err != nil {
		return nil, err
	}

	// 7. Agent pipeline
	normalizer := normalize.NewNormalizer(llmProvider, cfg.Chat.NormalizerDepth, chatLogger)
	generator := generate.NewGenerator(llmProvider, cfg.Chat.PacingDelayMs, chatLogger)

	var publisher router.EventPublisher
	if natsPub != nil {
		publisher = natsPub
	}
	var alerter router.LeadAlerter
	if emailService != nil {
		alerter = emailService
	}

	chatRouter := router.NewRouter(
		sessions,
		normalizer,
		retriever,
		generator,
		dealers,
		leads,
		publisher,
		alerter,
		historyWriter,
		cfg.Chat.DealerListCap,
		chatLogger,
	)

	// 8. Surface
	return &Container{
		Logger:         sysLogger,
		ChatLogger:     chatLogger,
		AuthController: controller.NewAuthController(service.NewAuthService(users, cfg.Keys.JWTSecret)),
		ChatController: controller.NewChatController(
			service.NewGuestService(),
			service.NewHistoryService(chatHistory),
			service.NewFeedbackService(feedback),
		),
		ChatHandler:   internalWS.NewChatHandler(chatRouter, chatLogger),
		HistoryWriter: historyWriter,
		NatsPublisher: natsPub,
		LexicalIndex:  lexicalIndex,
	}, nil
}
