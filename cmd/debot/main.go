package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/debot/internal/cli"
	"github.com/alexanderramin/debot/internal/config"
	"github.com/alexanderramin/debot/internal/conversation"
	"github.com/alexanderramin/debot/internal/db"
	"github.com/alexanderramin/debot/internal/httpapi"
	"github.com/alexanderramin/debot/internal/intelligence"
	"github.com/alexanderramin/debot/internal/llm"
	"github.com/alexanderramin/debot/internal/logger"
	"github.com/alexanderramin/debot/internal/metrics"
	"github.com/alexanderramin/debot/internal/recommend"
	"github.com/alexanderramin/debot/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	llmCfg := llm.LoadConfig()

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	uow := db.NewSQLiteUnitOfWork(database)
	catalogRepo := repository.NewSQLiteCatalogRepo(database, uow)
	embeddingRepo := repository.NewSQLiteEmbeddingCacheRepo(database)

	m := metrics.NewMetrics()

	// Wire LLM-backed capabilities
	var observer llm.Observer = m
	if llmCfg.LogCalls {
		observer = llm.MultiObserver{m, llm.NewLogObserver(log)}
	}
	llmClient := llm.NewOllamaClient(llmCfg, observer)

	var embedder intelligence.Embedder = intelligence.NewLLMEmbedder(llmClient)
	if cfg.Recommend.EmbeddingCache {
		embedder = intelligence.NewCachedEmbedder(embedder, embeddingRepo, log)
	}

	links := cfg.Links()
	ranker := recommend.NewRanker(catalogRepo, embedder, cfg.Recommend.RankerConcurrency)
	engine := recommend.NewEngine(catalogRepo, ranker, links, cfg.Gate())

	store, err := newConversationStore(cfg.Conversation, log)
	if err != nil {
		return err
	}

	controller := conversation.NewController(conversation.ControllerDeps{
		Store:       store,
		Classifier:  intelligence.NewDoubtClassifier(llmClient),
		Generator:   intelligence.NewReplyGenerator(llmClient),
		Engine:      engine,
		Logger:      log,
		Recorder:    m,
		MaxMessages: cfg.Conversation.WindowSize,
	})

	if cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := httpapi.NewServer(httpapi.RouterConfig{
		ConversationHandler: httpapi.NewConversationHandler(controller),
		HealthHandler:       httpapi.NewHealthHandler(),
		MetricsHandler:      promhttp.Handler(),
		Logger:              log,
	})

	app := &cli.App{
		Conversations: controller,
		Engine:        engine,
		Catalog:       catalogRepo,
		Links:         links,
		Serve:         server.Run,
		DefaultAddr:   cfg.HTTP.Addr,
	}

	// Detect interactive terminal for the chat view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

// newConversationStore keeps conversations in Redis when a URL is set, in
// process memory otherwise.
func newConversationStore(cfg config.ConversationConfig, log *logger.Logger) (conversation.Store, error) {
	if cfg.RedisURL == "" {
		return conversation.NewMemoryStore(cfg.TTL), nil
	}
	rdb := conversation.NewRedisClient(cfg.RedisURL)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	log.Info("conversation store", "backend", "redis")
	return conversation.NewRedisStore(rdb, cfg.TTL), nil
}
