package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mzolotarev/legal-assistant/internal/config"
	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
	"github.com/mzolotarev/legal-assistant/internal/core/usecase"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/chunking"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/extractor"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/extractor/pdfdoc"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/extractor/worddoc"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/llm/ollama"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/queue/nats"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/repository/postgres"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/resilience"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/storage/localfs"
	"github.com/mzolotarev/legal-assistant/internal/infrastructure/vector/qdrant"
)

// App wires the full dependency graph once; both binaries pick the
// ports they need from it.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository
	Index ports.PassageIndex

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	RemoveUC  ports.DocumentRemover
	SearchUC  ports.ClauseSearcher
	ContextUC ports.ContextBuilder
	ChatUC    ports.ChatService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	index := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extract := extractor.NewSelector(
		plaintext.NewExtractor(storage),
		pdfdoc.NewExtractor(storage),
		worddoc.NewExtractor(storage),
	)

	heuristics, err := config.LoadHeuristics(cfg.HeuristicsPath)
	if err != nil {
		logger.Warn("heuristics file unavailable, using built-in defaults",
			"path", cfg.HeuristicsPath, "error", err)
		heuristics = config.DefaultHeuristics()
	}

	detector := usecase.NewTargetDetector(cfg.Search.MinTargetNameLength, cfg.Search.MaxTargetMatches)
	grouper := usecase.NewGrouper(usecase.GroupingLimits{
		PerFileCap:         cfg.Search.PassagesPerFile,
		DocThreshold:       cfg.Search.DocThreshold,
		ClauseThreshold:    cfg.Search.ClauseThreshold,
		ContractTypeStrict: cfg.Search.ContractTypeStrict,
		MaxFiles:           cfg.Search.MaxFiles,
		DiversityBonus:     cfg.Search.DiversityBonus,
		MaxDiversityCount:  cfg.Search.MaxDiversityCount,
	}, heuristics)
	classifier := usecase.NewClauseClassifier(heuristics)
	snippets := usecase.NewSnippetExtractor()

	summaryCache := expirable.NewLRU[string, string](cfg.SummaryCacheSize, nil, 0)
	intentCache := expirable.NewLRU[string, domain.Intent](cfg.IntentCacheSize, nil, 0)
	intents := usecase.NewIntentDetector(generator, cfg.IntentDetectViaLLM, intentCache, logger)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extract, chunker, embedder, index)
	removeUC := usecase.NewRemoveDocumentUseCase(repo, index)
	searchUC := usecase.NewClauseSearchUseCase(
		index,
		embedder,
		generator,
		grouper,
		classifier,
		snippets,
		usecase.SearchLimits{
			MaxFiles:          cfg.Search.MaxFiles,
			PassagesPerFile:   cfg.Search.PassagesPerFile,
			ResultsMultiplier: cfg.Search.ResultsMultiplier,
		},
		cfg.ClauseSummaryEnabled,
		summaryCache,
		logger,
	)
	contextUC := usecase.NewAssembleContextUseCase(repo, index, embedder, detector, usecase.AssemblyLimits{
		TargetPassageCap:   cfg.Search.TargetPassageCap,
		PassageCharBudget:  cfg.Search.PassageCharBudget,
		ContextPassageCap:  cfg.Search.ContextPassageCap,
		ContextTokenBudget: cfg.Search.ContextTokenBudget,
	}, logger)
	chatUC := usecase.NewChatUseCase(
		repo,
		contextUC,
		generator,
		intents,
		cfg.ChatContextPassages,
		cfg.ChatHistoryMessages,
		logger,
	)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue: queue,
		Repo:  repo,
		Index: index,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		RemoveUC:  removeUC,
		SearchUC:  searchUC,
		ContextUC: contextUC,
		ChatUC:    chatUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
