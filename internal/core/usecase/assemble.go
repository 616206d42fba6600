package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

// estimatedCharsPerToken is the coarse heuristic used for the context
// token budget. Exact tokenization belongs to the model, not to us.
const estimatedCharsPerToken = 4

// AssemblyLimits bound the size of one assembled context.
type AssemblyLimits struct {
	TargetPassageCap   int
	PassageCharBudget  int
	ContextPassageCap  int
	ContextTokenBudget int
	OverFetchFactor    int
}

// AssembleContextUseCase builds the retrieval payload for one query:
// targeted passages for any filename the user named, merged with
// general similarity results, deduplicated and bounded.
type AssembleContextUseCase struct {
	repo     ports.DocumentRepository
	index    ports.PassageIndex
	embedder ports.Embedder
	detector *TargetDetector
	limits   AssemblyLimits
	log      *slog.Logger
}

func NewAssembleContextUseCase(
	repo ports.DocumentRepository,
	index ports.PassageIndex,
	embedder ports.Embedder,
	detector *TargetDetector,
	limits AssemblyLimits,
	log *slog.Logger,
) *AssembleContextUseCase {
	if limits.OverFetchFactor < 1 {
		limits.OverFetchFactor = 2
	}
	return &AssembleContextUseCase{
		repo:     repo,
		index:    index,
		embedder: embedder,
		detector: detector,
		limits:   limits,
		log:      log,
	}
}

// Assemble never fails on retrieval outages: a broken index degrades to
// an empty context with Degraded set, because a context-free answer
// beats a hard error for the end user. An empty query short-circuits to
// an empty context.
func (uc *AssembleContextUseCase) Assemble(ctx context.Context, query string) (*domain.AssembledContext, error) {
	out := &domain.AssembledContext{
		Query:          query,
		Passages:       []domain.ScoredPassage{},
		Targets:        []domain.QueryTarget{},
		TargetedIDs:    []string{},
		MissingTargets: []string{},
	}
	if query == "" {
		return out, nil
	}

	queryTokens := TokenSet(query)
	seen := make(map[string]struct{})

	targets := uc.detectTargets(ctx, query)
	out.Targets = targets
	for _, target := range targets {
		fetched := uc.fetchTargeted(ctx, target.FileName)
		if len(fetched) == 0 {
			// Detected but not retrievable: the caller tells the user
			// the file could not be found instead of silently omitting it.
			out.MissingTargets = append(out.MissingTargets, target.FileName)
			continue
		}
		for _, p := range fetched {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			p.Text = truncateChars(p.Text, uc.limits.PassageCharBudget)
			out.Passages = append(out.Passages, ScorePassage(queryTokens, p))
			out.TargetedIDs = append(out.TargetedIDs, p.ID)
		}
	}

	general, degraded := uc.searchGeneral(ctx, query)
	out.Degraded = degraded
	for _, p := range general {
		// Targeted passages were inserted first and win duplicate ids.
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		p.Text = truncateChars(p.Text, uc.limits.PassageCharBudget)
		out.Passages = append(out.Passages, ScorePassage(queryTokens, p))
	}

	sort.SliceStable(out.Passages, func(i, j int) bool {
		if out.Passages[i].HybridScore != out.Passages[j].HybridScore {
			return out.Passages[i].HybridScore > out.Passages[j].HybridScore
		}
		return out.Passages[i].Similarity > out.Passages[j].Similarity
	})
	if len(out.Passages) > uc.limits.ContextPassageCap {
		out.Passages = out.Passages[:uc.limits.ContextPassageCap]
	}
	out.Passages = uc.applyTokenBudget(out.Passages)
	out.Stats = contextStats(out.Passages)
	return out, nil
}

func (uc *AssembleContextUseCase) detectTargets(ctx context.Context, query string) []domain.QueryTarget {
	inventory, err := uc.repo.ListInventory(ctx)
	if err != nil {
		uc.log.Warn("inventory unavailable, skipping filename targeting", "error", err)
		return nil
	}
	return uc.detector.Detect(query, inventory)
}

// fetchTargeted pulls a named file's passages in document order, capped.
// Targeted retrieval bypasses similarity ranking entirely.
func (uc *AssembleContextUseCase) fetchTargeted(ctx context.Context, fileName string) []domain.Passage {
	fetched, err := uc.index.FetchByFile(ctx, fileName)
	if err != nil {
		uc.log.Warn("targeted fetch failed", "file", fileName, "error", err)
		return nil
	}
	sort.SliceStable(fetched, func(i, j int) bool {
		return fetched[i].ChunkIndex < fetched[j].ChunkIndex
	})
	if len(fetched) > uc.limits.TargetPassageCap {
		fetched = fetched[:uc.limits.TargetPassageCap]
	}
	return fetched
}

// searchGeneral over-fetches so downstream filtering still leaves
// enough candidates. Any failure degrades to an empty slice.
func (uc *AssembleContextUseCase) searchGeneral(ctx context.Context, query string) ([]domain.Passage, bool) {
	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		uc.log.Warn("query embedding failed, degrading to empty context", "error", err)
		return nil, true
	}
	results, err := uc.index.Search(ctx, vector, uc.limits.ContextPassageCap*uc.limits.OverFetchFactor)
	if err != nil {
		uc.log.Warn("similarity search failed, degrading to empty context", "error", err)
		return nil, true
	}
	return results, false
}

func (uc *AssembleContextUseCase) applyTokenBudget(passages []domain.ScoredPassage) []domain.ScoredPassage {
	totalChars := 0
	for i, p := range passages {
		totalChars += len(p.Text)
		if totalChars/estimatedCharsPerToken > uc.limits.ContextTokenBudget {
			return passages[:i]
		}
	}
	return passages
}

func contextStats(passages []domain.ScoredPassage) domain.ContextStats {
	totalChars := 0
	for _, p := range passages {
		totalChars += len(p.Text)
	}
	return domain.ContextStats{
		TotalPassages:   len(passages),
		TotalChars:      totalChars,
		EstimatedTokens: totalChars / estimatedCharsPerToken,
	}
}
