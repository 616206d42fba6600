package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

// SearchLimits bound the clause search pipeline.
type SearchLimits struct {
	MaxFiles          int
	PassagesPerFile   int
	ResultsMultiplier int
}

// ClauseSearchUseCase runs the grouped hybrid search behind the search
// endpoint: retrieve, score, group by file, classify clause types, and
// attach display snippets. No LLM call is involved unless summaries are
// requested.
type ClauseSearchUseCase struct {
	index      ports.PassageIndex
	embedder   ports.Embedder
	generator  ports.AnswerGenerator
	grouper    *Grouper
	classifier *ClauseClassifier
	snippets   *SnippetExtractor
	limits     SearchLimits

	summariesEnabled bool
	summaryCache     *expirable.LRU[string, string]

	log *slog.Logger
}

func NewClauseSearchUseCase(
	index ports.PassageIndex,
	embedder ports.Embedder,
	generator ports.AnswerGenerator,
	grouper *Grouper,
	classifier *ClauseClassifier,
	snippets *SnippetExtractor,
	limits SearchLimits,
	summariesEnabled bool,
	summaryCache *expirable.LRU[string, string],
	log *slog.Logger,
) *ClauseSearchUseCase {
	return &ClauseSearchUseCase{
		index:            index,
		embedder:         embedder,
		generator:        generator,
		grouper:          grouper,
		classifier:       classifier,
		snippets:         snippets,
		limits:           limits,
		summariesEnabled: summariesEnabled,
		summaryCache:     summaryCache,
		log:              log,
	}
}

// Search returns ranked file groups for the query. Retrieval outages
// degrade to an empty result set; an empty result is a valid outcome,
// not an error.
func (uc *ClauseSearchUseCase) Search(ctx context.Context, query string, withSummaries bool) (*domain.SearchResult, error) {
	result := &domain.SearchResult{Groups: []domain.FileGroup{}}
	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	passages, err := uc.retrieve(ctx, query)
	if err != nil {
		uc.log.Warn("retrieval unavailable, returning empty search result", "error", err)
		result.Degraded = true
		return result, nil
	}

	queryTokens := TokenSet(query)
	scored := make([]domain.ScoredPassage, 0, len(passages))
	for _, p := range passages {
		scored = append(scored, ScorePassage(queryTokens, p))
	}

	result.Groups = uc.grouper.GroupAndFilter(query, scored)
	for gi := range result.Groups {
		uc.decorateGroup(&result.Groups[gi], query)
	}

	if withSummaries && uc.summariesEnabled && uc.generator != nil {
		uc.attachSummaries(ctx, query, result.Groups)
	}
	result.Summary = uc.resultSummary(ctx, query, result.Groups, withSummaries)
	return result, nil
}

func (uc *ClauseSearchUseCase) retrieve(ctx context.Context, query string) ([]domain.Passage, error) {
	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed query", err)
	}
	limit := uc.limits.MaxFiles * uc.limits.PassagesPerFile * uc.limits.ResultsMultiplier
	results, err := uc.index.Search(ctx, vector, limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "similarity search", err)
	}
	return results, nil
}

// decorateGroup classifies every retained passage, arranges them in the
// fixed clause-type order, and attaches display snippets.
func (uc *ClauseSearchUseCase) decorateGroup(group *domain.FileGroup, query string) {
	for i := range group.Passages {
		p := &group.Passages[i]
		p.ClauseType = uc.classifier.Classify(p.Text, p.SectionTitle)
		p.Snippet = uc.snippets.Extract(p.Text, query)
	}
	sort.SliceStable(group.Passages, func(i, j int) bool {
		ri, rj := clauseRank(group.Passages[i].ClauseType), clauseRank(group.Passages[j].ClauseType)
		if ri != rj {
			return ri < rj
		}
		return group.Passages[i].HybridScore > group.Passages[j].HybridScore
	})
}

// attachSummaries asks the generator for a short per-file relevance
// summary over the top passages. Summaries are cosmetic: any failure is
// logged and the group ships without one.
func (uc *ClauseSearchUseCase) attachSummaries(ctx context.Context, query string, groups []domain.FileGroup) {
	for gi := range groups {
		group := &groups[gi]
		cacheKey := group.FileName + "|" + strings.ToLower(query)
		if cached, ok := uc.summaryCache.Get(cacheKey); ok {
			group.Summary = cached
			continue
		}

		top := group.Passages
		if len(top) > 2 {
			top = top[:2]
		}
		var sb strings.Builder
		for _, p := range top {
			sb.WriteString(p.Text)
			sb.WriteString("\n---\n")
		}
		summary, err := uc.generator.Complete(ctx, []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "You summarize legal document excerpts. Answer in at most 40 words, plain prose, no preamble."},
			{Role: domain.RoleUser, Content: fmt.Sprintf("Query: %s\n\nWhy is this document relevant?\n\n%s", query, sb.String())},
		})
		if err != nil {
			uc.log.Warn("clause summary generation failed", "file", group.FileName, "error", err)
			continue
		}
		summary = strings.TrimSpace(summary)
		group.Summary = summary
		uc.summaryCache.Add(cacheKey, summary)
	}
}

// resultSummary produces the one-line overview shown above the result
// list. Falls back to a deterministic file listing when the generator
// is unavailable or summaries were not requested.
func (uc *ClauseSearchUseCase) resultSummary(ctx context.Context, query string, groups []domain.FileGroup, withSummaries bool) string {
	if len(groups) == 0 {
		return ""
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.FileName)
	}
	fallback := fmt.Sprintf("Found %d relevant document(s): %s", len(groups), strings.Join(names, ", "))

	if !withSummaries || !uc.summariesEnabled || uc.generator == nil {
		return fallback
	}
	overview, err := uc.generator.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "You summarize search results over legal documents. Answer in at most 50 words."},
		{Role: domain.RoleUser, Content: fmt.Sprintf("Query: %s\nMatched files: %s\nSummarize what was found.", query, strings.Join(names, ", "))},
	})
	if err != nil {
		uc.log.Warn("result summary generation failed", "error", err)
		return fallback
	}
	if overview = strings.TrimSpace(overview); overview != "" {
		return overview
	}
	return fallback
}
