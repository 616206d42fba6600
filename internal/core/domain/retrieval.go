package domain

type MatchType string

const (
	MatchSemantic        MatchType = "semantic"
	MatchSemanticKeyword MatchType = "semantic+keyword"
)

// Passage is one indexed chunk of a source document as returned by the
// vector index.
type Passage struct {
	ID           string  `json:"id"`
	DocumentID   string  `json:"document_id"`
	FileName     string  `json:"file_name"`
	FilePath     string  `json:"file_path"`
	SectionTitle string  `json:"section_title,omitempty"`
	ChunkIndex   int     `json:"chunk_index"`
	Text         string  `json:"text"`
	Similarity   float64 `json:"similarity"`
}

// ScoredPassage annotates a Passage with hybrid relevance signals.
// Derived per query, never persisted.
type ScoredPassage struct {
	Passage

	KeywordOverlap int        `json:"keyword_overlap"`
	KeywordDensity float64    `json:"keyword_density"`
	HybridScore    float64    `json:"hybrid_score"`
	MatchType      MatchType  `json:"match_type"`
	PhraseHit      bool       `json:"phrase_hit"`
	ClauseType     ClauseType `json:"clause_type,omitempty"`
	Snippet        string     `json:"snippet,omitempty"`
	Summary        string     `json:"summary,omitempty"`
}

// FileGroup aggregates scored passages sharing a file name. DocScore is never
// below the best member score and never above 1.0.
type FileGroup struct {
	FileID    string          `json:"file_id"`
	FileName  string          `json:"file_name"`
	FilePath  string          `json:"file_path"`
	DocScore  float64         `json:"doc_score"`
	Passages  []ScoredPassage `json:"passages"`
	PhraseHit bool            `json:"phrase_hit"`
	Summary   string          `json:"summary,omitempty"`
}

// QueryTarget pairs a detected filename with its detection score. Scores are
// comparable only within one query's candidate set.
type QueryTarget struct {
	FileName string  `json:"file_name"`
	Score    float64 `json:"score"`
}

type ContextStats struct {
	TotalPassages   int `json:"total_passages"`
	TotalChars      int `json:"total_chars"`
	EstimatedTokens int `json:"estimated_tokens"`
}

// AssembledContext is the final retrieval payload for one query. All fields
// are always present; empty slices mean "none", never "unknown".
type AssembledContext struct {
	Query          string          `json:"query"`
	Passages       []ScoredPassage `json:"passages"`
	Targets        []QueryTarget   `json:"targets"`
	TargetedIDs    []string        `json:"targeted_ids"`
	MissingTargets []string        `json:"missing_targets"`
	Degraded       bool            `json:"degraded"`
	Stats          ContextStats    `json:"stats"`
}

// SearchResult is the file-grouped output of the clause search pipeline.
// Degraded marks an empty result caused by a retrieval outage rather
// than a genuine miss.
type SearchResult struct {
	Groups   []FileGroup `json:"groups"`
	Summary  string      `json:"summary,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`
}

type FileInventoryItem struct {
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	ChunkCount int    `json:"chunk_count"`
}

type IndexStats struct {
	TotalChunks int `json:"total_chunks"`
	UniqueFiles int `json:"unique_files"`
}
