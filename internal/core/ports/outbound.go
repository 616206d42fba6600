package ports

import (
	"context"
	"io"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
	ListInventory(ctx context.Context) ([]domain.FileInventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits extracted text into passages, keeping section titles.
type Chunker interface {
	Split(text string) []domain.Chunk
}

// Embedder builds vectors for passages and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// PassageIndex is the vector retrieval capability. Search and FetchByFile
// return empty slices, not errors, when nothing is indexed.
type PassageIndex interface {
	IndexPassages(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Passage, error)
	FetchByFile(ctx context.Context, fileName string) ([]domain.Passage, error)
	DeleteByFile(ctx context.Context, fileName string) error
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// AnswerGenerator is the LLM capability: one-shot completion and a finite,
// single-consumption token stream.
type AnswerGenerator interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
	Stream(ctx context.Context, messages []domain.ChatMessage) (<-chan string, error)
}
