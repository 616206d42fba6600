package ports

import (
	"context"
	"io"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentRemover removes a document and its indexed passages.
type DocumentRemover interface {
	Remove(ctx context.Context, id string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListInventory(ctx context.Context) ([]domain.FileInventoryItem, error)
}

// ClauseSearcher runs the grouped hybrid search used by the search endpoint.
type ClauseSearcher interface {
	Search(ctx context.Context, query string, withSummaries bool) (*domain.SearchResult, error)
}

// ContextBuilder assembles the retrieval payload for one query.
type ContextBuilder interface {
	Assemble(ctx context.Context, query string) (*domain.AssembledContext, error)
}

// ChatService answers questions over the indexed documents.
type ChatService interface {
	Answer(ctx context.Context, question string, history []domain.ChatMessage) (*domain.ChatAnswer, error)
	AnswerStream(ctx context.Context, question string, history []domain.ChatMessage) (<-chan string, error)
}
