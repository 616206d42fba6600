package usecase

import (
	"context"
	"fmt"

	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

// RemoveDocumentUseCase deletes a document's metadata and every passage
// indexed under its file name.
type RemoveDocumentUseCase struct {
	repo  ports.DocumentRepository
	index ports.PassageIndex
}

func NewRemoveDocumentUseCase(
	repo ports.DocumentRepository,
	index ports.PassageIndex,
) *RemoveDocumentUseCase {
	return &RemoveDocumentUseCase{
		repo:  repo,
		index: index,
	}
}

func (uc *RemoveDocumentUseCase) Remove(ctx context.Context, id string) error {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	// Index cleanup first so a partial failure leaves the metadata row
	// behind for a retry, not orphaned vectors.
	if err := uc.index.DeleteByFile(ctx, doc.Filename); err != nil {
		return fmt.Errorf("delete indexed passages: %w", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}
	return nil
}
