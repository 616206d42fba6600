package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

type removeRepoFake struct {
	doc       *domain.Document
	getErr    error
	deleteErr error
	deletedID string
}

func (f *removeRepoFake) Create(context.Context, *domain.Document) error { return nil }
func (f *removeRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.doc, nil
}
func (f *removeRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}
func (f *removeRepoFake) SetChunkCount(context.Context, string, int) error { return nil }
func (f *removeRepoFake) ListInventory(context.Context) ([]domain.FileInventoryItem, error) {
	return nil, nil
}
func (f *removeRepoFake) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

type removeIndexFake struct {
	indexFake
	deleteErr   error
	deletedFile string
}

func (f *removeIndexFake) DeleteByFile(_ context.Context, fileName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedFile = fileName
	return nil
}

func TestRemoveDeletesIndexThenMetadata(t *testing.T) {
	repo := &removeRepoFake{doc: &domain.Document{ID: "doc-1", Filename: "nda.pdf"}}
	index := &removeIndexFake{}
	uc := NewRemoveDocumentUseCase(repo, index)

	if err := uc.Remove(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if index.deletedFile != "nda.pdf" {
		t.Fatalf("expected index delete for nda.pdf, got %q", index.deletedFile)
	}
	if repo.deletedID != "doc-1" {
		t.Fatalf("expected metadata delete for doc-1, got %q", repo.deletedID)
	}
}

func TestRemoveUnknownDocumentPropagatesNotFound(t *testing.T) {
	repo := &removeRepoFake{getErr: domain.ErrDocumentNotFound}
	uc := NewRemoveDocumentUseCase(repo, &removeIndexFake{})

	err := uc.Remove(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRemoveKeepsMetadataWhenIndexDeleteFails(t *testing.T) {
	repo := &removeRepoFake{doc: &domain.Document{ID: "doc-1", Filename: "nda.pdf"}}
	index := &removeIndexFake{deleteErr: errors.New("qdrant down")}
	uc := NewRemoveDocumentUseCase(repo, index)

	if err := uc.Remove(context.Background(), "doc-1"); err == nil {
		t.Fatal("expected error")
	}
	if repo.deletedID != "" {
		t.Fatalf("metadata must survive a failed index delete, deleted %q", repo.deletedID)
	}
}
