package plaintext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

type storageFake struct {
	data    map[string][]byte
	openErr error
}

func (s *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = raw
	return nil
}

func (s *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	raw, ok := s.data[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func TestExtractTrimsUTF8Text(t *testing.T) {
	storage := &storageFake{data: map[string][]byte{
		"docs/a.txt": []byte("  This agreement is binding.\n"),
	}}
	e := NewExtractor(storage)

	got, err := e.Extract(context.Background(), &domain.Document{StoragePath: "docs/a.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "This agreement is binding." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractDecodesLatin1Fallback(t *testing.T) {
	storage := &storageFake{data: map[string][]byte{
		"docs/b.txt": {'c', 'a', 'f', 0xE9},
	}}
	e := NewExtractor(storage)

	got, err := e.Extract(context.Background(), &domain.Document{StoragePath: "docs/b.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "café" {
		t.Fatalf("expected latin-1 decode, got %q", got)
	}
}

func TestExtractPropagatesStorageError(t *testing.T) {
	e := NewExtractor(&storageFake{openErr: errors.New("disk gone")})

	_, err := e.Extract(context.Background(), &domain.Document{StoragePath: "docs/c.txt"})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected storage error, got %v", err)
	}
}
