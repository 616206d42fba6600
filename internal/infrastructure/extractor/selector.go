package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

const wordMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Selector routes extraction to a format-specific extractor by file
// extension, falling back to the mime type when the name carries none.
type Selector struct {
	plaintext ports.TextExtractor
	pdf       ports.TextExtractor
	word      ports.TextExtractor
}

func NewSelector(plaintext, pdf, word ports.TextExtractor) *Selector {
	return &Selector{plaintext: plaintext, pdf: pdf, word: word}
}

func (s *Selector) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(doc.Filename)); ext {
	case ".pdf":
		return s.pdf.Extract(ctx, doc)
	case ".docx", ".doc":
		return s.word.Extract(ctx, doc)
	case ".txt", ".md", ".text":
		return s.plaintext.Extract(ctx, doc)
	case "":
		if strings.HasPrefix(doc.MimeType, "application/pdf") {
			return s.pdf.Extract(ctx, doc)
		}
		if strings.HasPrefix(doc.MimeType, wordMimeType) || strings.HasPrefix(doc.MimeType, "application/msword") {
			return s.word.Extract(ctx, doc)
		}
		if strings.HasPrefix(doc.MimeType, "text/") {
			return s.plaintext.Extract(ctx, doc)
		}
		return "", domain.WrapError(domain.ErrInvalidInput, "select extractor",
			fmt.Errorf("unsupported mime type %q", doc.MimeType))
	default:
		if strings.HasPrefix(doc.MimeType, "text/") {
			return s.plaintext.Extract(ctx, doc)
		}
		return "", domain.WrapError(domain.ErrInvalidInput, "select extractor",
			fmt.Errorf("unsupported file type %q", ext))
	}
}
