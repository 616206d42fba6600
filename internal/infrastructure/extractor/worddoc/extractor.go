package worddoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/unidoc/unioffice/document"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

// Extractor pulls plain text out of stored Word documents. Table cells
// are included because contracts routinely put parties, dates, and
// payment schedules in tables.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	parsed, err := document.Read(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse docx %s: %w", doc.Filename, err)
	}
	defer parsed.Close()

	parts := make([]string, 0, len(parsed.Paragraphs()))
	for _, para := range parsed.Paragraphs() {
		if text := paragraphText(para); text != "" {
			parts = append(parts, text)
		}
	}
	for _, table := range parsed.Tables() {
		for _, row := range table.Rows() {
			cells := make([]string, 0, len(row.Cells()))
			for _, cell := range row.Cells() {
				var sb strings.Builder
				for _, para := range cell.Paragraphs() {
					sb.WriteString(paragraphText(para))
				}
				if text := strings.TrimSpace(sb.String()); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, " | "))
			}
		}
	}
	return strings.Join(parts, "\n"), nil
}

func paragraphText(para document.Paragraph) string {
	var sb strings.Builder
	for _, run := range para.Runs() {
		sb.WriteString(run.Text())
	}
	return strings.TrimSpace(sb.String())
}
