package usecase

import (
	"strings"
	"testing"
)

func TestExtractSnippetEmphasizesInflectedForms(t *testing.T) {
	e := NewSnippetExtractor()
	text := "The term of this Agreement begins January 1 and the Agreement may be terminated for breach."

	snippet := e.Extract(text, "termination")
	if snippet == "" {
		t.Fatalf("expected non-empty snippet")
	}
	if !strings.Contains(snippet, "**terminated**") {
		t.Fatalf("expected emphasized 'terminated', got %q", snippet)
	}
}

func TestExtractSnippetPicksBestSentenceWindow(t *testing.T) {
	e := NewSnippetExtractor()
	text := "This Agreement is made between the parties. Payment of all fees is due within thirty days of invoice. Notices must be in writing. The schedule may change."

	snippet := e.Extract(text, "payment invoice")
	if !strings.Contains(snippet, "**Payment**") {
		t.Fatalf("expected payment sentence in window, got %q", snippet)
	}
	if !strings.Contains(snippet, "**invoice**") {
		t.Fatalf("expected emphasized invoice, got %q", snippet)
	}
	if strings.Contains(snippet, "schedule may change") {
		t.Fatalf("expected distant sentence excluded from window, got %q", snippet)
	}
}

func TestExtractSnippetFallbackOnNoMatch(t *testing.T) {
	e := NewSnippetExtractor()
	text := strings.Repeat("Nothing relevant here. ", 30)

	snippet := e.Extract(text, "indemnification")
	if snippet == "" {
		t.Fatalf("expected fallback snippet for non-empty input")
	}
	if len(snippet) > snippetFallbackChars+4 {
		t.Fatalf("expected fallback bounded to %d chars, got %d", snippetFallbackChars, len(snippet))
	}
}

func TestExtractSnippetEmptyInput(t *testing.T) {
	e := NewSnippetExtractor()
	if got := e.Extract("", "anything"); got != "" {
		t.Fatalf("expected empty snippet for empty input, got %q", got)
	}
}
