package chunking

import (
	"strings"
	"testing"
)

func TestSplitEmptyTextProducesNoChunks(t *testing.T) {
	s := NewSplitter(900, 150)
	if got := s.Split("   \n\n  "); len(got) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got))
	}
}

func TestSplitCapturesNumberedHeading(t *testing.T) {
	s := NewSplitter(900, 150)
	text := "12. Termination\n\nEither party may terminate this agreement with thirty days written notice."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SectionTitle != "12. Termination" {
		t.Fatalf("expected section title %q, got %q", "12. Termination", chunks[0].SectionTitle)
	}
	if strings.Contains(chunks[0].Text, "12. Termination") {
		t.Fatalf("heading must not be repeated in chunk body: %q", chunks[0].Text)
	}
}

func TestSplitCapturesAllCapsAndTitleCaseHeadings(t *testing.T) {
	s := NewSplitter(900, 150)
	text := "CONFIDENTIALITY\n\n" +
		"Each party shall keep the other party's information secret.\n\n" +
		"Limitation of Liability\n\n" +
		"Neither party is liable for indirect damages."

	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].SectionTitle != "CONFIDENTIALITY" {
		t.Fatalf("expected CONFIDENTIALITY title, got %q", chunks[0].SectionTitle)
	}
	if chunks[1].SectionTitle != "Limitation of Liability" {
		t.Fatalf("expected Limitation of Liability title, got %q", chunks[1].SectionTitle)
	}
	if chunks[0].Index != 0 || chunks[1].Index != 1 {
		t.Fatalf("expected sequential indices, got %d and %d", chunks[0].Index, chunks[1].Index)
	}
}

func TestSplitSentenceLineIsNotAHeading(t *testing.T) {
	s := NewSplitter(900, 150)
	text := "The Parties Agree To The Following.\n\nPayment is due within thirty days."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SectionTitle != "" {
		t.Fatalf("expected no section title, got %q", chunks[0].SectionTitle)
	}
	if !strings.Contains(chunks[0].Text, "The Parties Agree To The Following.") {
		t.Fatalf("sentence line must stay in chunk body: %q", chunks[0].Text)
	}
}

func TestSplitCarriesSmallParagraphAsOverlap(t *testing.T) {
	s := NewSplitter(50, 20)
	p1 := strings.Repeat("a", 30)
	p2 := strings.Repeat("b", 15)
	p3 := strings.Repeat("c", 30)
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, p1) || !strings.Contains(chunks[0].Text, p2) {
		t.Fatalf("first chunk should hold both leading paragraphs: %q", chunks[0].Text)
	}
	if !strings.Contains(chunks[1].Text, p2) || !strings.Contains(chunks[1].Text, p3) {
		t.Fatalf("second chunk should start with the carried paragraph: %q", chunks[1].Text)
	}
}

func TestSplitOversizedParagraphUsesSlidingWindow(t *testing.T) {
	s := NewSplitter(20, 5)
	text := "NOTICES\n\n" + strings.Repeat("x", 50)

	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("expected index %d, got %d", i, c.Index)
		}
		if c.SectionTitle != "NOTICES" {
			t.Fatalf("expected every window to keep the section title, got %q", c.SectionTitle)
		}
		if n := len([]rune(c.Text)); n > 20 {
			t.Fatalf("chunk %d exceeds size budget: %d runes", i, n)
		}
	}
}
