package usecase

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("The term of an NDA is 2 years!")
	want := []string{"the", "term", "nda", "years"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
	if got := Tokenize("!!! ... ---"); len(got) != 0 {
		t.Fatalf("expected no tokens for punctuation, got %v", got)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "Termination for breach; termination for convenience."
	first := Tokenize(input)
	second := Tokenize(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output across calls: %v vs %v", first, second)
	}
}

func TestKeywordFeaturesOverlapCap(t *testing.T) {
	query := TokenSet("termination breach notice cure period default remedy")
	passage := "Termination upon breach requires notice, a cure period, default remedies and more."

	overlap, density := KeywordFeatures(query, passage, 5)
	if overlap != 5 {
		t.Fatalf("expected overlap capped at 5, got %d", overlap)
	}
	if density <= 0 {
		t.Fatalf("expected positive density, got %v", density)
	}
}

func TestKeywordFeaturesDensityDenominator(t *testing.T) {
	query := TokenSet("payment")
	// Distinct passage words, short ones included: payment, due, in,
	// 30, days -> density 1/(5+1).
	overlap, density := KeywordFeatures(query, "Payment due in 30 days. Payment.", 5)
	if overlap != 1 {
		t.Fatalf("expected overlap 1, got %d", overlap)
	}
	if density != 1.0/6.0 {
		t.Fatalf("expected density 1/6, got %v", density)
	}
}

func TestKeywordFeaturesDensityUsesCappedOverlap(t *testing.T) {
	query := TokenSet("termination breach notice cure period default remedy")
	// All seven query tokens hit, but density counts the capped
	// overlap: 5/(7+1), not 7/(7+1).
	overlap, density := KeywordFeatures(query, "termination breach notice cure period default remedy", 5)
	if overlap != 5 {
		t.Fatalf("expected overlap capped at 5, got %d", overlap)
	}
	if density != 0.625 {
		t.Fatalf("expected density 0.625, got %v", density)
	}
}

func TestKeywordFeaturesEmptyPassage(t *testing.T) {
	overlap, density := KeywordFeatures(TokenSet("payment"), "", 5)
	if overlap != 0 || density != 0 {
		t.Fatalf("expected zero features for empty passage, got %d/%v", overlap, density)
	}
}
