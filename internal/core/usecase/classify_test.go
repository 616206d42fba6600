package usecase

import (
	"testing"

	"github.com/mzolotarev/legal-assistant/internal/config"
	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

func TestClassifyByKeywords(t *testing.T) {
	c := NewClauseClassifier(config.DefaultHeuristics())

	cases := []struct {
		text    string
		section string
		want    domain.ClauseType
	}{
		{
			text: "Either party may terminate this Agreement upon material breach if the breaching party fails to cure within thirty days of notice of termination.",
			want: domain.ClauseTermination,
		},
		{
			text: "All fees are due within thirty days of invoice. Late payment accrues interest.",
			want: domain.ClausePayment,
		},
		{
			text:    "Each party shall protect the other's proprietary and confidential information.",
			section: "Confidentiality",
			want:    domain.ClauseConfidentiality,
		},
		{
			text: "Governing law shall be that of Delaware; disputes are resolved by arbitration in Delaware courts.",
			want: domain.ClauseGoverningLaw,
		},
		{
			text: "The quick brown fox jumps over the lazy dog.",
			want: domain.ClauseOther,
		},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text, tc.section); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestClassifySectionTitleContributes(t *testing.T) {
	c := NewClauseClassifier(config.DefaultHeuristics())
	got := c.Classify("The parties agree as follows.", "Limitation of Liability")
	if got != domain.ClauseLiability {
		t.Fatalf("expected section title to drive classification, got %s", got)
	}
}

func TestClassifyTieBreakByPriority(t *testing.T) {
	h := domain.Heuristics{
		ClauseKeywords: map[domain.ClauseType][]string{
			domain.ClauseTermination: {"shared"},
			domain.ClauseLiability:   {"shared"},
		},
	}
	c := NewClauseClassifier(h)
	if got := c.Classify("shared keyword", ""); got != domain.ClauseTermination {
		t.Fatalf("expected earlier priority category on tie, got %s", got)
	}
}
