package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// LoadHeuristics reads the clause/contract-type keyword dictionaries from a
// YAML file. An empty path yields the compiled-in defaults; dictionaries are
// legal-domain business data, so tuning them must not require a rebuild.
func LoadHeuristics(path string) (domain.Heuristics, error) {
	if path == "" {
		return DefaultHeuristics(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Heuristics{}, fmt.Errorf("read heuristics file: %w", err)
	}

	var h domain.Heuristics
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return domain.Heuristics{}, fmt.Errorf("parse heuristics yaml: %w", err)
	}

	def := DefaultHeuristics()
	if len(h.ClauseKeywords) == 0 {
		h.ClauseKeywords = def.ClauseKeywords
	}
	if len(h.ContractTypes) == 0 {
		h.ContractTypes = def.ContractTypes
	}
	return h, nil
}

func DefaultHeuristics() domain.Heuristics {
	return domain.Heuristics{
		ClauseKeywords: map[domain.ClauseType][]string{
			domain.ClauseIntroRecitals: {
				"recitals", "whereas", "background", "preamble", "introduction",
				"parties agree", "this agreement", "entered into",
			},
			domain.ClauseTermRenewal: {
				"term", "duration", "initial term", "renewal", "automatic renewal",
				"commencement", "effective date", "expiration", "expiry",
			},
			domain.ClauseTermination: {
				"termination", "terminate", "expiration", "end of term",
				"breach", "default", "cure period", "notice of termination",
			},
			domain.ClausePayment: {
				"payment", "fee", "pricing", "invoice", "billing", "compensation",
				"reimbursement", "cost", "charge", "amount", "dollar",
			},
			domain.ClauseConfidentiality: {
				"confidential", "non-disclosure", "nda", "proprietary",
				"trade secret", "disclosure", "protected information",
			},
			domain.ClauseLiability: {
				"liability", "indemnification", "indemnify", "damages",
				"limitation of liability", "consequential damages", "warranty",
				"disclaimer", "hold harmless",
			},
			domain.ClauseGoverningLaw: {
				"governing law", "jurisdiction", "venue", "dispute resolution",
				"arbitration", "litigation", "courts", "legal proceedings",
			},
		},
		ContractTypes: []domain.ContractType{
			{
				Label:   "master services agreement",
				Aliases: []string{"master services agreement", "msa", "master service agreement"},
			},
			{
				Label:   "non-disclosure agreement",
				Aliases: []string{"non-disclosure agreement", "nda", "non disclosure agreement", "confidentiality agreement"},
			},
			{
				Label:   "data processing addendum",
				Aliases: []string{"data processing addendum", "dpa", "data processing agreement"},
			},
			{
				Label:   "statement of work",
				Aliases: []string{"statement of work", "sow"},
			},
			{
				Label:   "service level agreement",
				Aliases: []string{"service level agreement", "sla"},
			},
			{
				Label:   "independent contractor agreement",
				Aliases: []string{"independent contractor agreement", "ica", "independent contractor"},
			},
			{
				Label:   "partnership agreement",
				Aliases: []string{"partnership agreement", "partnership"},
			},
		},
	}
}
