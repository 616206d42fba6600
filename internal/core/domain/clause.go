package domain

type ClauseType string

const (
	ClauseIntroRecitals   ClauseType = "Intro / Recitals"
	ClauseTermRenewal     ClauseType = "Term & Renewal"
	ClauseTermination     ClauseType = "Termination"
	ClausePayment         ClauseType = "Payment"
	ClauseConfidentiality ClauseType = "Confidentiality"
	ClauseLiability       ClauseType = "Liability"
	ClauseGoverningLaw    ClauseType = "Governing Law"
	ClauseOther           ClauseType = "Other"
)

// ClauseTypePriority is the fixed ordering used both for classifier
// tie-breaks and for arranging passages inside a file group.
var ClauseTypePriority = []ClauseType{
	ClauseIntroRecitals,
	ClauseTermRenewal,
	ClauseTermination,
	ClausePayment,
	ClauseConfidentiality,
	ClauseLiability,
	ClauseGoverningLaw,
	ClauseOther,
}

// ContractType names a known contract category and its query aliases
// ("msa", "master services agreement", ...). Aliases are business data
// loaded at startup, not compiled-in branches.
type ContractType struct {
	Label   string   `yaml:"label"`
	Aliases []string `yaml:"aliases"`
}

// Heuristics bundles the keyword dictionaries that drive clause
// classification and contract-type detection.
type Heuristics struct {
	ClauseKeywords map[ClauseType][]string `yaml:"clause_keywords"`
	ContractTypes  []ContractType          `yaml:"contract_types"`
}
