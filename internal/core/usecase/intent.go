package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

var inventoryTriggers = []string{
	"what documents", "which documents", "what files", "which files",
	"list documents", "list the documents", "list files", "list the files",
	"documents do you have", "files do you have", "documents are uploaded",
	"files are uploaded", "show me the documents", "show me the files",
}

var capabilityTriggers = []string{
	"what can you do", "what can you help", "how do you work",
	"what are your capabilities", "who are you", "how can you help",
}

// IntentDetector routes a chat question to inventory, capabilities, or
// retrieval-augmented answering. Classification results are cached by
// normalized question because users repeat phrasings.
type IntentDetector struct {
	generator ports.AnswerGenerator
	useLLM    bool
	cache     *expirable.LRU[string, domain.Intent]
	log       *slog.Logger
}

func NewIntentDetector(generator ports.AnswerGenerator, useLLM bool, cache *expirable.LRU[string, domain.Intent], log *slog.Logger) *IntentDetector {
	return &IntentDetector{generator: generator, useLLM: useLLM, cache: cache, log: log}
}

func (d *IntentDetector) Detect(ctx context.Context, question string) domain.Intent {
	key := strings.ToLower(strings.TrimSpace(question))
	if key == "" {
		return domain.IntentRAG
	}
	if cached, ok := d.cache.Get(key); ok {
		return cached
	}

	intent := keywordIntent(key)
	// The keyword pass is authoritative when it fires; the LLM only
	// arbitrates otherwise-ambiguous questions.
	if intent == domain.IntentRAG && d.useLLM && d.generator != nil {
		intent = d.classifyViaLLM(ctx, question)
	}
	d.cache.Add(key, intent)
	return intent
}

func keywordIntent(question string) domain.Intent {
	for _, trigger := range inventoryTriggers {
		if strings.Contains(question, trigger) {
			return domain.IntentInventory
		}
	}
	for _, trigger := range capabilityTriggers {
		if strings.Contains(question, trigger) {
			return domain.IntentCapabilities
		}
	}
	return domain.IntentRAG
}

func (d *IntentDetector) classifyViaLLM(ctx context.Context, question string) domain.Intent {
	answer, err := d.generator.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "Classify the user question into exactly one word: inventory (asks what documents exist), capabilities (asks what the assistant can do), or rag (asks about document content). Answer with the single word only."},
		{Role: domain.RoleUser, Content: question},
	})
	if err != nil {
		d.log.Warn("intent classification failed, defaulting to rag", "error", err)
		return domain.IntentRAG
	}
	switch {
	case strings.Contains(strings.ToLower(answer), "inventory"):
		return domain.IntentInventory
	case strings.Contains(strings.ToLower(answer), "capabilities"):
		return domain.IntentCapabilities
	default:
		return domain.IntentRAG
	}
}
