package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
)

const ragSystemPrompt = `You are a legal document assistant. Answer strictly from the excerpts below. If the excerpts do not contain the answer, say so plainly. Cite documents by file name when you use them. Do not invent clauses or terms.

Excerpts:
%s`

const capabilitiesText = `I answer questions about the legal documents uploaded to this workspace. I can list the available documents, locate specific clauses (termination, payment, confidentiality, liability, governing law and similar), compare what different agreements say, and quote the relevant passages with their source files. Upload a document and ask about its content.`

const noContextText = `I could not find any relevant content in the uploaded documents for that question. Try rephrasing it, or upload the document you are asking about.`

const sourceExcerptChars = 200

// ChatUseCase answers questions over the indexed documents. Inventory
// and capability questions are answered deterministically without the
// generator; everything else goes through retrieval-augmented
// generation over an assembled context.
type ChatUseCase struct {
	repo      ports.DocumentRepository
	assembler ports.ContextBuilder
	generator ports.AnswerGenerator
	intents   *IntentDetector

	contextPassages int
	historyMessages int

	log *slog.Logger
}

func NewChatUseCase(
	repo ports.DocumentRepository,
	assembler ports.ContextBuilder,
	generator ports.AnswerGenerator,
	intents *IntentDetector,
	contextPassages int,
	historyMessages int,
	log *slog.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		repo:            repo,
		assembler:       assembler,
		generator:       generator,
		intents:         intents,
		contextPassages: contextPassages,
		historyMessages: historyMessages,
		log:             log,
	}
}

func (uc *ChatUseCase) Answer(ctx context.Context, question string, history []domain.ChatMessage) (*domain.ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat answer", errors.New("empty question"))
	}

	switch uc.intents.Detect(ctx, question) {
	case domain.IntentInventory:
		return uc.answerInventory(ctx)
	case domain.IntentCapabilities:
		return &domain.ChatAnswer{Text: capabilitiesText, Intent: domain.IntentCapabilities}, nil
	default:
		return uc.answerRAG(ctx, question, history)
	}
}

func (uc *ChatUseCase) AnswerStream(ctx context.Context, question string, history []domain.ChatMessage) (<-chan string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat stream", errors.New("empty question"))
	}

	switch uc.intents.Detect(ctx, question) {
	case domain.IntentInventory:
		answer, err := uc.answerInventory(ctx)
		if err != nil {
			return nil, err
		}
		return singleChunkStream(answer.Text), nil
	case domain.IntentCapabilities:
		return singleChunkStream(capabilitiesText), nil
	}

	assembled, err := uc.assembler.Assemble(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}
	passages := uc.contextWindow(assembled)
	if len(passages) == 0 {
		return singleChunkStream(withMissingNote(noContextText, assembled.MissingTargets)), nil
	}

	upstream, err := uc.generator.Stream(ctx, uc.ragMessages(question, passages, focusFileNames(assembled.Targets), history))
	if err != nil {
		return nil, fmt.Errorf("start answer stream: %w", err)
	}
	if len(assembled.MissingTargets) == 0 {
		return upstream, nil
	}

	// Relay the model's tokens, then surface the files that could not
	// be found as a trailing note. Every send races the context so an
	// abandoned consumer cannot strand the relay.
	out := make(chan string)
	go func() {
		defer close(out)
		for token := range upstream {
			select {
			case out <- token:
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- withMissingNote("", assembled.MissingTargets):
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func (uc *ChatUseCase) answerInventory(ctx context.Context) (*domain.ChatAnswer, error) {
	inventory, err := uc.repo.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if len(inventory) == 0 {
		return &domain.ChatAnswer{
			Text:   "No documents have been uploaded yet.",
			Intent: domain.IntentInventory,
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "There are %d document(s) available:\n", len(inventory))
	for _, item := range inventory {
		fmt.Fprintf(&sb, "- %s (%d indexed section(s))\n", item.FileName, item.ChunkCount)
	}
	return &domain.ChatAnswer{Text: strings.TrimSpace(sb.String()), Intent: domain.IntentInventory}, nil
}

func (uc *ChatUseCase) answerRAG(ctx context.Context, question string, history []domain.ChatMessage) (*domain.ChatAnswer, error) {
	assembled, err := uc.assembler.Assemble(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	answer := &domain.ChatAnswer{
		Intent:       domain.IntentRAG,
		Sources:      []domain.SourceDocument{},
		MissingFiles: assembled.MissingTargets,
	}
	passages := uc.contextWindow(assembled)
	if len(passages) == 0 {
		answer.Text = withMissingNote(noContextText, assembled.MissingTargets)
		return answer, nil
	}

	focus := focusFileNames(assembled.Targets)
	text, err := uc.generator.Complete(ctx, uc.ragMessages(question, passages, focus, history))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	text = filterCitations(strings.TrimSpace(text), passages, focus)
	answer.Text = withMissingNote(text, assembled.MissingTargets)
	answer.Sources = sourcesFrom(passages)
	return answer, nil
}

// contextWindow keeps the strongest passages that fit the chat prompt.
func (uc *ChatUseCase) contextWindow(assembled *domain.AssembledContext) []domain.ScoredPassage {
	passages := assembled.Passages
	if len(passages) > uc.contextPassages {
		passages = passages[:uc.contextPassages]
	}
	return passages
}

func (uc *ChatUseCase) ragMessages(question string, passages []domain.ScoredPassage, focus []string, history []domain.ChatMessage) []domain.ChatMessage {
	var sb strings.Builder
	for _, p := range passages {
		header := p.FileName
		if p.SectionTitle != "" {
			header += " / " + p.SectionTitle
		}
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", header, p.Text)
	}

	system := fmt.Sprintf(ragSystemPrompt, strings.TrimSpace(sb.String()))
	if len(focus) > 0 {
		system += "\n\nFocus your answer on these documents unless the user explicitly broadens the scope: " + strings.Join(focus, ", ")
	}

	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: system,
	})
	if len(history) > uc.historyMessages {
		history = history[len(history)-uc.historyMessages:]
	}
	messages = append(messages, history...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: question})
	return messages
}

// sourcesFrom collapses context passages into one citation per file,
// keeping the first (strongest) passage as the representative excerpt.
func sourcesFrom(passages []domain.ScoredPassage) []domain.SourceDocument {
	seen := make(map[string]struct{}, len(passages))
	sources := make([]domain.SourceDocument, 0, len(passages))
	for _, p := range passages {
		if _, dup := seen[p.FileName]; dup {
			continue
		}
		seen[p.FileName] = struct{}{}
		sources = append(sources, domain.SourceDocument{
			FileName:   p.FileName,
			FilePath:   p.FilePath,
			Similarity: p.Similarity,
			Excerpt:    truncateChars(p.Text, sourceExcerptChars),
		})
	}
	return sources
}

// focusFileNames flattens detected filename targets into a sorted,
// deduplicated list for the system prompt and citation allow-list.
func focusFileNames(targets []domain.QueryTarget) []string {
	if len(targets) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(targets))
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, dup := seen[t.FileName]; dup {
			continue
		}
		seen[t.FileName] = struct{}{}
		names = append(names, t.FileName)
	}
	sort.Strings(names)
	return names
}

var citationPattern = regexp.MustCompile(`\[([^\[\]]*)\]`)

// filterCitations strips bracketed citations that name files absent from
// the answer's context, so the model cannot cite documents it never saw.
func filterCitations(text string, passages []domain.ScoredPassage, focus []string) string {
	allowed := make(map[string]struct{}, len(passages))
	for _, p := range passages {
		allowed[p.FileName] = struct{}{}
	}
	if len(allowed) == 0 {
		for _, name := range focus {
			allowed[name] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return text
	}
	return citationPattern.ReplaceAllStringFunc(text, func(m string) string {
		token := strings.TrimSpace(m[1 : len(m)-1])
		if _, ok := allowed[token]; ok {
			return "[" + token + "]"
		}
		return ""
	})
}

func withMissingNote(text string, missing []string) string {
	if len(missing) == 0 {
		return text
	}
	note := fmt.Sprintf("Note: I could not find content for: %s.", strings.Join(missing, ", "))
	if text == "" {
		return "\n\n" + note
	}
	return text + "\n\n" + note
}

func singleChunkStream(text string) <-chan string {
	ch := make(chan string, 1)
	ch <- text
	close(ch)
	return ch
}
