package domain

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type Intent string

const (
	IntentInventory    Intent = "inventory"
	IntentCapabilities Intent = "capabilities"
	IntentRAG          Intent = "rag"
)

// SourceDocument is a per-file citation attached to a chat answer.
type SourceDocument struct {
	FileName   string  `json:"file_name"`
	FilePath   string  `json:"file_path"`
	Similarity float64 `json:"similarity"`
	Excerpt    string  `json:"excerpt"`
}

// ChatAnswer is the full outcome of one chat turn. MissingFiles carries
// filename targets whose content could not be found; callers turn it into a
// user-facing warning.
type ChatAnswer struct {
	Text         string           `json:"text"`
	Intent       Intent           `json:"intent"`
	Sources      []SourceDocument `json:"sources"`
	MissingFiles []string         `json:"missing_files"`
}
