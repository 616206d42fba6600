package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
	"github.com/mzolotarev/legal-assistant/internal/core/ports"
	"github.com/mzolotarev/legal-assistant/internal/observability/metrics"
)

const maxUploadBytes = 64 << 20

// Deps carries everything the HTTP surface needs. Metrics is optional;
// a nil value disables instrumentation but not the endpoints.
type Deps struct {
	Ingestor ports.DocumentIngestor
	Remover  ports.DocumentRemover
	Searcher ports.ClauseSearcher
	Chat     ports.ChatService
	Repo     ports.DocumentReader
	Index    ports.PassageIndex
	Metrics  *metrics.HTTPServerMetrics
	Service  string
	Logger   *slog.Logger
}

type Router struct {
	deps Deps
	log  *slog.Logger
}

func NewRouter(deps Deps) *Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{deps: deps, log: logger}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/search", rt.search)
	mux.HandleFunc("POST /v1/chat", rt.chat)
	mux.HandleFunc("POST /v1/chat/stream", rt.chatStream)
	mux.HandleFunc("GET /v1/stats", rt.stats)

	var handler http.Handler = mux
	if rt.deps.Metrics != nil {
		handler = rt.deps.Metrics.Middleware(rt.deps.Service, handler)
	}
	handler = recoverMiddleware(rt.log, handler)
	handler = accessLogMiddleware(rt.log, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.deps.Ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.writeDomainError(w, r, "upload document", err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	items, err := rt.deps.Repo.ListInventory(r.Context())
	if err != nil {
		rt.writeDomainError(w, r, "list inventory", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": items})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.deps.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.deps.Remover.Remove(r.Context(), r.PathValue("id")); err != nil {
		rt.writeDomainError(w, r, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query         string `json:"query"`
		WithSummaries bool   `json:"with_summaries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	start := time.Now()
	result, err := rt.deps.Searcher.Search(r.Context(), req.Query, req.WithSummaries)
	if err != nil {
		rt.writeDomainError(w, r, "search", err)
		return
	}
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordSearch(rt.deps.Service, len(result.Groups), result.Degraded, time.Since(start))
	}

	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Question string               `json:"question"`
	History  []domain.ChatMessage `json:"history"`
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	answer, err := rt.deps.Chat.Answer(r.Context(), req.Question, req.History)
	if err != nil {
		rt.writeDomainError(w, r, "chat", err)
		return
	}
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordChatTurn(rt.deps.Service, string(answer.Intent), len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) chatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	tokens, err := rt.deps.Chat.AnswerStream(r.Context(), req.Question, req.History)
	if err != nil {
		rt.writeDomainError(w, r, "chat stream", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for token := range tokens {
		payload, err := json.Marshal(map[string]string{"delta": token})
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}

	if _, err := io.WriteString(w, "data: [DONE]\n\n"); err != nil {
		return
	}
	flusher.Flush()
}

func (rt *Router) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.deps.Index.Stats(r.Context())
	if err != nil {
		rt.writeDomainError(w, r, "index stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		rt.log.Error("handler_error",
			"request_id", requestIDFromContext(r.Context()),
			"operation", operation,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
