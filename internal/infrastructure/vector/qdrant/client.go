package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

const scrollPageSize = 256

// Client talks to qdrant over its HTTP API and implements the passage
// index used by retrieval.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) IndexPassages(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: map[string]any{
				"document_id":   doc.ID,
				"file_name":     doc.Filename,
				"file_path":     doc.StoragePath,
				"section_title": chunk.SectionTitle,
				"chunk_index":   chunk.Index,
				"text":          chunk.Text,
			},
		})
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	var ack struct{}
	if err := c.doJSON(ctx, http.MethodPut, url, map[string]any{"points": points}, &ack); err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Passage, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}

	var searchResp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.doJSON(ctx, http.MethodPost, url, reqBody, &searchResp); err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	out := make([]domain.Passage, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		p := passageFromPayload(r.Payload)
		p.ID = fmt.Sprintf("%v", r.ID)
		p.Similarity = r.Score
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) FetchByFile(ctx context.Context, fileName string) ([]domain.Passage, error) {
	var (
		out    []domain.Passage
		offset any
	)
	for {
		reqBody := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
			"filter":       fileNameFilter(fileName),
		}
		if offset != nil {
			reqBody["offset"] = offset
		}

		var scrollResp struct {
			Result struct {
				Points []struct {
					ID      any            `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
		if err := c.doJSON(ctx, http.MethodPost, url, reqBody, &scrollResp); err != nil {
			return nil, fmt.Errorf("qdrant scroll: %w", err)
		}

		for _, point := range scrollResp.Result.Points {
			p := passageFromPayload(point.Payload)
			p.ID = fmt.Sprintf("%v", point.ID)
			out = append(out, p)
		}
		if scrollResp.Result.NextPageOffset == nil {
			return out, nil
		}
		offset = scrollResp.Result.NextPageOffset
	}
}

func (c *Client) DeleteByFile(ctx context.Context, fileName string) error {
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.baseURL, c.collection)
	var ack struct{}
	if err := c.doJSON(ctx, http.MethodPost, url, map[string]any{"filter": fileNameFilter(fileName)}, &ack); err != nil {
		return fmt.Errorf("qdrant delete by file: %w", err)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (domain.IndexStats, error) {
	var countResp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	countURL := fmt.Sprintf("%s/collections/%s/points/count", c.baseURL, c.collection)
	if err := c.doJSON(ctx, http.MethodPost, countURL, map[string]any{"exact": true}, &countResp); err != nil {
		return domain.IndexStats{}, fmt.Errorf("qdrant count: %w", err)
	}

	files := make(map[string]struct{})
	var offset any
	for {
		reqBody := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": []string{"file_name"},
		}
		if offset != nil {
			reqBody["offset"] = offset
		}

		var scrollResp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
		if err := c.doJSON(ctx, http.MethodPost, url, reqBody, &scrollResp); err != nil {
			return domain.IndexStats{}, fmt.Errorf("qdrant scroll file names: %w", err)
		}
		for _, point := range scrollResp.Result.Points {
			if name := getStringPayload(point.Payload, "file_name"); name != "" {
				files[name] = struct{}{}
			}
		}
		if scrollResp.Result.NextPageOffset == nil {
			break
		}
		offset = scrollResp.Result.NextPageOffset
	}

	return domain.IndexStats{
		TotalChunks: countResp.Result.Count,
		UniqueFiles: len(files),
	}, nil
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if already exists (depends on version/config).
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func (c *Client) doJSON(ctx context.Context, method, url string, reqBody any, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return fmt.Errorf("status %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func fileNameFilter(fileName string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "file_name",
				"match": map[string]any{"value": fileName},
			},
		},
	}
}

func passageFromPayload(payload map[string]any) domain.Passage {
	return domain.Passage{
		DocumentID:   getStringPayload(payload, "document_id"),
		FileName:     getStringPayload(payload, "file_name"),
		FilePath:     getStringPayload(payload, "file_path"),
		SectionTitle: getStringPayload(payload, "section_title"),
		ChunkIndex:   getIntPayload(payload, "chunk_index"),
		Text:         getStringPayload(payload, "text"),
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getIntPayload(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
