package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

func TestIndexPassagesEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.pdf"}
	chunks := []domain.Chunk{{Index: 0, Text: "a"}, {Index: 1, Text: "b"}}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.IndexPassages(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first IndexPassages() error = %v", err)
	}
	if err := client.IndexPassages(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second IndexPassages() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexPassagesPayloadShape(t *testing.T) {
	var captured struct {
		Points []struct {
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "contract.pdf", StoragePath: "doc-1_contract.pdf"}
	chunks := []domain.Chunk{{Index: 3, SectionTitle: "Termination", Text: "may terminate"}}

	if err := client.IndexPassages(context.Background(), doc, chunks, [][]float32{{0.1}}); err != nil {
		t.Fatalf("IndexPassages() error = %v", err)
	}
	if len(captured.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(captured.Points))
	}
	payload := captured.Points[0].Payload
	if payload["document_id"] != "doc-1" || payload["file_name"] != "contract.pdf" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["section_title"] != "Termination" || payload["chunk_index"] != float64(3) {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestSearchMapsPassages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/search" {
			_, _ = w.Write([]byte(`{"result":[
				{"id":"11111111-1111-1111-1111-111111111111","score":0.87,"payload":{
					"document_id":"doc-1","file_name":"contract.pdf","file_path":"doc-1_contract.pdf",
					"section_title":"Termination","chunk_index":2,"text":"may terminate for breach"}}
			]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	passages, err := client.Search(context.Background(), []float32{0.1}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}
	p := passages[0]
	if p.ID != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected id %s", p.ID)
	}
	if p.FileName != "contract.pdf" || p.ChunkIndex != 2 || p.Similarity != 0.87 {
		t.Fatalf("unexpected passage %+v", p)
	}
}

func TestFetchByFileScrollsAllPages(t *testing.T) {
	var scrollCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/scroll" {
			call := atomic.AddInt32(&scrollCalls, 1)
			if call == 1 {
				_, _ = w.Write([]byte(`{"result":{"points":[
					{"id":"a","payload":{"file_name":"contract.pdf","chunk_index":0,"text":"first"}}
				],"next_page_offset":"a"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"result":{"points":[
				{"id":"b","payload":{"file_name":"contract.pdf","chunk_index":1,"text":"second"}}
			],"next_page_offset":null}}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	passages, err := client.FetchByFile(context.Background(), "contract.pdf")
	if err != nil {
		t.Fatalf("FetchByFile() error = %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages across pages, got %d", len(passages))
	}
	if got := atomic.LoadInt32(&scrollCalls); got != 2 {
		t.Fatalf("expected 2 scroll calls, got %d", got)
	}
}

func TestStatsCountsChunksAndFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/count":
			_, _ = w.Write([]byte(`{"result":{"count":7}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/scroll":
			_, _ = w.Write([]byte(`{"result":{"points":[
				{"payload":{"file_name":"a.pdf"}},
				{"payload":{"file_name":"b.pdf"}},
				{"payload":{"file_name":"a.pdf"}}
			],"next_page_offset":null}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 7 || stats.UniqueFiles != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.pdf"}
	err := client.IndexPassages(context.Background(), doc, []domain.Chunk{{Text: "a"}}, [][]float32{{0.1, 0.2}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got == "" || !strings.Contains(got, "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}
