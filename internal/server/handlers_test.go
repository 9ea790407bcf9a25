package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"ragserve/internal/chunker"
	"ragserve/internal/config"
	"ragserve/internal/domain"
	"ragserve/internal/embedding"
	"ragserve/internal/extract"
	"ragserve/internal/service"
	"ragserve/internal/tokenizer"
	"ragserve/internal/vectorstore"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, query string, sources []domain.SearchResult) (string, error) {
	if len(sources) == 0 {
		return "no context available", nil
	}
	return "answered: " + query, nil
}

func newTestServer(t *testing.T, completer domain.Completer) *Server {
	t.Helper()
	emb := embedding.NewTFIDF()
	corpus := []string{
		"the sky is blue today",
		"grass is green in summer",
		"cats sleep most of the day",
	}
	if err := emb.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	store, err := vectorstore.NewStore(emb, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	svc, err := service.New(service.Deps{
		Chunker:   chunker.NewTokenChunker(tokenizer.NewWords(), 16, 2),
		Embedder:  emb,
		Extractor: extract.NewExtractor(),
		Store:     store,
		Completer: completer,
	})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	return NewServer(svc, &config.ServerConfig{Host: "127.0.0.1", Port: 0}, zap.NewNop())
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	srv := newTestServer(t, nil)
	body, contentType := multipartUpload(t, "colors.txt", "the sky is blue today")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "colors.txt" {
		t.Errorf("filename = %q", resp.Filename)
	}
	if resp.ChunksAdded == 0 || resp.TotalVectorsInStore != resp.ChunksAdded {
		t.Errorf("unexpected counts %+v", resp)
	}
}

func TestHandleUploadEmptyDocument(t *testing.T) {
	srv := newTestServer(t, nil)
	body, contentType := multipartUpload(t, "blank.txt", "   \n ")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUploadMissingFileField(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleQuery(t *testing.T) {
	srv := newTestServer(t, echoCompleter{})
	body, contentType := multipartUpload(t, "colors.txt", "the sky is blue today")
	up := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	up.Header.Set("Content-Type", contentType)
	srv.Routes().ServeHTTP(httptest.NewRecorder(), up)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		strings.NewReader(`{"query_text": "what color is the sky?", "top_k": 2}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LLMResponse != "answered: what color is the sky?" {
		t.Errorf("llm_response = %q", resp.LLMResponse)
	}
	if len(resp.Sources) == 0 {
		t.Fatal("expected sources")
	}
	if resp.Sources[0].DocumentName != "colors.txt" {
		t.Errorf("top source document = %q", resp.Sources[0].DocumentName)
	}
}

func TestHandleQueryEmptyStoreStillAnswers(t *testing.T) {
	srv := newTestServer(t, echoCompleter{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
		strings.NewReader(`{"query_text": "anything"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LLMResponse != "no context available" {
		t.Errorf("llm_response = %q", resp.LLMResponse)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(resp.Sources))
	}
}

func TestHandleQueryValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	for name, body := range map[string]string{
		"invalid json":       "{not json",
		"missing query_text": `{"top_k": 3}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestHandleReset(t *testing.T) {
	srv := newTestServer(t, nil)
	body, contentType := multipartUpload(t, "colors.txt", "the sky is blue today")
	up := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	up.Header.Set("Content-Type", contentType)
	srv.Routes().ServeHTTP(httptest.NewRecorder(), up)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reset-vector-store", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp resetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalVectorsInStore != 0 {
		t.Errorf("total after reset = %d", resp.TotalVectorsInStore)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", textPreviewRunes+50)
	got := preview(long)
	if len([]rune(got)) != textPreviewRunes+3 {
		t.Errorf("preview length = %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview should end with ellipsis")
	}
	if preview("short") != "short" {
		t.Error("short text should pass through")
	}
}
