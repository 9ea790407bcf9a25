package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ragserve/internal/chunker"
	"ragserve/internal/domain"
	"ragserve/internal/embedding"
	"ragserve/internal/extract"
	"ragserve/internal/summarizer"
	"ragserve/internal/tokenizer"
	"ragserve/internal/vectorstore"
)

type stubCompleter struct {
	answer     string
	err        error
	gotQuery   string
	gotSources []domain.SearchResult
	calls      int
}

func (c *stubCompleter) Complete(_ context.Context, query string, sources []domain.SearchResult) (string, error) {
	c.calls++
	c.gotQuery = query
	c.gotSources = sources
	return c.answer, c.err
}

func newTestService(t *testing.T, completer domain.Completer) *Service {
	t.Helper()
	svc, err := New(Deps{
		Chunker:    chunker.NewTokenChunker(tokenizer.NewWords(), 8, 2),
		Embedder:   embedding.NewTFIDF(),
		Extractor:  extract.NewExtractor(),
		Completer:  completer,
		Summarizer: summarizer.NewFrequency(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestIngestPathsBuildsStoreAndIndexes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.txt", "The sky is blue today. Grass is green in summer.")
	writeFile(t, dir, "animals.txt", "Cats sleep most of the day. Dogs enjoy long walks.")
	svc := newTestService(t, nil)

	summary, err := svc.IngestPaths([]string{filepath.Join(dir, "*.txt")})
	if err != nil {
		t.Fatalf("IngestPaths: %v", err)
	}
	if summary == "" {
		t.Error("expected a non-empty summary")
	}
	if svc.TotalVectors() == 0 {
		t.Error("expected vectors in the store after ingest")
	}

	results, err := svc.Search("what color is the sky?", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	if results[0].DocumentName != "colors.txt" {
		t.Errorf("top result from %q, want colors.txt", results[0].DocumentName)
	}
}

func TestIngestPathsNoText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   \n  ")
	svc := newTestService(t, nil)

	if _, err := svc.IngestPaths([]string{filepath.Join(dir, "empty.txt")}); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestSearchBeforeIngest(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Search("anything", 3); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestUploadIntoPreparedStore(t *testing.T) {
	emb := embedding.NewTFIDF()
	if err := emb.Prepare([]string{"the sky is blue", "grass is green"}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	store, err := vectorstore.NewStore(emb, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	svc, err := New(Deps{
		Chunker:   chunker.NewTokenChunker(tokenizer.NewWords(), 8, 2),
		Embedder:  emb,
		Extractor: extract.NewExtractor(),
		Store:     store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := svc.Upload("sky.txt", []byte("the sky is blue"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.ChunksAdded == 0 || res.TotalVectors != res.ChunksAdded {
		t.Errorf("unexpected add result %+v", res)
	}

	if _, err := svc.Upload("blank.txt", []byte("  ")); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestQueryConsultsCompleterEvenWithoutSources(t *testing.T) {
	completer := &stubCompleter{answer: "I have no documents to draw on."}
	svc := newTestService(t, completer)

	res, err := svc.Query(context.Background(), "what color is the sky?", 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("completer called %d times, want 1", completer.calls)
	}
	if len(completer.gotSources) != 0 {
		t.Errorf("expected no sources, got %d", len(completer.gotSources))
	}
	if res.Answer != completer.answer {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestQueryPassesRetrievedSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.txt", "The sky is blue today. Grass is green in summer.")
	completer := &stubCompleter{answer: "The sky is blue."}
	svc := newTestService(t, completer)

	if _, err := svc.IngestPaths([]string{filepath.Join(dir, "colors.txt")}); err != nil {
		t.Fatalf("IngestPaths: %v", err)
	}
	res, err := svc.Query(context.Background(), "what color is the sky?", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(completer.gotSources) == 0 {
		t.Error("expected retrieved sources passed to the completer")
	}
	if completer.gotQuery != "what color is the sky?" {
		t.Errorf("gotQuery = %q", completer.gotQuery)
	}
	if len(res.Sources) != len(completer.gotSources) {
		t.Errorf("result sources %d != completer sources %d", len(res.Sources), len(completer.gotSources))
	}
}

func TestQueryCompleterError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream down")}
	svc := newTestService(t, completer)

	if _, err := svc.Query(context.Background(), "q", 1); err == nil {
		t.Error("expected completion error to propagate")
	}
}

func TestResetClearsStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.txt", "The sky is blue today. Grass is green in summer.")
	svc := newTestService(t, nil)

	if _, err := svc.IngestPaths([]string{filepath.Join(dir, "colors.txt")}); err != nil {
		t.Fatalf("IngestPaths: %v", err)
	}
	if svc.TotalVectors() == 0 {
		t.Fatal("expected vectors before reset")
	}
	if total := svc.Reset(); total != 0 {
		t.Errorf("total after reset = %d", total)
	}
}
