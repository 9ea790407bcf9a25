package tokenizer

import (
	"strings"
	"sync"
)

// Words is a whitespace word tokenizer. Each distinct word gets an id from
// a per-instance vocabulary; Decode joins words with single spaces, so runs
// of whitespace collapse (the Tokenizer contract allows a lossy round trip).
// It needs no model files, which makes it the offline alternative to BPE.
type Words struct {
	mu    sync.Mutex
	ids   map[string]int
	words []string
}

// NewWords creates an empty-vocabulary word tokenizer.
func NewWords() *Words {
	return &Words{ids: make(map[string]int)}
}

// Encode splits text on whitespace and returns one token id per word.
func (w *Words) Encode(text string) []int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	tokens := make([]int, len(fields))
	for i, f := range fields {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.words)
			w.ids[f] = id
			w.words = append(w.words, f)
		}
		tokens[i] = id
	}
	return tokens
}

// Decode joins the words behind the given ids with single spaces.
// Unknown ids are skipped.
func (w *Words) Decode(tokens []int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	parts := make([]string, 0, len(tokens))
	for _, id := range tokens {
		if id < 0 || id >= len(w.words) {
			continue
		}
		parts = append(parts, w.words[id])
	}
	return strings.Join(parts, " ")
}
