package chunker

import (
	"strings"

	"ragserve/internal/domain"
)

// TokenChunker splits text into token-bounded windows with overlap.
// Window width and overlap are measured in tokens of the injected
// tokenizer, not characters.
type TokenChunker struct {
	tokenizer    domain.Tokenizer
	chunkSize    int
	chunkOverlap int
}

// NewTokenChunker creates a chunker producing windows of chunkSize tokens
// that overlap by chunkOverlap tokens.
func NewTokenChunker(tokenizer domain.Tokenizer, chunkSize, chunkOverlap int) *TokenChunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &TokenChunker{
		tokenizer:    tokenizer,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk walks a window of chunkSize tokens over the text, advancing by
// chunkSize-chunkOverlap each step, and decodes every window back to text.
// The final chunk may be shorter than a full window. Empty or
// whitespace-only text yields no chunks; text at or under chunkSize tokens
// yields exactly one.
func (c *TokenChunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := c.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil
	}
	var chunks []string
	start := 0
	for start < len(tokens) {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.tokenizer.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
		next := start + c.chunkSize - c.chunkOverlap
		if next <= start {
			// Overlap at or above the window width would stall the walk.
			// Advance by half a window instead; stop if even that makes
			// no progress.
			next = end - c.chunkSize/2
			if next <= start {
				break
			}
		}
		start = next
	}
	return chunks
}
