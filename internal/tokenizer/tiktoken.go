// Package tokenizer provides domain.Tokenizer implementations used by the
// token-window chunker.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is configured.
// cl100k_base matches gpt-4, gpt-3.5-turbo and the text-embedding models.
const DefaultEncoding = "cl100k_base"

// Tiktoken wraps a tiktoken BPE encoding.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the named BPE encoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Encode returns the BPE token ids for text.
func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode renders token ids back to text.
func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
