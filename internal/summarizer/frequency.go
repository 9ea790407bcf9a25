// Package summarizer produces short extractive summaries of ingested documents.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Frequency ranks sentences by normalized token frequency and returns the
// top-scoring ones in their original order. Stopwords are ignored.
type Frequency struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequency creates a frequency-based extractive summarizer.
func NewFrequency() *Frequency {
	return &Frequency{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    stopwordSet(),
	}
}

// Summarize returns up to maxSentences sentences selected by frequency score.
// Text with no sentence boundaries is returned trimmed and whole.
func (s *Frequency) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	tokenized := make([][]string, len(sentences))
	freq := map[string]float64{}
	for i, sent := range sentences {
		toks := s.tokens(sent)
		tokenized[i] = toks
		for _, tok := range toks {
			if _, skip := s.stopwords[tok]; skip {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i := range sentences {
		total := 0.0
		for _, tok := range tokenized[i] {
			total += freq[tok]
		}
		// Dampen the advantage of long sentences.
		if n := float64(len(tokenized[i])); n > 0 {
			total /= math.Sqrt(n)
		}
		ranked[i] = scored{i, total}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}

	keep := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		keep[i] = ranked[i].idx
	}
	sort.Ints(keep)
	out := make([]string, 0, len(keep))
	for _, idx := range keep {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *Frequency) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func stopwordSet() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
