package summarizer

import (
	"strings"
	"testing"
)

func TestSummarizeSelectsFrequentTopics(t *testing.T) {
	text := "Widgets are the main product. Widgets ship with a floof core. " +
		"The cafeteria serves lunch at noon. Widget cores are tested for floof density. " +
		"Parking is available behind the building."
	s := NewFrequency()

	summary, err := s.Summarize(text, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(summary, "floof") {
		t.Errorf("summary should favor frequent topic words, got %q", summary)
	}
	if strings.Count(summary, ".") > 2 {
		t.Errorf("expected at most 2 sentences, got %q", summary)
	}
}

func TestSummarizePreservesOriginalOrder(t *testing.T) {
	text := "Alpha comes first in the text. Filler sentence about nothing much here. Alpha appears again at the end."
	s := NewFrequency()

	summary, err := s.Summarize(text, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	first := strings.Index(summary, "first")
	last := strings.Index(summary, "end")
	if first == -1 || last == -1 || first > last {
		t.Errorf("selected sentences should keep document order, got %q", summary)
	}
}

func TestSummarizeNoSentenceBoundaries(t *testing.T) {
	s := NewFrequency()
	summary, err := s.Summarize("  just a fragment without punctuation  ", 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "just a fragment without punctuation" {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummarizeMaxSentencesClamped(t *testing.T) {
	s := NewFrequency()
	summary, err := s.Summarize("One. Two. Three.", 10)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if strings.Count(summary, ".") != 3 {
		t.Errorf("all sentences should be kept when maxSentences exceeds count, got %q", summary)
	}
}
