// Package extract provides plain-text extraction from uploaded documents.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor extracts text from document bytes by file extension.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the named document. Markdown and
// plain text pass through (UTF-8 validated); PDF and DOCX are parsed.
// Unknown extensions are treated as plain text.
func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", filename, err)
		}
		return text, nil
	case ".docx":
		text, err := extractDOCX(content)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", filename, err)
		}
		return text, nil
	case ".txt", ".md", ".rst", "":
		return extractPlain(content), nil
	default:
		return extractPlain(content), nil
	}
}
