package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"doclens/internal/domain"
)

// FileExtractor reads plain-text documents. Richer formats (PDF, DOCX) are
// the job of an external extractor behind the same interface.
type FileExtractor struct{}

// New returns a plain-text file extractor.
func New() *FileExtractor { return &FileExtractor{} }

// Extract returns the text content of the file at path.
func (e *FileExtractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", ".markdown", ".text":
	default:
		return "", &domain.UnsupportedFormatError{Path: path, Ext: ext}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
