package chunker

import (
	"strings"

	"doclens/internal/domain"
)

// Chunker splits document text into fixed-size overlapping windows by
// character count. Windows are computed over runes so a boundary never falls
// inside a multi-byte character.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window parameters. Overlap must be smaller than the
// window size and both must be positive, otherwise consecutive windows would
// never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, &domain.ConfigError{Param: "chunk size", Reason: "must be positive"}
	}
	if overlap <= 0 {
		return nil, &domain.ConfigError{Param: "chunk overlap", Reason: "must be positive"}
	}
	if overlap >= size {
		return nil, &domain.ConfigError{Param: "chunk overlap", Reason: "must be smaller than chunk size"}
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into windows [i*stride, i*stride+size) clipped to the
// text length, stride = size-overlap. The split is deterministic: the same
// (text, size, overlap) always yields the same chunk boundaries and indices,
// which keeps re-loading idempotent and spans citable. Empty or
// whitespace-only windows are dropped; indices stay dense from zero.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	stride := c.size - c.overlap
	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, domain.Chunk{
				DocumentID: documentID,
				Index:      len(chunks),
				Text:       window,
				Start:      start,
				End:        end,
			})
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
