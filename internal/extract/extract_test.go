package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclens/internal/domain"
)

func TestExtractReadsTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello世界\n"), 0o644))

	text, err := New().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "hello世界\n", text)
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	_, err := New().Extract("report.pdf")
	require.Error(t, err)
	var ufe *domain.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, ".pdf", ufe.Ext)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
