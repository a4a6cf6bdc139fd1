package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUploadedFile(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "uploads")
	fh := NewFileHandler(tmpDir)

	path, err := fh.SaveUploadedFile("../escape_cv.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "escape_cv.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLoadDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b_cv.PDF"), []byte("pdf"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a_cv.docx"), []byte("docx"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "nested.pdf"), 0755))

	docs, err := NewFileHandler(tmpDir).LoadDocuments()
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, Document{Name: "a_cv.docx", Ext: ".docx", Content: []byte("docx")}, docs[0])
	assert.Equal(t, ".pdf", docs[1].Ext)
}

func TestLoadDocumentsMissingDir(t *testing.T) {
	docs, err := NewFileHandler(filepath.Join(t.TempDir(), "missing")).LoadDocuments()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestClearUploads(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "cv.pdf"), []byte("test"), 0644))

	require.NoError(t, NewFileHandler(tmpDir).ClearUploads())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
