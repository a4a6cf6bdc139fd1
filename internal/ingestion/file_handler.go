package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a résumé file held in memory
type Document struct {
	Name    string
	Ext     string
	Content []byte
}

// FileHandler manages résumé files on disk
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// SaveUploadedFile saves an uploaded file to the uploads directory
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// LoadDocuments reads every supported résumé in the uploads directory,
// sorted by file name
func (fh *FileHandler) LoadDocuments() ([]Document, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Document{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	documents := make([]Document, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		ext := strings.ToLower(filepath.Ext(filename))
		if !IsSupported(ext) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(fh.uploadsDir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		documents = append(documents, Document{Name: filename, Ext: ext, Content: content})
	}

	sort.Slice(documents, func(i, j int) bool { return documents[i].Name < documents[j].Name })
	return documents, nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
