package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

const (
	// BinarySampleSize is the number of bytes to sample for binary detection
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data
	BinaryThreshold = 0.3
)

var (
	// ErrUnsupportedFormat is returned for any extension other than .pdf, .doc and .docx
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailure marks a parser failure on a supported format
	ErrExtractionFailure = errors.New("text extraction failed")

	errBinaryOutput = errors.New("parser returned binary data instead of text")
)

// ExtractionError reports a parser failure for one document format
type ExtractionError struct {
	Ext   string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Ext, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match ErrExtractionFailure
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailure
}

// SupportedExtensions lists the formats ExtractText accepts
var SupportedExtensions = []string{".pdf", ".doc", ".docx"}

// IsSupported reports whether ext is an accepted résumé format
func IsSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractText converts a PDF, DOC or DOCX document into plain text.
// Text keeps document order; no normalization is applied.
func ExtractText(content []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".doc":
		text, err = extractDOC(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err == nil && IsBinaryData(text) {
		err = errBinaryOutput
	}
	if err != nil {
		return "", &ExtractionError{Ext: ext, Cause: err}
	}
	return text, nil
}

// extractPDF rebuilds lines from text rows so that section headers and
// date lines stay separate whatever operators position them
func extractPDF(content []byte) (text string, err error) {
	// the parser panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to read PDF page %d: %w", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				words = append(words, t.S)
			}
			if line := strings.Join(strings.Fields(strings.Join(words, " ")), " "); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

func extractDOCX(content []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to convert DOCX: %w", err)
	}
	return text, nil
}

// extractDOC shells out to antiword, which only reads from a path
func extractDOC(content []byte) (string, error) {
	tmp, err := os.CreateTemp("", "cv-*.doc")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	output, err := exec.Command("antiword", tmp.Name()).Output()
	if err != nil {
		return "", fmt.Errorf("DOC extraction requires 'antiword': %w", err)
	}
	return string(output), nil
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers)
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	if strings.HasPrefix(content, "%PDF-") {
		return true
	}

	// DOCX is a ZIP container
	if len(content) >= 2 && content[:2] == "PK" {
		return true
	}

	sampleSize := min(BinarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}
