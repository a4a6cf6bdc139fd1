package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagPattern = regexp.MustCompile(`<(?i:p|div|br|li|ul|ol|h[1-6]|span|strong|em|b|i|section|article|body|html)\b[^>]*>`)

// CleanText normalizes line endings and drops trailing whitespace.
// Line structure is kept since section detection depends on it.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, " ", " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// LooksLikeHTML reports whether s contains common HTML markup
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// NormalizeJobDescription reduces an HTML job posting to its visible text.
// Plain text is returned trimmed.
func NormalizeJobDescription(s string) (string, error) {
	if !LooksLikeHTML(s) {
		return strings.TrimSpace(s), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	return cleanLines(doc.Text()), nil
}

func cleanLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
