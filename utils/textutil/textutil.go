// Package textutil normalizes span text coming out of the content store
// before it reaches the summarizer prompt.
package textutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

var blankLineRun = regexp.MustCompile(`\n{3,}`)

// StripMarkup removes any markup that leaked into a text span. Span text is
// expected to be plain already; this is a zero-trust pass for documents
// migrated from HTML sources. Surrounding whitespace survives on the plain
// path because adjacent spans are concatenated before collapsing.
func StripMarkup(raw string) string {
	if !strings.Contains(raw, "<") || !strings.Contains(raw, ">") {
		return raw
	}

	trimmed := strings.TrimSpace(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err == nil {
		doc.Find("script, style, noscript").Remove()
		if text := strings.TrimSpace(doc.Text()); text != "" {
			return text
		}
	}

	return strings.TrimSpace(stripPolicy.Sanitize(trimmed))
}

// CollapseSpaces replaces any horizontal whitespace run with a single space.
func CollapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// NormalizeBlocks joins already-cleaned paragraphs with a single blank line
// and collapses any run of blank lines that slipped through.
func NormalizeBlocks(paragraphs []string) string {
	var nonEmpty []string
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	joined := strings.Join(nonEmpty, "\n\n")
	return blankLineRun.ReplaceAllString(joined, "\n\n")
}
