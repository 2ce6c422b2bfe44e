package ddf

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// A literal "<" in prose ("priced < market") is not markup; only a "<"
// opening a tag, closer, or comment sends the remarks through the parser.
var tagPattern = regexp.MustCompile(`<[a-zA-Z/!]`)

// CleanRemarks turns the feed's public remarks into plain text. Boards are
// inconsistent about markup: some send raw HTML, some entity-encoded text,
// some plain strings. Whitespace is collapsed either way.
func CleanRemarks(remarks string) string {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return ""
	}

	if !tagPattern.MatchString(remarks) {
		return collapseSpace(html.UnescapeString(remarks))
	}

	// Pad tags so adjacent blocks don't run together in the text output.
	padded := strings.ReplaceAll(remarks, "<", " <")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(padded))
	if err != nil {
		return collapseSpace(html.UnescapeString(remarks))
	}

	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
