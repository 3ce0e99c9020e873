package gmail

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(?:script|style)[^>]*>.*?</(?:script|style)>`)
	blockTagRe    = regexp.MustCompile(`(?i)<(?:br|p|div|tr|li)[^>]*>`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe  = regexp.MustCompile(`\n\s*\n+`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
)

// StripHTML converts HTML to plain text for display.
//
// Script and style elements are removed with their content, block-level tags
// (br, p, div, tr, li) become newlines, remaining tags are dropped, the five
// basic named entities are decoded, and runs of blank lines collapse to a
// single blank line. This is intentionally lossy: a regex pass tolerant of
// malformed markup, not a general HTML parser.
func StripHTML(s string) string {
	s = scriptStyleRe.ReplaceAllString(s, "")
	s = blockTagRe.ReplaceAllString(s, "\n")
	s = anyTagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// TextToHTML converts plain text to HTML, preserving line breaks.
// Each newline becomes "<br>\n" so that composed plain text round-trips
// through StripHTML with its line structure intact.
func TextToHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>\n")
}
