package parser

import (
	"regexp"
	"strings"

	"github.com/lk2023060901/reasoning-relay/internal/relay/types"
)

const (
	DefaultCitationTitle = "Referenced Source"
	DefaultCitationText  = "Content from this source"
)

// urlPattern matches http(s) and bare www. links up to whitespace, quotes or angle brackets.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+|www\.[^\s<>"']+`)

// NewCitation builds a citation, filling in the default title and text.
func NewCitation(url, title, text string) types.Citation {
	if title == "" {
		title = DefaultCitationTitle
	}
	if text == "" {
		text = DefaultCitationText
	}
	return types.Citation{URL: url, Title: title, Text: text}
}

// FindURLs returns every URL-like substring of text, in order, duplicates included.
// Trailing sentence punctuation and unbalanced closing brackets are dropped, so
// a markdown link such as [go.dev](https://go.dev). yields https://go.dev.
func FindURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := matches[:0]
	for _, m := range matches {
		if m = trimURL(m); m != "" {
			urls = append(urls, m)
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}

const trailingPunct = ".,;:!?"

func trimURL(url string) string {
	for url != "" {
		last := url[len(url)-1]
		switch {
		case strings.IndexByte(trailingPunct, last) >= 0:
		case last == ')' && strings.Count(url, "(") < strings.Count(url, ")"):
		case last == ']' && strings.Count(url, "[") < strings.Count(url, "]"):
		default:
			return url
		}
		url = url[:len(url)-1]
	}
	return url
}

// ExtractCitations returns existing with duplicate urls removed, followed by a
// synthesized citation for each URL in text that is not already listed.
// The result never holds two citations with the same url, so feeding it back
// in with the same text returns it unchanged.
func ExtractCitations(text string, existing []types.Citation) []types.Citation {
	citations := make([]types.Citation, 0, len(existing))
	seen := make(map[string]struct{}, len(existing))

	add := func(c types.Citation) {
		if _, ok := seen[c.URL]; ok {
			return
		}
		seen[c.URL] = struct{}{}
		citations = append(citations, c)
	}

	for _, c := range existing {
		add(c)
	}
	for _, url := range FindURLs(text) {
		add(NewCitation(url, "", ""))
	}

	return citations
}
