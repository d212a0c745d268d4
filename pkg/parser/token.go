package parser

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/surgebase/porter2"
)

// Token policy is fixed: lowercase alphanumeric runs with interior
// apostrophes, apostrophes stripped after segmentation, stopwords
// removed, Porter2 stems kept when 2..50 runes long. Pure-numeric
// tokens stay (course codes, model numbers).
const (
	MinTermLen = 2
	MaxTermLen = 50
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "why": {}, "how": {}, "their": {},
	"if": {}, "each": {}, "do": {}, "does": {}, "did": {},
	"not": {}, "no": {}, "nor": {}, "so": {}, "can": {},
	"all": {}, "any": {}, "both": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "than": {}, "too": {},
	"very": {}, "own": {}, "same": {}, "only": {}, "she": {},
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)*`)

// CleanText strips tags and entities from raw HTML and collapses
// whitespace, leaving plain renderable text.
func CleanText(s string) string {
	p := bluemonday.StripTagsPolicy()
	content := p.Sanitize(s)
	content = html.UnescapeString(content)
	return strings.Join(strings.Fields(content), " ")
}

// Tokenize turns plain text into the normalized term stream used by
// both indexing and query processing.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	words := tokenRe.FindAllString(s, -1)

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ReplaceAll(word, "'", "")
		if _, ok := stopWords[word]; ok {
			continue
		}
		stem := porter2.Stem(word)
		if len(stem) < MinTermLen || len(stem) > MaxTermLen {
			continue
		}
		tokens = append(tokens, stem)
	}
	return tokens
}

// ExtractTitle returns the text of the first <title> element, or
// "Untitled" when the document has none.
func ExtractTitle(s string) string {
	doc, err := xhtml.Parse(strings.NewReader(s))
	if err != nil {
		return "Untitled"
	}

	var title string
	var crawl func(node *xhtml.Node)
	crawl = func(node *xhtml.Node) {
		if title != "" {
			return
		}
		if node.Type == xhtml.ElementNode && node.Data == "title" {
			if node.FirstChild != nil && node.FirstChild.Type == xhtml.TextNode {
				title = strings.Join(strings.Fields(node.FirstChild.Data), " ")
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			crawl(c)
		}
	}

	crawl(doc)
	if title == "" {
		return "Untitled"
	}
	return title
}

// ExtractLinks collects absolute <a href> targets from raw HTML. Used
// as a fallback for captures that predate the fetcher's links field.
func ExtractLinks(s string) []string {
	doc, err := xhtml.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var links []string
	var crawl func(node *xhtml.Node)
	crawl = func(node *xhtml.Node) {
		if node.Type == xhtml.ElementNode && node.Data == "a" {
			for _, attr := range node.Attr {
				if attr.Key == "href" {
					if u := NormalizeURL(attr.Val); u != "" {
						links = append(links, u)
					}
					break
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			crawl(c)
		}
	}

	crawl(doc)
	return links
}

// NormalizeURL canonicalizes a URL so outbound links can be matched
// against corpus document URLs: fragment dropped, host lowercased,
// trailing slash trimmed. Returns "" for non-absolute or unparsable
// input.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// Snippet returns the first n runes of text, cut at a word boundary.
func Snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut
}
