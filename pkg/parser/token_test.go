package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeNormalization(t *testing.T) {
	tokens := Tokenize("The Running CATS are learning")
	require.Equal(t, []string{"run", "cat", "learn"}, tokens)
}

func TestTokenizeStopwordsAndLength(t *testing.T) {
	// Stopwords and single-rune leftovers are dropped, numerics stay.
	tokens := Tokenize("a the x 42 cs161")
	require.Equal(t, []string{"42", "cs161"}, tokens)
}

func TestTokenizeApostrophes(t *testing.T) {
	tokens := Tokenize("don't panic, O'Brien's code")
	require.Equal(t, []string{"dont", "panic", "obrien", "code"}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	require.Empty(t, Tokenize(""))
	require.Empty(t, Tokenize("?!... --- ,,,"))
	require.Empty(t, Tokenize("the and of"))
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "Graph algorithms and data structures for search engines"
	first := Tokenize(text)
	for range 5 {
		require.Equal(t, first, Tokenize(text))
	}
}

func TestCleanText(t *testing.T) {
	clean := CleanText("<html><body><p>Hello   <b>world</b></p><script>var x;</script></body></html>")
	require.Equal(t, "Hello world", clean)
}

func TestCleanTextEntities(t *testing.T) {
	clean := CleanText("<p>fish &amp; chips</p>")
	require.Equal(t, "fish & chips", clean)
}

func TestExtractTitle(t *testing.T) {
	html := "<html><head><title>  Data   Structures  </title></head><body>x</body></html>"
	require.Equal(t, "Data Structures", ExtractTitle(html))
}

func TestExtractTitleMissing(t *testing.T) {
	require.Equal(t, "Untitled", ExtractTitle("<html><body>no title here</body></html>"))
}

func TestExtractLinks(t *testing.T) {
	html := `<html><body>
		<a href="http://example.com/a#section">a</a>
		<a href="https://Example.COM/b/">b</a>
		<a href="mailto:x@example.com">mail</a>
		<a href="/relative">rel</a>
	</body></html>`
	links := ExtractLinks(html)
	require.Equal(t, []string{"http://example.com/a", "https://example.com/b"}, links)
}

func TestNormalizeURL(t *testing.T) {
	require.Equal(t, "http://example.com/a", NormalizeURL("http://EXAMPLE.com/a/#frag"))
	require.Equal(t, "https://example.com", NormalizeURL("https://example.com/"))
	require.Equal(t, "", NormalizeURL("ftp://example.com/file"))
	require.Equal(t, "", NormalizeURL("not a url at all ::"))
	require.Equal(t, "", NormalizeURL("/relative/path"))
}

func TestSnippet(t *testing.T) {
	require.Equal(t, "short text", Snippet("short text", 200))

	long := "alpha beta gamma delta epsilon"
	cut := Snippet(long, 17)
	require.Equal(t, "alpha beta gamma", cut)
}
