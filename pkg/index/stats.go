package index

import "linksearch/pkg/parser"

// Vocabulary assigns dense term IDs in first-seen order over the
// document stream. Since documents are consumed in ID order, the
// assignment is deterministic for a fixed corpus.
type Vocabulary struct {
	IDs   map[string]int
	Terms []string
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		IDs: map[string]int{},
	}
}

// Add returns the term's ID, assigning the next free one on first use.
func (v *Vocabulary) Add(term string) int {
	if id, ok := v.IDs[term]; ok {
		return id
	}
	id := len(v.Terms)
	v.IDs[term] = id
	v.Terms = append(v.Terms, term)
	return id
}

func (v *Vocabulary) ID(term string) (int, bool) {
	id, ok := v.IDs[term]
	return id, ok
}

func (v *Vocabulary) Size() int {
	return len(v.Terms)
}

// DocStats is the per-document metadata kept for result rendering and
// link resolution. Slices are indexed by docID; AddDoc relies on
// documents arriving in ID order.
type DocStats struct {
	DocCount   int
	URLs       []string
	Titles     []string
	Snippets   []string
	TermCounts []int
	URLToID    map[string]int
}

func NewDocStats() *DocStats {
	return &DocStats{
		URLToID: map[string]int{},
	}
}

func (stats *DocStats) AddDoc(doc parser.Doc) {
	stats.DocCount++
	stats.URLs = append(stats.URLs, doc.URL)
	stats.Titles = append(stats.Titles, doc.Title)
	stats.Snippets = append(stats.Snippets, doc.Snippet)
	stats.TermCounts = append(stats.TermCounts, len(doc.Tokens))
	stats.URLToID[doc.URL] = doc.ID
}

// URL returns "" for an unknown docID.
func (stats *DocStats) URL(docID int) string {
	if docID < 0 || docID >= len(stats.URLs) {
		return ""
	}
	return stats.URLs[docID]
}

func (stats *DocStats) DocLen(docID int) int {
	if docID < 0 || docID >= len(stats.TermCounts) {
		return 0
	}
	return stats.TermCounts[docID]
}

func (stats *DocStats) AvgTermPerDoc() float64 {
	if stats.DocCount == 0 {
		return 0
	}
	total := 0
	for _, count := range stats.TermCounts {
		total += count
	}
	return float64(total) / float64(stats.DocCount)
}

// BuildStats is everything the posting pass accumulates besides the
// partial indexes themselves.
type BuildStats struct {
	Vocab    *Vocabulary
	Docs     *DocStats
	Outlinks [][]string
}

func NewBuildStats() *BuildStats {
	return &BuildStats{
		Vocab: NewVocabulary(),
		Docs:  NewDocStats(),
	}
}
