package parser

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mfonda/simhash"

	"linksearch/pkg/utils/stream"
)

var ErrMalformedPage = errors.New("page file missing url or content")

// RawPage is one fetched page as the external fetcher saved it.
type RawPage struct {
	URL     string   `json:"url"`
	Content string   `json:"content"`
	Links   []string `json:"links"`
}

// Doc is an immutable parsed document. ID is the dense corpus index
// assigned during collection, 0..N-1.
type Doc struct {
	ID      int
	URL     string
	Title   string
	Snippet string
	Tokens  []string
	Links   []string
}

const (
	parseBatch = 100
	snippetLen = 200
)

// ReadPageFiles lists page capture files under srcDir, descending one
// shard level the way the fetcher lays them out. Paths come back
// sorted so document IDs are stable across builds.
func ReadPageFiles(srcDir string) ([]string, error) {
	validFiles := []string{}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if strings.HasSuffix(entry.Name(), ".json") {
				validFiles = append(validFiles, filepath.Join(srcDir, entry.Name()))
			}
			continue
		}

		files, err := os.ReadDir(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if strings.HasSuffix(file.Name(), ".json") {
				validFiles = append(validFiles, filepath.Join(srcDir, entry.Name(), file.Name()))
			}
		}
	}

	log.Printf("Raw page files count: %d\n", len(validFiles))

	return validFiles, nil
}

func ReadRawPages(files []string) []RawPage {
	var pages []RawPage
	for _, file := range files {
		page, err := ReadRawPage(file)
		if err != nil {
			log.Printf("skipping page file %s: %v\n", file, err)
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

func ReadRawPage(file string) (RawPage, error) {
	var page RawPage

	f, err := os.Open(file)
	if err != nil {
		return page, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return page, err
	}

	if err = json.Unmarshal(b, &page); err != nil {
		return page, err
	}

	if page.URL == "" || page.Content == "" {
		return page, ErrMalformedPage
	}

	return page, nil
}

// ParsePage turns a raw capture into a Doc (without an ID). Outbound
// links prefer the fetcher's own link list; older captures fall back
// to an <a href> walk. Links are normalized and deduplicated in order.
func ParsePage(page RawPage) Doc {
	text := CleanText(page.Content)
	tokens := Tokenize(text)

	links := page.Links
	if len(links) == 0 {
		links = ExtractLinks(page.Content)
	}

	seen := map[string]struct{}{}
	normalized := make([]string, 0, len(links))
	for _, link := range links {
		u := NormalizeURL(link)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		normalized = append(normalized, u)
	}

	return Doc{
		URL:     NormalizeURL(page.URL),
		Title:   ExtractTitle(page.Content),
		Snippet: Snippet(text, snippetLen),
		Tokens:  tokens,
		Links:   normalized,
	}
}

func ParsePages(pages []RawPage) []Doc {
	docs := make([]Doc, 0, len(pages))
	for _, page := range pages {
		docs = append(docs, ParsePage(page))
	}
	return docs
}

// ParseDirPages parses page files with a worker pool and feeds Docs to
// the consumer in file order, so IDs and the simhash duplicate drop are
// deterministic regardless of worker scheduling. Batches are sequenced
// and reassembled by the collector before IDs are assigned.
func ParseDirPages(rawFiles []string, workerNum int, consumer stream.Consumer[Doc]) error {
	if workerNum <= 0 {
		workerNum = runtime.NumCPU() * 2
	}

	type fileBatch struct {
		seq   int
		files []string
	}
	type docBatch struct {
		seq  int
		docs []Doc
	}

	batchCh := make(chan fileBatch)
	docCh := make(chan docBatch, workerNum)

	var wg sync.WaitGroup
	wg.Add(workerNum)
	for range workerNum {
		go func() {
			defer wg.Done()
			for b := range batchCh {
				pages := ReadRawPages(b.files)
				docCh <- docBatch{
					seq:  b.seq,
					docs: ParsePages(pages),
				}
			}
		}()
	}

	go func() {
		defer close(batchCh)
		seq := 0
		for len(rawFiles) > 0 {
			n := min(parseBatch, len(rawFiles))
			batchCh <- fileBatch{seq: seq, files: rawFiles[:n]}
			rawFiles = rawFiles[n:]
			seq++
		}
	}()

	go func() {
		defer close(docCh)
		wg.Wait()
	}()

	start := time.Now()
	dupMap := map[uint64][]string{}
	pending := map[int][]Doc{}
	next := 0
	docID := 0
	for b := range docCh {
		pending[b.seq] = b.docs
		for {
			docs, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			for _, doc := range docs {
				// Simhash only buckets candidates: the majority vote
				// collapses any page dominated by one term onto that
				// term's hash, so dropping needs an exact token match.
				key := strings.Join(doc.Tokens, " ")
				hash := simhash.Simhash(simhash.NewWordFeatureSet([]byte(key)))
				if slices.Contains(dupMap[hash], key) {
					continue
				}
				dupMap[hash] = append(dupMap[hash], key)

				doc.ID = docID
				docID++
				consumer.Consume(doc)
			}
		}
	}

	log.Printf(
		"Parse worker count: %d. Docs kept: %d. Using %v\n",
		workerNum, docID, time.Since(start))

	return nil
}
