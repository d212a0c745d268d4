package engine

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
)

const maxSuggestions = 8

// Run starts an interactive query loop over the active snapshot.
// Completions come from the indexed vocabulary.
func (eg *Engine) Run(k int) {
	executor := func(in string) {
		in = strings.TrimSpace(in)
		if in == "" {
			return
		}

		start := time.Now()
		results, err := eg.Search(in, k)
		if err != nil {
			log.Println(err)
			return
		}
		if len(results) == 0 {
			fmt.Println("No results.")
			return
		}

		for i, r := range results {
			fmt.Printf("%2d) %s\n    %s\n    score=%.4f cosine=%.4f pagerank=%.4f\n",
				i+1, r.Title, r.URL, r.Score, r.Cosine, r.PageRank)
		}
		fmt.Printf("%d results in %v\n\n", len(results), time.Since(start))
	}

	completer := func(d prompt.Document) []prompt.Suggest {
		word := strings.ToLower(d.GetWordBeforeCursor())
		if len(word) < 2 {
			return nil
		}
		snap := eg.snap.Load()
		if snap == nil {
			return nil
		}

		matches := []string{}
		for _, term := range snap.arts.Vocab.Terms {
			if strings.HasPrefix(term, word) {
				matches = append(matches, term)
			}
		}
		sort.Strings(matches)
		if len(matches) > maxSuggestions {
			matches = matches[:maxSuggestions]
		}

		suggests := make([]prompt.Suggest, 0, len(matches))
		for _, term := range matches {
			suggests = append(suggests, prompt.Suggest{Text: term})
		}
		return suggests
	}

	p := prompt.New(
		executor,
		completer,
		prompt.OptionTitle("linksearch"),
		prompt.OptionPrefix("search> "),
	)
	p.Run()
}
