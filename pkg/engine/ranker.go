package engine

import (
	"cmp"
	"errors"
	"math"

	pq "github.com/emirpasic/gods/v2/queues/priorityqueue"
)

type queryTerm struct {
	term   string
	id     int
	weight float64
}

// queryVector weights the query as a one-document corpus against the
// persisted document-frequency table: (1+ln(tf)) * ln(N/df). Unknown
// terms are dropped; a known term with idf 0 stays, weightless, so
// its postings still nominate candidates.
func (s *Snapshot) queryVector(tokens []string) ([]queryTerm, float64) {
	freqs := map[string]int{}
	order := []string{}
	for _, token := range tokens {
		if _, ok := freqs[token]; !ok {
			order = append(order, token)
		}
		freqs[token]++
	}

	totalDocs := float64(s.arts.Docs.DocCount)
	var terms []queryTerm
	sumSq := 0.0
	for _, term := range order {
		id, ok := s.arts.Vocab.ID(term)
		if !ok {
			continue
		}
		idf := math.Log(totalDocs / float64(s.arts.DocFreq[id]))
		w := (1 + math.Log(float64(freqs[term]))) * idf
		terms = append(terms, queryTerm{
			term:   term,
			id:     id,
			weight: w,
		})
		sumSq += w * w
	}

	return terms, math.Sqrt(sumSq)
}

// cosineScores computes cosine similarity for every document sharing
// at least one query term. A zero norm product defines similarity 0
// rather than dividing by it.
func (s *Snapshot) cosineScores(terms []queryTerm, qnorm float64) (map[int]float64, error) {
	dots := map[int]float64{}
	for _, qt := range terms {
		list, err := s.cache.Get(qt.term)
		if err != nil {
			if errors.Is(err, ErrCacheEntryNotFound) {
				continue
			}
			return nil, err
		}

		for _, posting := range list.Postings {
			if _, ok := dots[posting.DocID]; !ok {
				dots[posting.DocID] = 0
			}
			if qt.weight == 0 {
				continue
			}
			dots[posting.DocID] += qt.weight * s.arts.Vectors[posting.DocID][qt.id]
		}
	}

	cosines := make(map[int]float64, len(dots))
	for docID, dot := range dots {
		denom := qnorm * s.arts.Norms[docID]
		if denom == 0 {
			cosines[docID] = 0
			continue
		}
		cosines[docID] = dot / denom
	}

	return cosines, nil
}

// rank combines cosine and PageRank into the final score and returns
// the top k, ordered by score descending with docID breaking ties.
// The relevance threshold is skipped when the query norm is zero (a
// degenerate corpus where every idf is 0): candidates then tie on
// cosine 0 and PageRank alone orders them.
func (s *Snapshot) rank(cosines map[int]float64, qnorm float64, k int) []Result {
	comparator := func(r1, r2 Result) int {
		if r := cmp.Compare(r2.Score, r1.Score); r != 0 {
			return r
		}
		return cmp.Compare(r1.DocID, r2.DocID)
	}

	applyThreshold := qnorm > 0
	rankQ := pq.NewWith(comparator)
	for docID, cosine := range cosines {
		if applyThreshold && cosine < s.cfg.RelevanceThreshold {
			continue
		}
		rank := s.arts.Ranks[docID]
		rankQ.Enqueue(Result{
			DocID:    docID,
			URL:      s.arts.Docs.URL(docID),
			Title:    s.arts.Docs.Titles[docID],
			Snippet:  s.arts.Docs.Snippets[docID],
			Score:    s.cfg.WeightCosine*cosine + s.cfg.WeightPageRank*rank,
			Cosine:   cosine,
			PageRank: rank,
		})
	}

	results := []Result{}
	for len(results) < k {
		result, ok := rankQ.Dequeue()
		if !ok {
			break
		}
		results = append(results, result)
	}
	return results
}
