package index

import (
	"iter"
	"slices"

	pq "github.com/emirpasic/gods/v2/queues/priorityqueue"
)

func InMemoryMergePartialIndexes(indexes ...PartialIndex) PartialIndex {
	index := PartialIndex{}
	if len(indexes) == 0 {
		return index
	}
	if len(indexes) == 1 {
		return indexes[0]
	}

	for i := 0; i < len(indexes); i++ {
		for term, postings := range indexes[i] {
			index[term] = append(index[term], postings...)
		}
	}

	for term, postings := range index {
		slices.SortFunc(postings, SortPostingsComparator())
		index[term] = postings
	}

	return index
}

// KwayMergeReader merges sorted partial index iterators into one
// stream of inverted lists in ascending term order. Lists sharing a
// term are merged posting-by-posting via KwayMergeWriter.
func KwayMergeReader(indexIters []PartialIndexIter) PartialIndexIter {
	type Item struct {
		ID       int
		ListIter InvertedListIter
	}

	comparator := func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		} else {
			return 0
		}
	}

	iterFunc := func(yield func(int, InvertedListIter) bool) {
		defer func() {
			for _, indexIter := range indexIters {
				indexIter.Stop()
			}
		}()

		readerQ := pq.NewWith(comparator)
		itemMap := map[string][]Item{}
		for i, indexIter := range indexIters {
			_, listIter, ok := indexIter.Next()
			if !ok {
				continue
			}

			term := listIter.Term
			if len(itemMap[term]) == 0 {
				readerQ.Enqueue(term)
			}
			itemMap[term] = append(itemMap[term], Item{
				ID:       i,
				ListIter: listIter,
			})
		}

		count := 0
		for !readerQ.Empty() {
			term, ok := readerQ.Dequeue()
			if !ok {
				break
			}

			items := itemMap[term]
			listIters := []InvertedListIter{}
			for _, item := range items {
				listIters = append(listIters, item.ListIter)
			}
			outListIter := KwayMergeWriter(listIters)

			if !yield(count, outListIter) {
				break
			}
			count++
			delete(itemMap, term)

			for _, item := range items {
				_, listIter, ok := indexIters[item.ID].Next()
				if !ok {
					continue
				}

				term := listIter.Term
				if len(itemMap[term]) == 0 {
					readerQ.Enqueue(term)
				}
				itemMap[term] = append(itemMap[term], Item{
					ID:       item.ID,
					ListIter: listIter,
				})
			}
		}
	}

	var outIter PartialIndexIter
	next, stop := iter.Pull2(iterFunc)
	outIter.Next = next
	outIter.Stop = stop

	return outIter
}

// KwayMergeWriter merges posting iterators for a single term into one
// docID-ordered stream. Batches never share a docID, so no combining
// of frequencies is needed.
func KwayMergeWriter(listIters []InvertedListIter) InvertedListIter {
	type Item struct {
		ID      int
		Posting Posting
	}

	comparator := func(item1, item2 Item) int {
		return SortPostingsComparator()(item1.Posting, item2.Posting)
	}

	iterFunc := func(yield func(int, Posting) bool) {
		if len(listIters) == 0 {
			return
		}

		listMap := map[int]InvertedListIter{}
		writerQ := pq.NewWith(comparator)
		for i, listIter := range listIters {
			defer listIter.Stop()
			listMap[i] = listIter
			_, posting, ok := listIter.Next()
			if !ok {
				continue
			}
			writerQ.Enqueue(Item{
				ID:      i,
				Posting: posting,
			})
		}

		count := 0
		for !writerQ.Empty() {
			item, ok := writerQ.Dequeue()
			if !ok {
				break
			}

			if !yield(count, item.Posting) {
				break
			}
			count++

			_, posting, ok := listMap[item.ID].Next()
			if !ok {
				continue
			}
			writerQ.Enqueue(Item{
				ID:      item.ID,
				Posting: posting,
			})
		}
	}

	var outIter InvertedListIter
	if len(listIters) > 0 {
		outIter.Term = listIters[0].Term
	}

	next, stop := iter.Pull2(iterFunc)
	outIter.Next = next
	outIter.Stop = stop

	return outIter
}
