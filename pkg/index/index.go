package index

import (
	"errors"
	"io"
	"iter"
	"os"
	"slices"
	"sort"

	"linksearch/pkg/parser"
	"linksearch/pkg/utils/binary"
	"linksearch/pkg/utils/stream"
)

var ErrNoDocuments = errors.New("no documents to index")

// PartialIndex maps a term to its postings for one batch of documents.
// Batches cover disjoint, ascending docID ranges, so every list is
// already sorted by docID.
type PartialIndex map[string][]Posting

// SortedIter iterates the index's inverted lists in ascending term
// order, postings sorted by docID.
func (p PartialIndex) SortedIter() PartialIndexIter {
	var outIter PartialIndexIter

	iterFunc := func(yield func(int, InvertedListIter) bool) {
		terms := []string{}
		for term := range p {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		for i, term := range terms {
			slices.SortFunc(p[term], SortPostingsComparator())
			listIter := InvertedListIterator(term, p[term])
			if !yield(i, listIter) {
				return
			}
		}
	}

	next, stop := iter.Pull2(iterFunc)
	outIter.Next = next
	outIter.Stop = stop

	return outIter
}

type PartialIndexIter struct {
	Next func() (int, InvertedListIter, bool)
	Stop func()
}

func FilePartialIndexIterator(file string) PartialIndexIter {
	var indexIter PartialIndexIter
	listIter := FileInvertedListIterator(file)
	next, stop := iter.Pull2(listIter)
	indexIter.Next = next
	indexIter.Stop = stop
	return indexIter
}

func ReadFilePartialIndex(file string) (PartialIndex, error) {
	f, err := os.Open(file)
	if err != nil {
		return PartialIndex{}, err
	}

	br := binary.NewBufferedByteReader(f)
	return ReadPartialIndex(br)
}

func ReadPartialIndex(br *binary.ByteReader) (PartialIndex, error) {
	index := PartialIndex{}

	for {
		term, err := br.ReadString()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		for {
			posting, err := ReadPosting(br)
			if err == ErrPostingListEnd {
				break
			}
			if err != nil {
				return nil, err
			}
			index[term] = append(index[term], posting)
		}
	}

	return index, nil
}

func WritePartialIndex(bw *binary.ByteWriter, index PartialIndex) error {
	indexIter := index.SortedIter()
	defer indexIter.Stop()

	for {
		_, listIter, ok := indexIter.Next()
		if !ok {
			return nil
		}

		if err := bw.WriteString(listIter.Term); err != nil {
			listIter.Stop()
			return err
		}
		for {
			_, posting, ok := listIter.Next()
			if !ok {
				break
			}
			if err := WritePosting(bw, posting); err != nil {
				listIter.Stop()
				return err
			}
		}
		listIter.Stop()

		if err := WritePostingListEnd(bw); err != nil {
			return err
		}
	}
}

// ParsePostings folds one document into a partial index: term
// frequencies are counted over the token stream, vocabulary IDs are
// assigned first-seen in text order, and one posting per distinct term
// is appended.
func ParsePostings(doc parser.Doc, index PartialIndex, bs *BuildStats) {
	bs.Docs.AddDoc(doc)
	bs.Outlinks = append(bs.Outlinks, doc.Links)

	freqs := map[string]int{}
	for _, token := range doc.Tokens {
		bs.Vocab.Add(token)
		freqs[token]++
	}

	for term, freq := range freqs {
		index[term] = append(index[term], Posting{
			DocID: doc.ID,
			Freq:  freq,
		})
	}
}

// BuildPartialIndex consumes the full document stream in ID order,
// emitting one partial index per batch of documents and, at the end,
// the accumulated build stats.
func BuildPartialIndex(batch int, producer stream.Producer[parser.Doc], indexConsumer stream.Consumer[PartialIndex], statsConsumer stream.Consumer[*BuildStats]) {
	bs := NewBuildStats()
	defer func() {
		statsConsumer.Consume(bs)
	}()

	count := 0
	index := PartialIndex{}
	for {
		doc, ok := producer.Produce()
		if !ok {
			if count != 0 {
				indexConsumer.Consume(index)
			}
			break
		}

		ParsePostings(doc, index, bs)

		count++
		if count == batch {
			indexConsumer.Consume(index)
			count = 0
			index = PartialIndex{}
		}
	}
}
