package index

import (
	"cmp"
	"errors"
	"io"
	"iter"
	"log"
	"os"

	"linksearch/pkg/utils/binary"
)

var ErrPostingListEnd = errors.New("posting list ends")

// postingListEnd terminates a list on disk; valid docIDs are >= 0.
const postingListEnd = -1

// Posting records one document's raw term frequency for a term.
// Within a posting list, docIDs are strictly increasing.
type Posting struct {
	DocID int
	Freq  int
}

func ReadPosting(br *binary.ByteReader) (Posting, error) {
	var posting Posting

	docID, err := br.ReadInt()
	if err != nil {
		return posting, err
	}
	if docID == postingListEnd {
		return posting, ErrPostingListEnd
	}
	posting.DocID = docID

	freq, err := br.ReadInt()
	if err != nil {
		return posting, err
	}
	posting.Freq = freq

	return posting, nil
}

func WritePosting(bw *binary.ByteWriter, posting Posting) error {
	if err := bw.WriteInt(posting.DocID); err != nil {
		return err
	}
	return bw.WriteInt(posting.Freq)
}

func WritePostingListEnd(bw *binary.ByteWriter) error {
	return bw.WriteInt(postingListEnd)
}

func PostingsIterator(br *binary.ByteReader) iter.Seq2[int, Posting] {
	return func(yield func(int, Posting) bool) {
		count := 0
		for {
			posting, err := ReadPosting(br)
			if err == ErrPostingListEnd {
				break
			}
			if err != nil {
				log.Fatalf("failed to read posting: %v", err)
			}

			if !yield(count, posting) {
				return
			}
			count++
		}
	}
}

func SortPostingsComparator() func(Posting, Posting) int {
	return func(p1, p2 Posting) int {
		if r := cmp.Compare(p1.DocID, p2.DocID); r != 0 {
			return r
		}
		return cmp.Compare(p1.Freq, p2.Freq)
	}
}

type InvertedList struct {
	Term     string
	Postings []Posting
}

type InvertedListIter struct {
	Term string
	Next func() (int, Posting, bool)
	Stop func()
}

func InvertedListIterator(term string, postings []Posting) InvertedListIter {
	var listIter InvertedListIter
	listIter.Term = term

	iterFunc := func(yield func(int, Posting) bool) {
		count := 0
		for _, posting := range postings {
			if !yield(count, posting) {
				return
			}
			count++
		}
	}

	next, stop := iter.Pull2(iterFunc)
	listIter.Next = next
	listIter.Stop = stop

	return listIter
}

func CollectInvertedList(listIter InvertedListIter) []Posting {
	defer listIter.Stop()
	var postings []Posting

	for {
		_, posting, ok := listIter.Next()
		if !ok {
			break
		}
		postings = append(postings, posting)
	}

	return postings
}

func ReadInvertedList(br *binary.ByteReader) (InvertedListIter, error) {
	var list InvertedListIter
	term, err := br.ReadString()
	if err != nil {
		return list, err
	}
	list.Term = term

	postingIter := PostingsIterator(br)
	next, stop := iter.Pull2(postingIter)
	list.Next = next
	list.Stop = stop

	return list, nil
}

func FileInvertedListIterator(fileName string) iter.Seq2[int, InvertedListIter] {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal("failed to open file:", err)
	}

	count := 0
	br := binary.NewBufferedByteReader(f)
	return func(yield func(int, InvertedListIter) bool) {
		defer f.Close()
		for {
			list, err := ReadInvertedList(br)
			if err == io.EOF {
				break
			}
			if err != nil {
				log.Fatal("failed to read inverted list:", err)
			}
			if !yield(count, list) {
				return
			}
			count++
		}
	}
}
