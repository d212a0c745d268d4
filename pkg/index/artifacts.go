package index

import (
	"encoding/gob"
	"os"
	"path"

	"linksearch/pkg/utils/sys"
)

// Artifact file names inside an index directory. The posting file is
// binary (term, postings, end marker, sorted by term); everything else
// is gob.
const (
	FileTermList = "term_list"
	FileTermPos  = "term_pos"
	FileVocab    = "vocab"
	FileDocFreq  = "doc_freq"
	FileVectors  = "doc_vectors"
	FileNorms    = "doc_norms"
	FilePageRank = "pagerank"
	FileDocMeta  = "doc_meta"
)

// Artifacts is the persisted output of one build, minus the posting
// file itself, which the query engine reads by byte offset.
type Artifacts struct {
	Vocab   *Vocabulary
	Docs    *DocStats
	DocFreq []int
	Vectors []map[int]float64
	Norms   []float64
	Ranks   []float64
	TermPos map[string]int
}

func writeGob(file string, v any) error {
	f, err := sys.CreateFile(file)
	if err != nil {
		return err
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readGob(file string, v any) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	return dec.Decode(v)
}

// WriteSideFiles persists every gob artifact into dir. The term_list
// posting file is written separately during the merge.
func (a *Artifacts) WriteSideFiles(dir string) error {
	if err := writeGob(path.Join(dir, FileVocab), a.Vocab); err != nil {
		return err
	}
	if err := writeGob(path.Join(dir, FileDocFreq), a.DocFreq); err != nil {
		return err
	}
	if err := writeGob(path.Join(dir, FileVectors), a.Vectors); err != nil {
		return err
	}
	if err := writeGob(path.Join(dir, FileNorms), a.Norms); err != nil {
		return err
	}
	if err := writeGob(path.Join(dir, FilePageRank), a.Ranks); err != nil {
		return err
	}
	if err := writeGob(path.Join(dir, FileDocMeta), a.Docs); err != nil {
		return err
	}
	return writeGob(path.Join(dir, FileTermPos), a.TermPos)
}

// LoadArtifacts reads every gob artifact from dir. A missing file
// surfaces as the underlying os error so callers can distinguish "not
// built yet" from a corrupt set.
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{
		Vocab:   NewVocabulary(),
		Docs:    NewDocStats(),
		TermPos: map[string]int{},
	}

	if err := readGob(path.Join(dir, FileVocab), a.Vocab); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FileDocFreq), &a.DocFreq); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FileVectors), &a.Vectors); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FileNorms), &a.Norms); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FilePageRank), &a.Ranks); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FileDocMeta), a.Docs); err != nil {
		return nil, err
	}
	if err := readGob(path.Join(dir, FileTermPos), &a.TermPos); err != nil {
		return nil, err
	}

	return a, nil
}
