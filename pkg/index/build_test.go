package index

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"linksearch/pkg/parser"
	"linksearch/pkg/utils/binary"
)

var testOptions = Options{
	Workers:    2,
	Batch:      2,
	Damping:    0.85,
	Iterations: 20,
	Epsilon:    1e-6,
}

func writeTestPage(t *testing.T, dir, name string, page parser.RawPage) {
	t.Helper()
	b, err := json.Marshal(page)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), b, 0644))
}

func buildTestCorpus(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	pagesDir := filepath.Join(root, "pages")
	require.NoError(t, os.Mkdir(pagesDir, 0755))

	writeTestPage(t, pagesDir, "a.json", parser.RawPage{
		URL:     "http://a.test",
		Content: "<html><body>zebra kernel zebra</body></html>",
		Links:   []string{"http://b.test", "http://c.test"},
	})
	writeTestPage(t, pagesDir, "b.json", parser.RawPage{
		URL:     "http://b.test",
		Content: "<html><body>kernel quantum</body></html>",
		Links:   []string{"http://c.test"},
	})
	writeTestPage(t, pagesDir, "c.json", parser.RawPage{
		URL:     "http://c.test",
		Content: "<html><body>zebra</body></html>",
	})

	return pagesDir, filepath.Join(root, "index.data")
}

func TestBuildArtifacts(t *testing.T) {
	pagesDir, indexDir := buildTestCorpus(t)

	summary, err := Build(pagesDir, indexDir, testOptions)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Docs)
	require.Equal(t, 3, summary.Terms)
	require.Equal(t, 5, summary.Postings)
	require.True(t, summary.Converged)

	// The staging directory must not survive a successful swap.
	_, err = os.Stat(indexDir + ".tmp")
	require.True(t, os.IsNotExist(err))

	arts, err := LoadArtifacts(indexDir)
	require.NoError(t, err)
	require.Equal(t, 3, arts.Docs.DocCount)
	require.Equal(t, 3, arts.Vocab.Size())
	require.Equal(t, "http://a.test", arts.Docs.URL(0))
	require.Equal(t, "http://c.test", arts.Docs.URL(2))

	zebraID, ok := arts.Vocab.ID("zebra")
	require.True(t, ok)
	kernelID, ok := arts.Vocab.ID("kernel")
	require.True(t, ok)
	quantumID, ok := arts.Vocab.ID("quantum")
	require.True(t, ok)

	require.Equal(t, 2, arts.DocFreq[zebraID])
	require.Equal(t, 2, arts.DocFreq[kernelID])
	require.Equal(t, 1, arts.DocFreq[quantumID])

	// tf weight 1+ln(f), idf ln(N/df).
	wantZebra := (1 + math.Log(2)) * math.Log(3.0/2.0)
	require.InDelta(t, wantZebra, arts.Vectors[0][zebraID], 1e-12)
	require.InDelta(t, math.Log(3.0), arts.Vectors[1][quantumID], 1e-12)
	require.NotContains(t, arts.Vectors[2], kernelID)

	for docID, vec := range arts.Vectors {
		sum := 0.0
		for _, w := range vec {
			require.Greater(t, w, 0.0)
			sum += w * w
		}
		require.InDelta(t, math.Sqrt(sum), arts.Norms[docID], 1e-12)
	}

	total := 0.0
	for _, r := range arts.Ranks {
		require.Greater(t, r, 0.0)
		total += r
	}
	require.InDelta(t, 1.0, total, 1e-9)
	// c is linked from both a and b, so it carries the most authority.
	require.Greater(t, arts.Ranks[2], arts.Ranks[0])
	require.Greater(t, arts.Ranks[2], arts.Ranks[1])
}

func TestBuildTermPosOffsets(t *testing.T) {
	pagesDir, indexDir := buildTestCorpus(t)

	_, err := Build(pagesDir, indexDir, testOptions)
	require.NoError(t, err)

	arts, err := LoadArtifacts(indexDir)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(indexDir, FileTermList))
	require.NoError(t, err)
	defer f.Close()

	for _, term := range []string{"kernel", "quantum", "zebra"} {
		pos, ok := arts.TermPos[term]
		require.True(t, ok)

		_, err = f.Seek(int64(pos), 0)
		require.NoError(t, err)

		listIter, err := ReadInvertedList(binary.NewBufferedByteReader(f))
		require.NoError(t, err)
		require.Equal(t, term, listIter.Term)

		termID, _ := arts.Vocab.ID(term)
		postings := CollectInvertedList(listIter)
		require.Len(t, postings, arts.DocFreq[termID])
	}
}

func TestBuildDeterministic(t *testing.T) {
	pagesDir, indexDir := buildTestCorpus(t)

	_, err := Build(pagesDir, indexDir, testOptions)
	require.NoError(t, err)
	first, err := LoadArtifacts(indexDir)
	require.NoError(t, err)

	_, err = Build(pagesDir, indexDir, testOptions)
	require.NoError(t, err)
	second, err := LoadArtifacts(indexDir)
	require.NoError(t, err)

	require.Equal(t, first.Vocab, second.Vocab)
	require.Equal(t, first.DocFreq, second.DocFreq)
	require.Equal(t, first.Vectors, second.Vectors)
	require.Equal(t, first.Ranks, second.Ranks)
	require.Equal(t, first.TermPos, second.TermPos)
}

func TestBuildEmptyCorpus(t *testing.T) {
	root := t.TempDir()
	pagesDir := filepath.Join(root, "pages")
	require.NoError(t, os.Mkdir(pagesDir, 0755))

	_, err := Build(pagesDir, filepath.Join(root, "index.data"), testOptions)
	require.ErrorIs(t, err, ErrNoDocuments)
}

func TestBuildSingleDoc(t *testing.T) {
	root := t.TempDir()
	pagesDir := filepath.Join(root, "pages")
	require.NoError(t, os.Mkdir(pagesDir, 0755))
	writeTestPage(t, pagesDir, "only.json", parser.RawPage{
		URL:     "http://only.test",
		Content: "<html><body>solitary zebra</body></html>",
	})
	indexDir := filepath.Join(root, "index.data")

	summary, err := Build(pagesDir, indexDir, testOptions)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Docs)

	arts, err := LoadArtifacts(indexDir)
	require.NoError(t, err)

	// With N=1 every idf is 0, so the document vector is empty.
	require.Len(t, arts.Vectors, 1)
	require.Empty(t, arts.Vectors[0])
	require.Equal(t, []float64{0}, arts.Norms)
	require.Equal(t, []float64{1}, arts.Ranks)
	require.Equal(t, []int{1, 1}, arts.DocFreq)
}
