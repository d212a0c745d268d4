package index

import (
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"linksearch/pkg/pagerank"
	"linksearch/pkg/parser"
	"linksearch/pkg/utils/binary"
	"linksearch/pkg/utils/stream"
	"linksearch/pkg/utils/sys"
	"linksearch/pkg/utils/units"
)

type Options struct {
	Workers    int
	Batch      int
	Damping    float64
	Iterations int
	Epsilon    float64
}

type Summary struct {
	Docs               int
	Terms              int
	Postings           int
	PageRankIterations int
	Converged          bool
	Elapsed            time.Duration
}

// Build runs the whole offline phase: parse pages under srcDir, build
// the inverted index and TF-IDF vectors, compute PageRank over the
// link graph, and write the artifact set. Everything lands in
// dstDir+".tmp" first and replaces dstDir only once complete, so a
// failed build leaves the previous artifacts live.
func Build(srcDir, dstDir string, opts Options) (*Summary, error) {
	start := time.Now()

	rawFiles, err := parser.ReadPageFiles(srcDir)
	if err != nil {
		return nil, err
	}
	sort.Strings(rawFiles)
	if len(rawFiles) == 0 {
		return nil, ErrNoDocuments
	}

	tmpDir := dstDir + ".tmp"
	if err := sys.CreateDir(tmpDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	runDir := path.Join(tmpDir, "runs")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	docCh := make(chan parser.Doc)
	indexCh := make(chan PartialIndex)
	statsConsumer := stream.NewArrayConsumer[*BuildStats]()

	var g errgroup.Group
	g.Go(func() error {
		defer close(docCh)
		return parser.ParseDirPages(rawFiles, opts.Workers, stream.NewChannelConsumer(docCh))
	})
	g.Go(func() error {
		defer close(indexCh)
		BuildPartialIndex(opts.Batch, stream.NewChannelProducer(docCh), stream.NewChannelConsumer(indexCh), statsConsumer)
		return nil
	})

	// Keep draining on error so the pipeline goroutines can finish.
	var files []string
	var runErr error
	for partial := range indexCh {
		if runErr != nil {
			continue
		}
		name, err := writeRun(runDir, partial)
		if err != nil {
			runErr = err
			continue
		}
		files = append(files, name)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}

	bs := statsConsumer.Collect()[0]
	n := bs.Docs.DocCount
	if n == 0 {
		return nil, ErrNoDocuments
	}

	indexIters := []PartialIndexIter{}
	for _, file := range files {
		indexIters = append(indexIters, FilePartialIndexIterator(file))
	}

	outFile, err := sys.CreateFile(path.Join(tmpDir, FileTermList))
	if err != nil {
		return nil, err
	}
	bufWriter := binary.NewBufferedWriteCloser(outFile)
	bw := binary.NewByteWriter(bufWriter)

	docFreq := make([]int, bs.Vocab.Size())
	vectors := make([]map[int]float64, n)
	for i := range vectors {
		vectors[i] = map[int]float64{}
	}
	termPos := map[string]int{}
	totalDocs := float64(n)

	outIter := KwayMergeReader(indexIters)
	defer outIter.Stop()
	postingCount := 0
	termCount := 0
	pos := 0
	for {
		_, listIter, ok := outIter.Next()
		if !ok {
			break
		}
		termCount++

		termID, known := bs.Vocab.ID(listIter.Term)
		if !known {
			return nil, fmt.Errorf("merged term %q missing from vocabulary", listIter.Term)
		}
		termPos[listIter.Term] = pos

		if err := bw.WriteString(listIter.Term); err != nil {
			return nil, err
		}

		postings := []Posting{}
		for {
			_, posting, ok := listIter.Next()
			if !ok {
				break
			}
			postingCount++
			if err := WritePosting(bw, posting); err != nil {
				return nil, err
			}
			postings = append(postings, posting)
		}
		listIter.Stop()

		if err := WritePostingListEnd(bw); err != nil {
			return nil, err
		}

		df := len(postings)
		docFreq[termID] = df
		idf := math.Log(totalDocs / float64(df))
		if idf > 0 {
			for _, p := range postings {
				vectors[p.DocID][termID] = (1 + math.Log(float64(p.Freq))) * idf
			}
		}
		pos = bufWriter.Total()
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}

	listStat, err := os.Stat(path.Join(tmpDir, FileTermList))
	if err != nil {
		return nil, err
	}

	norms := make([]float64, n)
	for docID, vec := range vectors {
		sum := 0.0
		for _, w := range vec {
			sum += w * w
		}
		norms[docID] = math.Sqrt(sum)
	}

	graph := pagerank.BuildGraph(bs.Outlinks, bs.Docs.URLToID)
	res := graph.Rank(opts.Damping, opts.Iterations, opts.Epsilon)
	if !res.Converged {
		log.Printf(
			"pagerank hit the iteration cap (%d) with L1 delta %.3g above %.3g; keeping the last vector\n",
			res.Iterations, res.Delta, opts.Epsilon)
	}

	arts := &Artifacts{
		Vocab:   bs.Vocab,
		Docs:    bs.Docs,
		DocFreq: docFreq,
		Vectors: vectors,
		Norms:   norms,
		Ranks:   res.Ranks,
		TermPos: termPos,
	}
	if err := arts.WriteSideFiles(tmpDir); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(runDir); err != nil {
		return nil, err
	}
	if err := sys.ReplaceDir(tmpDir, dstDir); err != nil {
		return nil, err
	}

	summary := &Summary{
		Docs:               n,
		Terms:              termCount,
		Postings:           postingCount,
		PageRankIterations: res.Iterations,
		Converged:          res.Converged,
		Elapsed:            time.Since(start),
	}
	log.Printf(
		"Docs: %d. Terms: %d. Postings: %d. Avg terms/doc: %.1f. List Size: %.2f MB. PageRank iters: %d. Time: %v\n",
		n, termCount, postingCount, bs.Docs.AvgTermPerDoc(),
		float64(listStat.Size())/units.MB, res.Iterations, summary.Elapsed)

	return summary, nil
}

func writeRun(runDir string, partial PartialIndex) (string, error) {
	file, err := os.CreateTemp(runDir, "partial.index")
	if err != nil {
		return "", err
	}

	bw := binary.NewBufferedByteWriter(file)
	if err := WritePartialIndex(bw, partial); err != nil {
		bw.Close()
		return "", err
	}
	if err := bw.Close(); err != nil {
		return "", err
	}
	return file.Name(), nil
}
