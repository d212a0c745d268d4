package engine

import (
	"errors"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"linksearch/pkg/index"
	"linksearch/pkg/parser"
)

// ErrNoIndex means no artifact set has been built yet. It is distinct
// from an empty result list, which is a normal "no match" outcome.
var ErrNoIndex = errors.New("no index artifacts available")

type Config struct {
	WeightCosine       float64
	WeightPageRank     float64
	RelevanceThreshold float64
	CacheSize          int
	Readers            int
}

func (cfg *Config) applyDefaults() {
	if cfg.WeightCosine == 0 && cfg.WeightPageRank == 0 {
		cfg.WeightCosine = 0.6
		cfg.WeightPageRank = 0.4
	}
	if cfg.RelevanceThreshold == 0 {
		cfg.RelevanceThreshold = 0.01
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.Readers <= 0 {
		cfg.Readers = 4
	}
}

type Result struct {
	DocID    int
	URL      string
	Title    string
	Snippet  string
	Score    float64
	Cosine   float64
	PageRank float64
}

// Snapshot is one immutable view of a built artifact set. Any number
// of queries may read it concurrently; a rebuild produces a new
// Snapshot and never touches a live one.
type Snapshot struct {
	arts    *index.Artifacts
	cache   ListCache
	disk    *DiskListCache
	results *lru.Cache[string, []Result]
	cfg     Config
}

func LoadSnapshot(dir string, cfg Config) (*Snapshot, error) {
	cfg.applyDefaults()

	arts, err := index.LoadArtifacts(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoIndex
		}
		return nil, err
	}

	diskCache, err := NewDiskListCache(path.Join(dir, index.FileTermList), cfg.Readers, arts.TermPos)
	if err != nil {
		return nil, err
	}
	memCache := NewMemoryListCache(cfg.CacheSize, diskCache)

	results, _ := lru.New[string, []Result](cfg.CacheSize)

	snap := &Snapshot{
		arts:    arts,
		cache:   memCache,
		disk:    diskCache,
		results: results,
		cfg:     cfg,
	}

	// Reload never closes a replaced snapshot itself, since in-flight
	// queries may still hold it. The finalizer reclaims the reader pool
	// once the snapshot becomes unreachable.
	runtime.SetFinalizer(snap, (*Snapshot).Close)

	return snap, nil
}

// Close releases the snapshot's disk readers and their file handles.
func (s *Snapshot) Close() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Close()
}

func (s *Snapshot) DocCount() int {
	return s.arts.Docs.DocCount
}

func (s *Snapshot) TermCount() int {
	return s.arts.Vocab.Size()
}

// Search ranks corpus documents against the raw query. A query with
// no known terms yields an empty list and nil error.
func (s *Snapshot) Search(rawQuery string, k int) ([]Result, error) {
	tokens := parser.Tokenize(rawQuery)
	if len(tokens) == 0 {
		return nil, nil
	}

	key := strings.Join(tokens, " ") + "\x00" + strconv.Itoa(k)
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	terms, qnorm := s.queryVector(tokens)
	if len(terms) == 0 {
		return nil, nil
	}

	cosines, err := s.cosineScores(terms, qnorm)
	if err != nil {
		return nil, err
	}

	results := s.rank(cosines, qnorm, k)
	s.results.Add(key, results)
	return results, nil
}

// Engine serves queries against the artifact set in dir. The active
// snapshot sits behind an atomic pointer: Reload swaps it in one step
// and in-flight queries keep their old view.
type Engine struct {
	dir  string
	cfg  Config
	snap atomic.Pointer[Snapshot]
}

func New(dir string, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		dir: dir,
		cfg: cfg,
	}
}

// Reload loads a fresh snapshot from the artifact directory and makes
// it the active one.
func (eg *Engine) Reload() error {
	snap, err := LoadSnapshot(eg.dir, eg.cfg)
	if err != nil {
		return err
	}
	eg.snap.Store(snap)
	return nil
}

func (eg *Engine) Snapshot() *Snapshot {
	return eg.snap.Load()
}

func (eg *Engine) Search(query string, k int) ([]Result, error) {
	snap := eg.snap.Load()
	if snap == nil {
		return nil, ErrNoIndex
	}
	return snap.Search(query, k)
}
