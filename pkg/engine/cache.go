package engine

import (
	"errors"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"linksearch/pkg/index"
	"linksearch/pkg/utils/binary"
)

var (
	ErrCacheEntryNotFound            = errors.New("cache entry not found")
	ErrCacheSetOperationNotSupported = errors.New("cache set operation is not supported")
	ErrCacheClosed                   = errors.New("cache is closed")
)

// ListCache serves posting lists by term. The memory layer fronts the
// seek-based disk layer; misses in both mean the term is not indexed.
type ListCache interface {
	Get(term string) (index.InvertedList, error)
	Set(term string, list index.InvertedList) error
}

var _ ListCache = (*MemoryListCache)(nil)
var _ ListCache = (*DiskListCache)(nil)

type MemoryListCache struct {
	cache *lru.Cache[string, index.InvertedList]
	src   ListCache
}

func NewMemoryListCache(size int, src ListCache) *MemoryListCache {
	cache, _ := lru.New[string, index.InvertedList](size)
	return &MemoryListCache{
		cache: cache,
		src:   src,
	}
}

func (mc *MemoryListCache) Get(term string) (index.InvertedList, error) {
	var list index.InvertedList

	list, ok := mc.cache.Get(term)
	if !ok {
		if mc.src == nil {
			return list, ErrCacheEntryNotFound
		}
		list, err := mc.src.Get(term)
		if err != nil {
			return list, err
		}
		mc.Set(term, list)
		return list, nil
	}

	return list, nil
}

func (mc *MemoryListCache) Set(term string, list index.InvertedList) error {
	_ = mc.cache.Add(term, list)
	return nil
}

// DiskListCache reads posting lists from the term_list file through a
// fixed pool of reader goroutines, each with its own file handle, so
// concurrent queries never share a seek position. Close stops the pool
// and releases the handles.
type DiskListCache struct {
	accessCh  chan termRequest
	done      chan struct{}
	closeOnce sync.Once
	workers   int
	termPos   map[string]int
}

type termRequest struct {
	term     string
	pos      int
	resultCh chan<- termResponse
}

type termResponse struct {
	result index.InvertedList
	err    error
}

func NewDiskListCache(filename string, workers int, termPos map[string]int) (*DiskListCache, error) {
	dc := &DiskListCache{
		accessCh: make(chan termRequest, workers),
		done:     make(chan struct{}),
		workers:  workers,
		termPos:  termPos,
	}

	for range workers {
		f, err := os.Open(filename)
		if err != nil {
			dc.Close()
			return nil, err
		}
		go func() {
			defer f.Close()
			for {
				select {
				case <-dc.done:
					return
				case req := <-dc.accessCh:
					req.resultCh <- getTermFromFile(f, req.term, req.pos)
				}
			}
		}()
	}

	return dc, nil
}

func (dc *DiskListCache) Get(term string) (index.InvertedList, error) {
	pos, ok := dc.termPos[term]
	if !ok {
		return index.InvertedList{}, ErrCacheEntryNotFound
	}

	resultCh := make(chan termResponse, 1)
	req := termRequest{
		term:     term,
		pos:      pos,
		resultCh: resultCh,
	}

	select {
	case dc.accessCh <- req:
	case <-dc.done:
		return index.InvertedList{}, ErrCacheClosed
	}

	select {
	case resp := <-resultCh:
		return resp.result, resp.err
	case <-dc.done:
		return index.InvertedList{}, ErrCacheClosed
	}
}

func (dc *DiskListCache) Set(term string, list index.InvertedList) error {
	return ErrCacheSetOperationNotSupported
}

// Close stops the reader goroutines and closes their file handles.
// Safe to call more than once; Gets racing a Close either complete or
// report ErrCacheClosed.
func (dc *DiskListCache) Close() error {
	dc.closeOnce.Do(func() {
		close(dc.done)
	})
	return nil
}

func getTermFromFile(f *os.File, term string, pos int) termResponse {
	var list index.InvertedList

	if _, err := f.Seek(int64(pos), 0); err != nil {
		return termResponse{
			err: err,
		}
	}

	br := binary.NewBufferedByteReader(f)
	listIter, err := index.ReadInvertedList(br)
	if err != nil {
		return termResponse{
			err: err,
		}
	}

	list.Term = term
	list.Postings = index.CollectInvertedList(listIter)
	return termResponse{
		result: list,
		err:    nil,
	}
}
