package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

// Result is one finished conversion kept in memory for download. The
// server is a review tool, not an archive: results live only as long as
// the process does.
type Result struct {
	ID           string
	CreatedAt    time.Time
	SourceName   string
	Rows         []convert.Row
	Summary      *convert.Summary
	AlcoaEnabled bool
}

type resultStore struct {
	mu      sync.RWMutex
	results map[string]*Result
}

func newResultStore() *resultStore {
	return &resultStore{results: make(map[string]*Result)}
}

// Put assigns an ID and stores the result.
func (s *resultStore) Put(r *Result) string {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	s.mu.Lock()
	s.results[r.ID] = r
	s.mu.Unlock()
	return r.ID
}

// Get returns the stored result, if any.
func (s *resultStore) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	return r, ok
}
