package session

import (
	"sync"

	"github.com/nao1215/megacrawl/internal/config"
	"github.com/nao1215/megacrawl/internal/model"
)

// Session holds everything a crawl run accumulates: the results in
// arrival order, the configuration snapshot the run was started with,
// and the prepared attachment files keyed by (idx, attachment index).
//
// Design decision: We model run state as one explicit struct rather
// than loosely keyed storage so a reset can clear all three categories
// atomically and nothing can observe a half-cleared state.
type Session struct {
	mu       sync.Mutex
	results  []model.DetailResult
	cfg      *config.Config
	prepared map[model.AttachmentKey]model.PreparedFile
}

// New creates an empty session.
func New() *Session {
	return &Session{
		results:  make([]model.DetailResult, 0),
		prepared: make(map[model.AttachmentKey]model.PreparedFile),
	}
}

// Begin captures the configuration for a new run and clears any previous
// results. Prepared files survive Begin: starting a new crawl does not
// invalidate files the user already downloaded. The configuration is a
// snapshot; the run never re-reads it after this point.
func (s *Session) Begin(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = s.results[:0]
	s.cfg = cfg
}

// Config returns the configuration snapshot of the active run, or nil
// when no run has begun.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Append adds one result in arrival order. Results are never
// deduplicated across pages; the portal may legitimately repeat an item
// when pages shift under the crawl.
func (s *Session) Append(r model.DetailResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// Results returns a copy of the accumulated results.
func (s *Session) Results() []model.DetailResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DetailResult, len(s.results))
	copy(out, s.results)
	return out
}

// Len returns the number of accumulated results.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// WithAttachments returns the accumulated results that carry at least
// one attachment, preserving order.
func (s *Session) WithAttachments() []model.DetailResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DetailResult, 0)
	for _, r := range s.results {
		if len(r.Attachments) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// StorePrepared stores a downloaded attachment under its key.
func (s *Session) StorePrepared(key model.AttachmentKey, f model.PreparedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prepared[key] = f
}

// Prepared returns the prepared file for the key, if present.
func (s *Session) Prepared(key model.AttachmentKey) (model.PreparedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.prepared[key]
	return f, ok
}

// PreparedCount returns the number of prepared files held.
func (s *Session) PreparedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prepared)
}

// EachPrepared calls fn for every prepared file. The iteration order is
// unspecified.
func (s *Session) EachPrepared(fn func(model.AttachmentKey, model.PreparedFile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.prepared {
		fn(k, f)
	}
}

// Reset discards the results, the configuration snapshot, and every
// prepared file in one step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = s.results[:0]
	s.cfg = nil
	s.prepared = make(map[model.AttachmentKey]model.PreparedFile)
}
