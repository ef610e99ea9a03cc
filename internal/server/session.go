package server

import (
	"sync"
	"time"

	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
)

// Snapshot is one analyzed upload. It is never mutated once stored.
type Snapshot struct {
	ID          string               `json:"id"`
	Fingerprint string               `json:"fingerprint"`
	FileName    string               `json:"fileName"`
	Source      string               `json:"source"` // "upload" or "watch"
	UploadedAt  time.Time            `json:"uploadedAt"`
	Data        *core.ProcessedData  `json:"-"`
	Analysis    *lint.AnalysisResult `json:"-"`
}

// Session holds the current snapshot. Readers see either the previous or the
// next snapshot, never a mix.
type Session struct {
	mu      sync.RWMutex
	current *Snapshot
}

// Current returns the current snapshot, or nil before the first upload.
func (s *Session) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in snap and returns the snapshot it replaced.
func (s *Session) Replace(snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = snap
	return prev
}
