package service

import "sync/atomic"

// Stats counts operations executed on the store's worker.
type Stats struct {
	done   atomic.Uint64
	failed atomic.Uint64
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) IncDone()   { s.done.Add(1) }
func (s *Stats) IncFailed() { s.failed.Add(1) }

func (s *Stats) Snapshot() (done uint64, failed uint64) {
	return s.done.Load(), s.failed.Load()
}
