package search

import "sync/atomic"

// Sequencer hands out monotonically increasing sequence numbers for executed
// queries. A result snapshot may only be published if its sequence is still
// the newest issued, so a slow response can never overwrite a fresher one.
type Sequencer struct {
	counter atomic.Uint64
}

// Next issues the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.counter.Add(1)
}

// Latest reports whether seq is still the newest issued sequence.
func (s *Sequencer) Latest(seq uint64) bool {
	return seq == s.counter.Load()
}
