package domain

import "sync/atomic"

// Sequencer issues the global message sequence. Numbers start at 1, are
// strictly increasing and never reused, whichever handler asks for them.
// This is the sole source of the conversation's total order.
type Sequencer struct {
	n atomic.Uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

func (s *Sequencer) Next() uint64 {
	return s.n.Add(1)
}

// Current returns the last issued number without consuming one.
func (s *Sequencer) Current() uint64 {
	return s.n.Load()
}
