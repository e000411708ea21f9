// Package projection builds local transcripts from observed frames.
// Handles ordering and snapshots for display. Does not emit frames or
// interact with the network directly.
package projection

import (
	"cmp"
	"slices"
	"sync"

	"turnchat/domain"
)

// Transcript holds the conversation as seen from one client: every
// delivered message, ordered by the server's global sequence number.
type Transcript struct {
	mu      sync.Mutex
	entries []domain.Entry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Observe(e domain.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy sorted by ascending sequence number.
func (t *Transcript) Entries() []domain.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := slices.Clone(t.entries)
	slices.SortFunc(out, func(a, b domain.Entry) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
