package domain

import (
	"cmp"
	"slices"
	"sync"
)

// Entry is one immutable record of the conversation: a globally sequenced
// content message, including the synthetic leave entries.
type Entry struct {
	Seq    uint64
	Sender Role
	Text   string
}

// History is the append-only ordered record of the session. Entries are
// never mutated or removed; ordering is defined by sequence number.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(seq uint64, sender Role, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, Entry{Seq: seq, Sender: sender, Text: text})
}

// Snapshot returns a copy of all entries sorted by ascending sequence
// number. Used for the final report at shutdown.
func (h *History) Snapshot() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := slices.Clone(h.entries)
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
