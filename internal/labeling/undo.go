package labeling

import "github.com/lamim/imglabel/pkg/models"

// UndoEntry is one reversible decision
type UndoEntry struct {
	Filename string
	Label    models.Label
}

// undoRing keeps the most recent decisions; pushing past the limit drops the oldest
type undoRing struct {
	entries []UndoEntry
	limit   int
}

func newUndoRing(limit int) *undoRing {
	if limit < 1 {
		limit = 1
	}
	return &undoRing{entries: make([]UndoEntry, 0, limit), limit: limit}
}

func (r *undoRing) push(e UndoEntry) {
	if len(r.entries) == r.limit {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, e)
}

func (r *undoRing) pop() (UndoEntry, bool) {
	if len(r.entries) == 0 {
		return UndoEntry{}, false
	}
	last := r.entries[len(r.entries)-1]
	r.entries = r.entries[:len(r.entries)-1]
	return last, true
}

func (r *undoRing) len() int {
	return len(r.entries)
}

func (r *undoRing) reset() {
	r.entries = r.entries[:0]
}
