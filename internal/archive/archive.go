package archive

import (
	"fmt"
	"strconv"
)

// Archive is the ordered collection of committed records. The zero value is
// not usable; call New. An Archive is owned by a single session and is not
// safe for concurrent use.
type Archive struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{index: make(map[string]int)}
}

// Commit appends rec and returns its identifier. The identifier is size+1 as
// text; when a loaded archive already uses that value the next free integer
// above it is taken instead, so identifiers are never reused.
func (a *Archive) Commit(rec Record) string {
	n := len(a.entries) + 1
	id := strconv.Itoa(n)
	for a.has(id) {
		n++
		id = strconv.Itoa(n)
	}
	a.append(id, rec)
	return id
}

// Size returns the number of committed records.
func (a *Archive) Size() int {
	return len(a.entries)
}

// All returns the entries in commit order. The slice is a copy.
func (a *Archive) All() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Get returns the record stored under id.
func (a *Archive) Get(id string) (Record, bool) {
	i, ok := a.index[id]
	if !ok {
		return Record{}, false
	}
	return a.entries[i].Record, true
}

func (a *Archive) has(id string) bool {
	_, ok := a.index[id]
	return ok
}

// insert adds a record under an identifier read from a document.
func (a *Archive) insert(id string, rec Record) error {
	if a.has(id) {
		return fmt.Errorf("duplicate identifier %q", id)
	}
	a.append(id, rec)
	return nil
}

func (a *Archive) append(id string, rec Record) {
	a.index[id] = len(a.entries)
	a.entries = append(a.entries, Entry{ID: id, Record: rec})
}
