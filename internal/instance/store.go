// Package instance tracks the live editor instances created by the plugin.
//
// A Store maps monotonically increasing IDs to the two handles of one editor
// entity. The id counter and the table share a single mutex, held only for
// the table mutation itself: no I/O or entity calls happen under it.
package instance

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/scripteditor/internal/plugin/api"
)

// ID identifies one editor instance for the lifetime of the process.
// IDs start at 1 and are never reused; 0 means "no instance".
type ID uint64

// String returns the id in decimal.
func (id ID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Bookkeeping errors. Both indicate a programming fault in the caller.
var (
	// ErrDuplicateID is returned when inserting under an id already present.
	ErrDuplicateID = errors.New("instance id already present")

	// ErrInvalidID is returned when inserting under the zero id.
	ErrInvalidID = errors.New("invalid instance id")
)

// Record owns the handles of one live editor instance.
// Panel and Instance refer to the same underlying entity.
type Record struct {
	Panel    api.Panel
	Instance api.Instance
}

// Entry pairs a record with its id.
type Entry struct {
	ID     ID
	Record Record
}

// Store is a concurrency-safe table of live instances.
type Store struct {
	mu      sync.Mutex
	next    ID
	records map[ID]Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[ID]Record),
	}
}

// AllocateID returns an id strictly greater than every id previously
// allocated by this store.
func (s *Store) AllocateID() ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	return s.next
}

// Insert stores rec under id. An id already present is refused, never
// overwritten.
func (s *Store) Insert(id ID, rec Record) error {
	if id == 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if id > s.next {
		// Never hand out an id that is already in use.
		s.next = id
	}
	s.records[id] = rec
	return nil
}

// Remove removes and returns the record for id.
// Removing an absent id reports false and is not an error.
func (s *Store) Remove(id ID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	if exists {
		delete(s.records, id)
	}
	return rec, exists
}

// Get returns the record for id.
func (s *Store) Get(id ID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	return rec, exists
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// IDs returns the live ids in ascending order.
func (s *Store) IDs() []ID {
	s.mu.Lock()
	ids := make([]ID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot returns a copy of the live entries in ascending id order.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	entries := make([]Entry, 0, len(s.records))
	for id, rec := range s.records {
		entries = append(entries, Entry{ID: id, Record: rec})
	}
	s.mu.Unlock()

	sortEntries(entries)
	return entries
}

// Drain removes every record and returns them in ascending id order.
// The id counter is not reset.
func (s *Store) Drain() []Entry {
	s.mu.Lock()
	old := s.records
	s.records = make(map[ID]Record)
	s.mu.Unlock()

	entries := make([]Entry, 0, len(old))
	for id, rec := range old {
		entries = append(entries, Entry{ID: id, Record: rec})
	}
	sortEntries(entries)
	return entries
}

// Clear removes and drops every record, returning how many were removed.
func (s *Store) Clear() int {
	return len(s.Drain())
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
