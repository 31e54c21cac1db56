// Package runlog numbers completed batch runs.
//
// Several batch runs may share one output location. A Log hands out strictly
// increasing run numbers so every error summary can be attributed to exactly
// one run, even when runs finish concurrently.
package runlog

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrConflict is returned when another writer took the run number first.
var ErrConflict = errors.New("runlog: concurrent append")

// Entry describes one completed batch run.
type Entry struct {
	// Run is assigned by Append.
	Run      uint64
	Report   string
	Meshes   int
	Failed   int
	Elapsed  time.Duration
	Finished time.Time
}

// Log records batch runs.
type Log interface {
	// Append stores e under the next run number and returns that number.
	Append(ctx context.Context, e Entry) (uint64, error)
	// Latest returns the newest entry, or false if nothing was appended yet.
	Latest(ctx context.Context) (Entry, bool, error)
}

// Memory is a process-local Log.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an empty Memory log.
func NewMemory() *Memory { return &Memory{} }

// Append implements Log.
func (m *Memory) Append(_ context.Context, e Entry) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Run = uint64(len(m.entries)) + 1
	m.entries = append(m.entries, e)
	return e.Run, nil
}

// Latest implements Log.
func (m *Memory) Latest(_ context.Context) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return Entry{}, false, nil
	}
	return m.entries[len(m.entries)-1], true, nil
}

// Entries returns a copy of every appended entry in run order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
