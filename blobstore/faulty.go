package blobstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrInjected is the default error returned by FaultyStore.
var ErrInjected = errors.New("blobstore: injected fault")

// Fault describes when a FaultyStore operation fails.
type Fault struct {
	FailPut    bool
	FailOpen   bool
	FailDelete bool
	Err        error
}

// FaultyStore wraps a BlobStore and injects errors for names containing a
// registered pattern. It is meant for exercising failure paths in tests.
type FaultyStore struct {
	BlobStore

	mu    sync.Mutex
	rules map[string]Fault
	puts  int
}

// NewFaultyStore wraps s.
func NewFaultyStore(s BlobStore) *FaultyStore {
	return &FaultyStore{BlobStore: s, rules: make(map[string]Fault)}
}

// AddRule registers a fault for every name containing pattern.
func (f *FaultyStore) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	f.rules[pattern] = fault
}

// Puts returns the number of successful Put calls.
func (f *FaultyStore) Puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

func (f *FaultyStore) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			return rule, true
		}
	}
	return Fault{}, false
}

// Open implements BlobStore.
func (f *FaultyStore) Open(ctx context.Context, name string) (Blob, error) {
	if rule, ok := f.match(name); ok && rule.FailOpen {
		return nil, rule.Err
	}
	return f.BlobStore.Open(ctx, name)
}

// Put implements BlobStore.
func (f *FaultyStore) Put(ctx context.Context, name string, data []byte) error {
	if rule, ok := f.match(name); ok && rule.FailPut {
		return rule.Err
	}
	if err := f.BlobStore.Put(ctx, name, data); err != nil {
		return err
	}
	f.mu.Lock()
	f.puts++
	f.mu.Unlock()
	return nil
}

// Delete implements BlobStore.
func (f *FaultyStore) Delete(ctx context.Context, name string) error {
	if rule, ok := f.match(name); ok && rule.FailDelete {
		return rule.Err
	}
	return f.BlobStore.Delete(ctx, name)
}
