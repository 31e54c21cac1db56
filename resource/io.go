package resource

import (
	"context"

	"github.com/hupe1980/meshq/blobstore"
)

// ThrottledStore paces Put calls on the wrapped store through a Controller's
// IO limiter. Reads, deletes and listings pass through unthrottled.
type ThrottledStore struct {
	blobstore.BlobStore
	rc *Controller
}

// Throttle wraps store. With a nil controller the store is returned as is.
func Throttle(store blobstore.BlobStore, rc *Controller) blobstore.BlobStore {
	if rc == nil || rc.ioLimiter == nil {
		return store
	}
	return &ThrottledStore{BlobStore: store, rc: rc}
}

// Put waits for len(data) bytes of IO budget, then writes.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.BlobStore.Put(ctx, name, data)
}
