package scheduler

import (
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// batch is a group of asynchronous items that is joined at a barrier.
// Join waits for every member and returns all failures; one failing member
// does not cancel its siblings.
type batch struct {
	g    errgroup.Group
	mu   sync.Mutex
	errs []error
	open bool
}

// newBatch creates a batch. limit > 0 bounds how many members run at once.
func newBatch(limit int) *batch {
	b := &batch{}
	if limit > 0 {
		b.g.SetLimit(limit)
	}
	return b
}

// Go starts fn as a member of the batch.
func (b *batch) Go(fn func() error) {
	b.open = true
	b.g.Go(func() error {
		if err := fn(); err != nil {
			b.mu.Lock()
			b.errs = append(b.errs, err)
			b.mu.Unlock()
		}
		return nil
	})
}

// Join waits for all started members and resets the batch for reuse.
func (b *batch) Join() error {
	if !b.open {
		return nil
	}
	_ = b.g.Wait()
	b.open = false

	b.mu.Lock()
	defer b.mu.Unlock()
	err := errors.Join(b.errs...)
	b.errs = nil
	return err
}
