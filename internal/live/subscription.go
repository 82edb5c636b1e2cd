package live

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Subscription delivers ordered snapshots of T until closed.
type Subscription[T any] struct {
	C <-chan T

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops the subscription and waits for its goroutine to exit.
// The channel C is closed afterwards.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the subscription has stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Watch loads an initial snapshot and a fresh one after every notification
// on topics. Load failures are logged and skipped. The subscription ends
// when ctx is done or Close is called.
func Watch[T any](ctx context.Context, hub *Hub, load func(context.Context) (T, error), topics ...string) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan T)
	sub := &Subscription[T]{C: out, cancel: cancel, done: make(chan struct{})}

	// Register before the first load so no change slips between the two.
	changes, unsubscribe := hub.Subscribe(topics...)

	go func() {
		defer close(sub.done)
		defer close(out)
		defer unsubscribe()

		deliver := func() bool {
			snapshot, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				log.WithError(err).WithField("topics", topics).Warn("Failed to load snapshot")
				return true
			}
			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if !deliver() {
					return
				}
			}
		}
	}()

	return sub
}
