package memory

import (
	"context"

	"local_portal/internal/storage"
)

type watcher struct {
	query  storage.Query
	stream *storage.Stream
	done   chan struct{}
}

// Watch delivers the current result of q and then a fresh snapshot after
// every write that changes it. Cancelling ctx closes the subscription.
func (s *Store) Watch(ctx context.Context, q storage.Query) (storage.Subscription, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	w := &watcher{query: q, done: make(chan struct{})}
	w.stream = storage.NewStream(func() {
		s.mu.Lock()
		delete(s.watchers, w)
		s.mu.Unlock()
		close(w.done)
	})

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	w.stream.Deliver(storage.Snapshot{Documents: s.run(q), ReadAt: s.now()})
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = w.stream.Close()
		case <-w.done:
		}
	}()
	return w.stream, nil
}

// notify re-evaluates the watchers of collection. Callers hold s.mu.
func (s *Store) notify(collection string) {
	for w := range s.watchers {
		if w.query.Collection != collection {
			continue
		}
		w.stream.Deliver(storage.Snapshot{Documents: s.run(w.query), ReadAt: s.now()})
	}
}
