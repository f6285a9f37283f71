package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"local_portal/internal/storage"
)

// changeChannel is the NOTIFY channel fed by the documents trigger. The
// payload is the collection name.
const changeChannel = "document_changes"

const listenerPingInterval = 90 * time.Second

type feedSub struct {
	dirty chan struct{}
}

func (s *feedSub) mark() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// ChangeFeed holds one LISTEN connection and fans notifications out to the
// watchers of each collection.
type ChangeFeed struct {
	listener *pq.Listener
	logger   *slog.Logger

	mu   sync.Mutex
	subs map[string]map[*feedSub]struct{}
}

func NewChangeFeed(dsn string, logger *slog.Logger) *ChangeFeed {
	f := &ChangeFeed{
		logger: logger.With("component", "change_feed"),
		subs:   make(map[string]map[*feedSub]struct{}),
	}
	f.listener = pq.NewListener(dsn, 10*time.Second, time.Minute, f.onEvent)
	return f
}

func (f *ChangeFeed) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnectionAttemptFailed:
		f.logger.Warn("listener connection attempt failed", "error", err)
	case pq.ListenerEventDisconnected:
		f.logger.Warn("listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		f.logger.Info("listener reconnected")
	}
}

// Run listens until ctx is done. After a reconnect every watcher re-queries
// since notifications may have been missed.
func (f *ChangeFeed) Run(ctx context.Context) error {
	if err := f.listener.Listen(changeChannel); err != nil {
		return fmt.Errorf("listen %s: %w", changeChannel, err)
	}
	defer f.listener.Close()

	f.logger.Info("change feed started", "channel", changeChannel)

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("change feed stopped")
			return nil
		case n := <-f.listener.Notify:
			if n == nil {
				f.markAll()
				continue
			}
			f.mark(n.Extra)
		case <-ticker.C:
			go func() {
				if err := f.listener.Ping(); err != nil {
					f.logger.Warn("listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (f *ChangeFeed) subscribe(collection string) *feedSub {
	sub := &feedSub{dirty: make(chan struct{}, 1)}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[*feedSub]struct{})
	}
	f.subs[collection][sub] = struct{}{}
	return sub
}

func (f *ChangeFeed) unsubscribe(collection string, sub *feedSub) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs[collection], sub)
	if len(f.subs[collection]) == 0 {
		delete(f.subs, collection)
	}
}

func (f *ChangeFeed) mark(collection string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs[collection] {
		sub.mark()
	}
}

func (f *ChangeFeed) markAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, subs := range f.subs {
		for sub := range subs {
			sub.mark()
		}
	}
}

// Watch delivers the current result of q, then re-runs q after every change
// notification for its collection and delivers the result when it differs.
// A failed re-query ends the subscription with that error.
func (s *DocumentStore) Watch(ctx context.Context, q storage.Query) (storage.Subscription, error) {
	if s.feed == nil {
		return nil, errors.New("watch: change feed not configured")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// Subscribe before the first read so no change falls in between.
	sub := s.feed.subscribe(q.Collection)
	ctx, cancel := context.WithCancel(ctx)
	stream := storage.NewStream(func() {
		cancel()
		s.feed.unsubscribe(q.Collection, sub)
	})

	docs, err := s.Query(ctx, q)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	stream.Deliver(storage.Snapshot{Documents: docs, ReadAt: s.now()})

	go s.watchLoop(ctx, q, sub, stream)
	return stream, nil
}

func (s *DocumentStore) watchLoop(ctx context.Context, q storage.Query, sub *feedSub, stream *storage.Stream) {
	for {
		select {
		case <-ctx.Done():
			_ = stream.Close()
			return
		case <-sub.dirty:
			docs, err := s.Query(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					_ = stream.Close()
					return
				}
				s.logger.Warn("watch re-query failed", "collection", q.Collection, "error", err)
				stream.Fail(fmt.Errorf("watch %s: %w", q.Collection, err))
				return
			}
			stream.Deliver(storage.Snapshot{Documents: docs, ReadAt: s.now()})
		}
	}
}
