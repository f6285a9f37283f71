package storage

import (
	"hash/fnv"
	"sync"
	"time"
)

// Snapshot is the full result set of a watched query at one point in time.
type Snapshot struct {
	Documents []Document
	ReadAt    time.Time
}

// Subscription delivers snapshots of a watched query until it is closed.
// The first snapshot is the current result set. A slow consumer only ever
// sees the latest snapshot.
type Subscription interface {
	Updates() <-chan Snapshot
	// Err returns the error that ended the subscription, if any.
	Err() error
	Close() error
}

// Stream is the Subscription implementation shared by the backends.
type Stream struct {
	ch      chan Snapshot
	onClose func()

	mu        sync.Mutex
	sig       uint64
	delivered bool
	closed    bool
	err       error
	closeOnce sync.Once
}

func NewStream(onClose func()) *Stream {
	return &Stream{
		ch:      make(chan Snapshot, 1),
		onClose: onClose,
	}
}

func (s *Stream) Updates() <-chan Snapshot {
	return s.ch
}

// Deliver queues snap unless it matches the last delivered result set.
// A snapshot not yet consumed is replaced.
func (s *Stream) Deliver(snap Snapshot) bool {
	sig := signature(snap.Documents)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.delivered && sig == s.sig {
		return false
	}
	s.sig = sig
	s.delivered = true

	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
	return true
}

// Fail ends the stream with err.
func (s *Stream) Fail(err error) {
	s.finish(err)
	s.release()
}

func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) Close() error {
	s.finish(nil)
	s.release()
	return nil
}

func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.ch)
}

// release runs outside s.mu: onClose usually takes the owning store's lock.
func (s *Stream) release() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
	})
}

func signature(docs []Document) uint64 {
	h := fnv.New64a()
	for _, d := range docs {
		h.Write([]byte(d.ID))
		h.Write([]byte{0})
		h.Write(d.Data)
		h.Write([]byte{0})
	}
	return h.Sum64()
}
