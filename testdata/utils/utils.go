package utils

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

func Ptr[T any](v T) *T {
	return &v
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Clock returns a time source that starts at start and advances by step on
// every call.
func Clock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}
