package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (storage.Document, error)
	Query(ctx context.Context, q storage.Query) ([]storage.Document, error)
	Create(ctx context.Context, collection string, data any) (string, error)
	Set(ctx context.Context, collection, id string, data any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	Watch(ctx context.Context, q storage.Query) (storage.Subscription, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Close() error
}

// Cache stores JSON-encoded values. Get reports whether the key was present.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
