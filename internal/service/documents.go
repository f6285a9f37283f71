package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

const (
	CollectionArticles       = "articles"
	CollectionClassifieds    = "classifieds"
	CollectionAdvertisements = "advertisements"
	CollectionCategories     = "categories"
	CollectionNewsletter     = "newsletter"
	CollectionUsers          = "users"
	CollectionComments       = "comments"
	CollectionAnalytics      = "analytics"
)

// Schema lists the unique fields the store enforces for the portal.
func Schema() storage.Schema {
	return storage.Schema{Unique: map[string]string{
		CollectionArticles:   "slug",
		CollectionCategories: "slug",
		CollectionNewsletter: "email",
	}}
}

func decodeAll[T any](docs []storage.Document, decode func(storage.Document) (T, error)) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// buildPage wraps one fetched page. HasMore is a full-page heuristic.
func buildPage[T any](docs []storage.Document, orders []storage.Order, limit int, decode func(storage.Document) (T, error)) (*domain.Page[T], error) {
	items, err := decodeAll(docs, decode)
	if err != nil {
		return nil, err
	}
	page := &domain.Page[T]{
		Items:   items,
		HasMore: len(docs) == limit,
	}
	if len(docs) > 0 {
		c, err := storage.CursorFor(docs[len(docs)-1], orders)
		if err != nil {
			return nil, err
		}
		page.Cursor = c.Encode()
	}
	return page, nil
}

func withCursor(q storage.Query, token string) (storage.Query, error) {
	if token == "" {
		return q, nil
	}
	c, err := storage.DecodeCursor(token)
	if err != nil {
		return q, fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	return q.After(c), nil
}

// storeError maps storage sentinels onto the domain taxonomy; anything else
// is a store failure and is wrapped as is.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidCursor):
		return fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notifier publishes change events when a publisher is configured. Publish
// failures are logged and never fail the write.
type notifier struct {
	publisher Publisher
	logger    *slog.Logger
}

func (n notifier) changed(ctx context.Context, collection, id string, action domain.ChangeAction) {
	if n.publisher == nil {
		return
	}
	event := domain.ChangeEvent{
		Collection: collection,
		DocumentID: id,
		Action:     action,
		Timestamp:  time.Now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("failed to publish change event",
			"collection", collection,
			"id", id,
			"action", action,
			"error", err,
		)
	}
}

// increment bumps a counter. A missing document is not an error.
func increment(ctx context.Context, store DocumentStore, collection, id, field string) error {
	err := store.Increment(ctx, collection, id, field, 1)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("increment %s: %w", field, err)
	}
	return nil
}

func applyLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
