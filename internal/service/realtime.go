package service

import (
	"context"
	"log/slog"
	"sync"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

// Feed is a typed stream of full result sets. Only the latest undelivered
// result set is kept. Updates is closed when the feed ends.
type Feed[T any] struct {
	sub storage.Subscription
	out chan []T

	mu     sync.Mutex
	err    error
	closed bool
}

func newFeed[T any](
	sub storage.Subscription,
	decode func(storage.Document) (T, error),
	filter func([]T) []T,
	logger *slog.Logger,
) *Feed[T] {
	f := &Feed[T]{sub: sub, out: make(chan []T, 1)}
	go f.run(decode, filter, logger)
	return f
}

func (f *Feed[T]) run(decode func(storage.Document) (T, error), filter func([]T) []T, logger *slog.Logger) {
	defer close(f.out)
	for snap := range f.sub.Updates() {
		items, err := decodeAll(snap.Documents, decode)
		if err != nil {
			logger.Warn("dropping undecodable snapshot", "error", err)
			continue
		}
		if filter != nil {
			items = filter(items)
		}
		if f.isClosed() {
			continue
		}
		select {
		case f.out <- items:
		default:
			select {
			case <-f.out:
			default:
			}
			f.out <- items
		}
	}
	f.mu.Lock()
	f.err = f.sub.Err()
	f.mu.Unlock()
}

func (f *Feed[T]) Updates() <-chan []T {
	return f.out
}

// Err reports why the feed ended, once Updates is closed.
func (f *Feed[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close stops the feed. Result sets arriving after Close are dropped.
func (f *Feed[T]) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.sub.Close()
}

func (f *Feed[T]) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type RealtimeService struct {
	store           DocumentStore
	logger          *slog.Logger
	articleLimit    int
	classifiedLimit int
}

func NewRealtimeService(store DocumentStore, logger *slog.Logger, cfg config.PortalConfig) *RealtimeService {
	return &RealtimeService{
		store:           store,
		logger:          logger.With("service", "realtime"),
		articleLimit:    applyLimit(cfg.RealtimeArticles, 10),
		classifiedLimit: applyLimit(cfg.RealtimeClassifieds, 20),
	}
}

// WatchArticles follows the article listing for opts. Cursor is ignored.
func (s *RealtimeService) WatchArticles(ctx context.Context, opts domain.ArticleListOptions) (*Feed[domain.Article], error) {
	q := articleQuery(opts, applyLimit(opts.Limit, s.articleLimit))
	sub, err := s.store.Watch(ctx, q)
	if err != nil {
		return nil, storeError("watch articles", err)
	}
	return newFeed(sub, decodeArticle, nil, s.logger), nil
}

// WatchClassifieds follows the classified listing for opts. Price bounds
// filter each delivered result set.
func (s *RealtimeService) WatchClassifieds(ctx context.Context, opts domain.ClassifiedListOptions) (*Feed[domain.Classified], error) {
	q := classifiedQuery(opts, applyLimit(opts.Limit, s.classifiedLimit))
	sub, err := s.store.Watch(ctx, q)
	if err != nil {
		return nil, storeError("watch classifieds", err)
	}
	var filter func([]domain.Classified) []domain.Classified
	if opts.PriceMin != nil || opts.PriceMax != nil {
		filter = func(items []domain.Classified) []domain.Classified {
			return filterByPrice(items, opts.PriceMin, opts.PriceMax)
		}
	}
	return newFeed(sub, decodeClassified, filter, s.logger), nil
}

// SubscribeArticles calls fn with every article result set until the
// returned cancel func is called. Calls are sequential and in order. A call
// already in progress may finish after cancel returns, but none starts.
// cancel may be called from inside fn.
func (s *RealtimeService) SubscribeArticles(ctx context.Context, opts domain.ArticleListOptions, fn func([]domain.Article)) (func(), error) {
	feed, err := s.WatchArticles(ctx, opts)
	if err != nil {
		return nil, err
	}
	return subscribe(feed, fn), nil
}

func (s *RealtimeService) SubscribeClassifieds(ctx context.Context, opts domain.ClassifiedListOptions, fn func([]domain.Classified)) (func(), error) {
	feed, err := s.WatchClassifieds(ctx, opts)
	if err != nil {
		return nil, err
	}
	return subscribe(feed, fn), nil
}

func subscribe[T any](feed *Feed[T], fn func([]T)) func() {
	var (
		mu      sync.Mutex
		stopped bool
	)
	go func() {
		for items := range feed.Updates() {
			mu.Lock()
			done := stopped
			mu.Unlock()
			if done {
				return
			}
			fn(items)
		}
	}()
	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		_ = feed.Close()
	}
}
