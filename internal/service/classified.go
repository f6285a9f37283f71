package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

type ClassifiedService struct {
	store    DocumentStore
	events   notifier
	logger   *slog.Logger
	pageSize int
}

func NewClassifiedService(store DocumentStore, publisher Publisher, logger *slog.Logger, cfg config.PortalConfig) *ClassifiedService {
	logger = logger.With("service", "classifieds")
	return &ClassifiedService{
		store:    store,
		events:   notifier{publisher: publisher, logger: logger},
		logger:   logger,
		pageSize: applyLimit(cfg.ClassifiedPageSize, 20),
	}
}

func decodeClassified(doc storage.Document) (domain.Classified, error) {
	var c domain.Classified
	if err := doc.DataTo(&c); err != nil {
		return c, err
	}
	c.ID = doc.ID
	return c, nil
}

// classifiedQuery selects active classifieds, newest first. Price bounds are
// not part of the query.
func classifiedQuery(opts domain.ClassifiedListOptions, limit int) storage.Query {
	q := storage.NewQuery(CollectionClassifieds).
		Where("status", storage.OpEqual, domain.ClassifiedStatusActive)
	if opts.Category != "" {
		q = q.Where("category.slug", storage.OpEqual, opts.Category)
	}
	if opts.Featured {
		q = q.Where("featured", storage.OpEqual, true)
	}
	if opts.City != "" {
		q = q.Where("location.city", storage.OpEqual, opts.City)
	}
	return q.OrderBy(storage.FieldCreatedAt, storage.Desc, storage.KindTime).WithLimit(limit)
}

// List returns one page of active classifieds. The price range is applied to
// the fetched page, so a page may hold fewer items than the limit even when
// further matches exist. Cursor and HasMore describe the fetched page.
func (s *ClassifiedService) List(ctx context.Context, opts domain.ClassifiedListOptions) (*domain.Page[domain.Classified], error) {
	limit := applyLimit(opts.Limit, s.pageSize)
	q, err := withCursor(classifiedQuery(opts, limit), opts.Cursor)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("list classifieds", err)
	}

	page, err := buildPage(docs, q.Orders, limit, decodeClassified)
	if err != nil {
		return nil, fmt.Errorf("list classifieds: %w", err)
	}

	if opts.PriceMin != nil || opts.PriceMax != nil {
		fetched := len(page.Items)
		page.Items = filterByPrice(page.Items, opts.PriceMin, opts.PriceMax)
		s.logger.Debug("applied price filter", "fetched", fetched, "kept", len(page.Items))
	}
	return page, nil
}

func filterByPrice(items []domain.Classified, min, max *float64) []domain.Classified {
	kept := items[:0]
	for _, c := range items {
		if c.Price == nil {
			continue
		}
		if min != nil && *c.Price < *min {
			continue
		}
		if max != nil && *c.Price > *max {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// GetByID returns the classified with id if it is active, or nil.
func (s *ClassifiedService) GetByID(ctx context.Context, id string) (*domain.Classified, error) {
	doc, err := s.store.Get(ctx, CollectionClassifieds, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get classified", err)
	}
	c, err := decodeClassified(doc)
	if err != nil {
		return nil, fmt.Errorf("get classified: %w", err)
	}
	if c.Status != domain.ClassifiedStatusActive {
		return nil, nil
	}
	return &c, nil
}

func (s *ClassifiedService) Create(ctx context.Context, classified domain.Classified) (string, error) {
	id, err := s.store.Create(ctx, CollectionClassifieds, classified)
	if err != nil {
		return "", storeError("create classified", err)
	}
	s.logger.Info("classified created", "id", id, "city", classified.Location.City)
	s.events.changed(ctx, CollectionClassifieds, id, domain.ChangeCreate)
	return id, nil
}

func (s *ClassifiedService) Update(ctx context.Context, id string, upd domain.ClassifiedUpdate) error {
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, CollectionClassifieds, id, fields); err != nil {
		return storeError("update classified", err)
	}
	s.events.changed(ctx, CollectionClassifieds, id, domain.ChangeUpdate)
	return nil
}

func (s *ClassifiedService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, CollectionClassifieds, id); err != nil {
		return storeError("delete classified", err)
	}
	s.events.changed(ctx, CollectionClassifieds, id, domain.ChangeDelete)
	return nil
}

func (s *ClassifiedService) IncrementViews(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionClassifieds, id, "views")
}

func (s *ClassifiedService) IncrementFavorites(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionClassifieds, id, "favorites")
}
