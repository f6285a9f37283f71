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

const categoriesKey = "categories:all"

type CategoryService struct {
	store    DocumentStore
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewCategoryService builds the category service. cache may be nil.
func NewCategoryService(store DocumentStore, cache Cache, cacheTTL time.Duration, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("service", "categories"),
	}
}

func decodeCategory(doc storage.Document) (domain.Category, error) {
	var c domain.Category
	if err := doc.DataTo(&c); err != nil {
		return c, err
	}
	c.ID = doc.ID
	return c, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		var cached []domain.Category
		found, err := s.cache.Get(ctx, categoriesKey, &cached)
		if err != nil {
			s.logger.Warn("category cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	q := storage.NewQuery(CollectionCategories).OrderBy("name", storage.Asc, storage.KindString)
	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	categories, err := decodeAll(docs, decodeCategory)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoriesKey, categories, s.cacheTTL); err != nil {
			s.logger.Warn("category cache write failed", "error", err)
		}
	}
	return categories, nil
}

// GetBySlug returns the category with slug, or nil.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	q := storage.NewQuery(CollectionCategories).Where("slug", storage.OpEqual, slug).WithLimit(1)
	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("get category by slug", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	c, err := decodeCategory(docs[0])
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return &c, nil
}

// Create stores a category. The caller keeps the parent tree acyclic.
func (s *CategoryService) Create(ctx context.Context, category domain.Category) (string, error) {
	id, err := s.store.Create(ctx, CollectionCategories, category)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", fmt.Errorf("create category %q: %w", category.Slug, domain.ErrSlugTaken)
	}
	if err != nil {
		return "", storeError("create category", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, categoriesKey); err != nil {
			s.logger.Warn("category cache invalidation failed", "error", err)
		}
	}
	return id, nil
}
