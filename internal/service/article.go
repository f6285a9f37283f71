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

type ArticleService struct {
	store    DocumentStore
	events   notifier
	logger   *slog.Logger
	pageSize int
}

func NewArticleService(store DocumentStore, publisher Publisher, logger *slog.Logger, cfg config.PortalConfig) *ArticleService {
	logger = logger.With("service", "articles")
	return &ArticleService{
		store:    store,
		events:   notifier{publisher: publisher, logger: logger},
		logger:   logger,
		pageSize: applyLimit(cfg.ArticlePageSize, 10),
	}
}

func decodeArticle(doc storage.Document) (domain.Article, error) {
	var a domain.Article
	if err := doc.DataTo(&a); err != nil {
		return a, err
	}
	a.ID = doc.ID
	return a, nil
}

// articleQuery selects published articles, newest first.
func articleQuery(opts domain.ArticleListOptions, limit int) storage.Query {
	q := storage.NewQuery(CollectionArticles).
		Where("status", storage.OpEqual, domain.ArticleStatusPublished)
	if opts.Category != "" {
		q = q.Where("category.slug", storage.OpEqual, opts.Category)
	}
	if opts.Featured {
		q = q.Where("featured", storage.OpEqual, true)
	}
	return q.OrderBy("publishedAt", storage.Desc, storage.KindTime).WithLimit(limit)
}

func (s *ArticleService) List(ctx context.Context, opts domain.ArticleListOptions) (*domain.Page[domain.Article], error) {
	limit := applyLimit(opts.Limit, s.pageSize)
	q, err := withCursor(articleQuery(opts, limit), opts.Cursor)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("list articles", err)
	}

	page, err := buildPage(docs, q.Orders, limit, decodeArticle)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	s.logger.Debug("listed articles", "count", len(page.Items), "category", opts.Category, "has_more", page.HasMore)
	return page, nil
}

// GetBySlug returns the published article with slug, or nil.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	q := storage.NewQuery(CollectionArticles).
		Where("slug", storage.OpEqual, slug).
		Where("status", storage.OpEqual, domain.ArticleStatusPublished).
		WithLimit(1)

	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, storeError("get article by slug", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	a, err := decodeArticle(docs[0])
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	return &a, nil
}

// GetByID returns the article with id if it is published, or nil.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	doc, err := s.store.Get(ctx, CollectionArticles, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get article", err)
	}
	a, err := decodeArticle(doc)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a.Status != domain.ArticleStatusPublished {
		return nil, nil
	}
	return &a, nil
}

func (s *ArticleService) Create(ctx context.Context, article domain.Article) (string, error) {
	id, err := s.store.Create(ctx, CollectionArticles, article)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", fmt.Errorf("create article %q: %w", article.Slug, domain.ErrSlugTaken)
	}
	if err != nil {
		return "", storeError("create article", err)
	}
	s.logger.Info("article created", "id", id, "slug", article.Slug)
	s.events.changed(ctx, CollectionArticles, id, domain.ChangeCreate)
	return id, nil
}

func (s *ArticleService) Update(ctx context.Context, id string, upd domain.ArticleUpdate) error {
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil
	}
	err := s.store.Update(ctx, CollectionArticles, id, fields)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("update article %s: %w", id, domain.ErrSlugTaken)
	}
	if err != nil {
		return storeError("update article", err)
	}
	s.events.changed(ctx, CollectionArticles, id, domain.ChangeUpdate)
	return nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, CollectionArticles, id); err != nil {
		return storeError("delete article", err)
	}
	s.events.changed(ctx, CollectionArticles, id, domain.ChangeDelete)
	return nil
}

func (s *ArticleService) IncrementViews(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionArticles, id, "views")
}

func (s *ArticleService) IncrementLikes(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionArticles, id, "likes")
}
