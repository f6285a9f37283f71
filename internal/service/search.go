package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"local_portal/internal/config"
	"local_portal/internal/domain"
)

// SearchService matches text against the most recent live documents only.
// There is no index: anything older than the scanned window is not found.
type SearchService struct {
	store         DocumentStore
	analytics     *AnalyticsService
	logger        *slog.Logger
	articleCap    int
	classifiedCap int
}

// NewSearchService builds the search service. analytics may be nil.
func NewSearchService(store DocumentStore, analytics *AnalyticsService, logger *slog.Logger, cfg config.PortalConfig) *SearchService {
	return &SearchService{
		store:         store,
		analytics:     analytics,
		logger:        logger.With("service", "search"),
		articleCap:    applyLimit(cfg.SearchArticleCap, 20),
		classifiedCap: applyLimit(cfg.SearchClassifiedCap, 50),
	}
}

// Search returns the articles and classifieds whose text contains query,
// ignoring case. An empty query matches every scanned document.
func (s *SearchService) Search(ctx context.Context, query string, typ domain.SearchType) (*domain.SearchResults, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	results := &domain.SearchResults{
		Articles:    []domain.Article{},
		Classifieds: []domain.Classified{},
	}

	if typ == domain.SearchArticles || typ == domain.SearchAll {
		docs, err := s.store.Query(ctx, articleQuery(domain.ArticleListOptions{}, s.articleCap))
		if err != nil {
			return nil, storeError("search articles", err)
		}
		articles, err := decodeAll(docs, decodeArticle)
		if err != nil {
			return nil, fmt.Errorf("search articles: %w", err)
		}
		for _, a := range articles {
			if containsFold(needle, a.Title, a.Excerpt, a.Content) {
				results.Articles = append(results.Articles, a)
			}
		}
	}

	if typ == domain.SearchClassifieds || typ == domain.SearchAll {
		docs, err := s.store.Query(ctx, classifiedQuery(domain.ClassifiedListOptions{}, s.classifiedCap))
		if err != nil {
			return nil, storeError("search classifieds", err)
		}
		classifieds, err := decodeAll(docs, decodeClassified)
		if err != nil {
			return nil, fmt.Errorf("search classifieds: %w", err)
		}
		for _, c := range classifieds {
			if containsFold(needle, c.Title, c.Description) {
				results.Classifieds = append(results.Classifieds, c)
			}
		}
	}

	s.logger.Debug("search completed",
		"type", typ,
		"articles", len(results.Articles),
		"classifieds", len(results.Classifieds),
	)
	s.record(ctx, query)
	return results, nil
}

func (s *SearchService) record(ctx context.Context, query string) {
	if s.analytics == nil {
		return
	}
	_, err := s.analytics.Record(ctx, domain.Analytics{
		Type: domain.AnalyticsSearch,
		Data: domain.AnalyticsData{SearchQuery: query},
	})
	if err != nil {
		s.logger.Warn("failed to record search", "error", err)
	}
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
