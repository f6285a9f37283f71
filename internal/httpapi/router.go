// Package httpapi serves the portal over JSON HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Metrics receives request and widget observations. The Prometheus collector
// satisfies it.
type Metrics interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	StreamOpened(collection string)
	StreamClosed(collection string)
	RecordPlaceholder(section, reason string)
}

type nopMetrics struct{}

func (nopMetrics) RecordRequest(string, string, int, time.Duration) {}
func (nopMetrics) StreamOpened(string)                              {}
func (nopMetrics) StreamClosed(string)                              {}
func (nopMetrics) RecordPlaceholder(string, string)                 {}

type RouterDeps struct {
	Articles    ArticleService
	Classifieds ClassifiedService
	Ads         AdService
	Newsletter  NewsletterService
	Search      SearchService
	Categories  CategoryService
	Realtime    RealtimeService
	Home        HomeService

	RateLimiter *RateLimiter

	// Optional.
	MaxPageSize    int
	Metrics        Metrics
	MetricsHandler http.Handler
	Ready          func(ctx context.Context) error

	Logger *slog.Logger
}

const defaultMaxPageSize = 100

func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger.With("component", "http")
	m := deps.Metrics
	if m == nil {
		m = nopMetrics{}
	}
	maxLimit := deps.MaxPageSize
	if maxLimit <= 0 {
		maxLimit = defaultMaxPageSize
	}

	h := &handler{
		articles:    deps.Articles,
		classifieds: deps.Classifieds,
		ads:         deps.Ads,
		newsletter:  deps.Newsletter,
		search:      deps.Search,
		categories:  deps.Categories,
		realtime:    deps.Realtime,
		home:        deps.Home,
		metrics:     m,
		maxLimit:    maxLimit,
		policy:      contentPolicy(),
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger, m))

	r.Get("/healthz", healthz(deps.Ready))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	limited := func(next http.Handler) http.Handler { return next }
	if deps.RateLimiter != nil {
		limited = deps.RateLimiter.Middleware
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/home", h.homePage)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.listArticles)
			r.Get("/stream", h.streamArticles)
			r.Get("/{slug}", h.getArticle)
			r.With(limited).Post("/{id}/views", h.counter(h.articles.IncrementViews))
			r.With(limited).Post("/{id}/likes", h.counter(h.articles.IncrementLikes))
		})

		r.Route("/classifieds", func(r chi.Router) {
			r.Get("/", h.listClassifieds)
			r.Get("/stream", h.streamClassifieds)
			r.Get("/{id}", h.getClassified)
			r.With(limited).Post("/{id}/views", h.counter(h.classifieds.IncrementViews))
			r.With(limited).Post("/{id}/favorites", h.counter(h.classifieds.IncrementFavorites))
		})

		r.Route("/ads", func(r chi.Router) {
			r.Get("/{position}", h.adsForPosition)
			r.With(limited).Post("/{id}/click", h.counter(h.ads.TrackClick))
			r.With(limited).Post("/{id}/impression", h.counter(h.ads.TrackImpression))
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/", h.subscribe)
			r.Delete("/", h.unsubscribe)
		})

		r.Get("/search", h.searchAll)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.listCategories)
			r.Get("/{slug}", h.getCategory)
		})
	})

	return r
}

func healthz(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
