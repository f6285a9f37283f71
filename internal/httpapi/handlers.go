package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"local_portal/internal/domain"
	"local_portal/internal/frontpage"
	"local_portal/internal/service"
)

type ArticleService interface {
	List(ctx context.Context, opts domain.ArticleListOptions) (*domain.Page[domain.Article], error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

type ClassifiedService interface {
	List(ctx context.Context, opts domain.ClassifiedListOptions) (*domain.Page[domain.Classified], error)
	GetByID(ctx context.Context, id string) (*domain.Classified, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementFavorites(ctx context.Context, id string) error
}

type AdService interface {
	ForPosition(ctx context.Context, position domain.AdPosition) ([]domain.Advertisement, error)
	TrackClick(ctx context.Context, id string) error
	TrackImpression(ctx context.Context, id string) error
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string, prefs *domain.NewsletterPreferences) error
	Unsubscribe(ctx context.Context, email string) error
}

type SearchService interface {
	Search(ctx context.Context, query string, typ domain.SearchType) (*domain.SearchResults, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

type RealtimeService interface {
	WatchArticles(ctx context.Context, opts domain.ArticleListOptions) (*service.Feed[domain.Article], error)
	WatchClassifieds(ctx context.Context, opts domain.ClassifiedListOptions) (*service.Feed[domain.Classified], error)
}

type HomeService interface {
	Home(ctx context.Context) *frontpage.Home
}

type handler struct {
	articles    ArticleService
	classifieds ClassifiedService
	ads         AdService
	newsletter  NewsletterService
	search      SearchService
	categories  CategoryService
	realtime    RealtimeService
	home        HomeService
	metrics     Metrics
	maxLimit    int
	policy      *bluemonday.Policy
	logger      *slog.Logger
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

func (h *handler) listArticles(w http.ResponseWriter, r *http.Request) {
	opts, err := articleOptions(r, h.maxLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.articles.List(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page.Items = sanitizeArticles(h.policy, page.Items)
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) getArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if a == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeArticle(h.policy, *a))
}

func (h *handler) listClassifieds(w http.ResponseWriter, r *http.Request) {
	opts, err := classifiedOptions(r, h.maxLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.classifieds.List(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) getClassified(w http.ResponseWriter, r *http.Request) {
	c, err := h.classifieds.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// counter adapts an increment operation to a 204 endpoint keyed by {id}.
func (h *handler) counter(inc func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := inc(r.Context(), chi.URLParam(r, "id")); err != nil {
			h.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *handler) adsForPosition(w http.ResponseWriter, r *http.Request) {
	position := domain.AdPosition(chi.URLParam(r, "position"))
	if !position.Valid() {
		h.fail(w, r, fmt.Errorf("%w: %q", errInvalidPosition, position))
		return
	}
	ads, err := h.ads.ForPosition(r.Context(), position)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ads})
}

type subscribeRequest struct {
	Email       string                        `json:"email"`
	Preferences *domain.NewsletterPreferences `json:"preferences,omitempty"`
}

func (h *handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	if err := h.newsletter.Subscribe(r.Context(), req.Email, req.Preferences); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Dziękujemy za subskrypcję!"})
}

func (h *handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	if err := h.newsletter.Unsubscribe(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := domain.ParseSearchType(q.Get("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	results, err := h.search.Search(r.Context(), q.Get("q"), typ)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	results.Articles = sanitizeArticles(h.policy, results.Articles)
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *handler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if c == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) homePage(w http.ResponseWriter, r *http.Request) {
	home := h.home.Home(r.Context())
	recordPlaceholder(h.metrics, "hero", home.Hero.Placeholder, home.Hero.Notice)
	recordPlaceholder(h.metrics, "articles", home.Articles.Placeholder, home.Articles.Notice)
	recordPlaceholder(h.metrics, "classifieds", home.Classifieds.Placeholder, home.Classifieds.Notice)
	recordPlaceholder(h.metrics, "sidebar", home.Sidebar.Placeholder, home.Sidebar.Notice)

	home.Articles.Items = sanitizeArticles(h.policy, home.Articles.Items)
	writeJSON(w, http.StatusOK, home)
}

func recordPlaceholder(m Metrics, section string, placeholder bool, notice *frontpage.Notice) {
	if !placeholder {
		return
	}
	reason := "empty"
	if notice != nil {
		reason = "error"
	}
	m.RecordPlaceholder(section, reason)
}

func articleOptions(r *http.Request, maxLimit int) (domain.ArticleListOptions, error) {
	q := r.URL.Query()
	limit, err := limitParam(q.Get("limit"), maxLimit)
	if err != nil {
		return domain.ArticleListOptions{}, err
	}
	featured, err := boolParam(q.Get("featured"), "featured")
	if err != nil {
		return domain.ArticleListOptions{}, err
	}
	return domain.ArticleListOptions{
		Limit:    limit,
		Category: q.Get("category"),
		Featured: featured,
		Cursor:   q.Get("cursor"),
	}, nil
}

func classifiedOptions(r *http.Request, maxLimit int) (domain.ClassifiedListOptions, error) {
	q := r.URL.Query()
	limit, err := limitParam(q.Get("limit"), maxLimit)
	if err != nil {
		return domain.ClassifiedListOptions{}, err
	}
	featured, err := boolParam(q.Get("featured"), "featured")
	if err != nil {
		return domain.ClassifiedListOptions{}, err
	}
	priceMin, err := floatParam(q.Get("priceMin"), "priceMin")
	if err != nil {
		return domain.ClassifiedListOptions{}, err
	}
	priceMax, err := floatParam(q.Get("priceMax"), "priceMax")
	if err != nil {
		return domain.ClassifiedListOptions{}, err
	}
	return domain.ClassifiedListOptions{
		Limit:    limit,
		Category: q.Get("category"),
		Featured: featured,
		City:     q.Get("city"),
		PriceMin: priceMin,
		PriceMax: priceMax,
		Cursor:   q.Get("cursor"),
	}, nil
}

// limitParam parses a page size. Zero means the service default.
func limitParam(v string, maxLimit int) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit", errInvalidParam)
	}
	if n > maxLimit {
		return 0, fmt.Errorf("%w: limit exceeds %d", errInvalidParam, maxLimit)
	}
	return n, nil
}

func boolParam(v, name string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s", errInvalidParam, name)
	}
	return b, nil
}

func floatParam(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s", errInvalidParam, name)
	}
	return &f, nil
}
