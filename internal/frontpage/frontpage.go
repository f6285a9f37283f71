// Package frontpage builds the home page widgets. Every widget falls back to
// placeholder content when the primary store fails or has nothing to show.
package frontpage

import (
	"context"
	"log/slog"

	"local_portal/internal/domain"
)

type ArticleLister interface {
	List(ctx context.Context, opts domain.ArticleListOptions) (*domain.Page[domain.Article], error)
}

type ClassifiedLister interface {
	List(ctx context.Context, opts domain.ClassifiedListOptions) (*domain.Page[domain.Classified], error)
}

type AdSelector interface {
	ForPosition(ctx context.Context, position domain.AdPosition) ([]domain.Advertisement, error)
}

type Placeholders interface {
	Articles(opts domain.ArticleListOptions) []domain.Article
	Classifieds(opts domain.ClassifiedListOptions) []domain.Classified
	Ads(position domain.AdPosition) []domain.Advertisement
}

// Notice is a dismissible message for the reader. Retryable notices come
// with a retry affordance.
type Notice struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

var (
	noticeArticlesFailed    = Notice{Message: "Nie udało się załadować artykułów. Wyświetlamy przykładowe treści.", Retryable: true}
	noticeClassifiedsFailed = Notice{Message: "Nie udało się załadować ogłoszeń. Wyświetlamy przykładowe ogłoszenia.", Retryable: true}
	noticeAdsFailed         = Notice{Message: "Nie udało się załadować reklam.", Retryable: true}
)

func failed(n Notice) *Notice {
	return &n
}

// Section is one widget's content. Placeholder is set when Items come from
// the placeholder dataset.
type Section[T any] struct {
	Items       []T     `json:"items"`
	Placeholder bool    `json:"placeholder"`
	Notice      *Notice `json:"notice,omitempty"`
}

type Home struct {
	Hero        Section[domain.Advertisement] `json:"hero"`
	Articles    Section[domain.Article]       `json:"articles"`
	Classifieds Section[domain.Classified]    `json:"classifieds"`
	Sidebar     Section[domain.Advertisement] `json:"sidebar"`
}

type Config struct {
	Articles    int
	Classifieds int
}

type Service struct {
	articles     ArticleLister
	classifieds  ClassifiedLister
	ads          AdSelector
	placeholders Placeholders
	cfg          Config
	logger       *slog.Logger
}

func NewService(articles ArticleLister, classifieds ClassifiedLister, ads AdSelector, placeholders Placeholders, cfg Config, logger *slog.Logger) *Service {
	if cfg.Articles <= 0 {
		cfg.Articles = 6
	}
	if cfg.Classifieds <= 0 {
		cfg.Classifieds = 8
	}
	return &Service{
		articles:     articles,
		classifieds:  classifieds,
		ads:          ads,
		placeholders: placeholders,
		cfg:          cfg,
		logger:       logger.With("component", "frontpage"),
	}
}

func (s *Service) Articles(ctx context.Context, opts domain.ArticleListOptions) Section[domain.Article] {
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.Articles
	}
	page, err := s.articles.List(ctx, opts)
	if err != nil {
		s.logger.Warn("serving placeholder articles", "error", err)
		return Section[domain.Article]{Items: s.placeholders.Articles(opts), Placeholder: true, Notice: failed(noticeArticlesFailed)}
	}
	if len(page.Items) == 0 {
		return Section[domain.Article]{Items: s.placeholders.Articles(opts), Placeholder: true}
	}
	return Section[domain.Article]{Items: page.Items}
}

func (s *Service) Classifieds(ctx context.Context, opts domain.ClassifiedListOptions) Section[domain.Classified] {
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.Classifieds
	}
	page, err := s.classifieds.List(ctx, opts)
	if err != nil {
		s.logger.Warn("serving placeholder classifieds", "error", err)
		return Section[domain.Classified]{Items: s.placeholders.Classifieds(opts), Placeholder: true, Notice: failed(noticeClassifiedsFailed)}
	}
	if len(page.Items) == 0 {
		return Section[domain.Classified]{Items: s.placeholders.Classifieds(opts), Placeholder: true}
	}
	return Section[domain.Classified]{Items: page.Items}
}

func (s *Service) Ads(ctx context.Context, position domain.AdPosition) Section[domain.Advertisement] {
	ads, err := s.ads.ForPosition(ctx, position)
	if err != nil {
		s.logger.Warn("serving placeholder ads", "position", position, "error", err)
		return Section[domain.Advertisement]{Items: s.placeholders.Ads(position), Placeholder: true, Notice: failed(noticeAdsFailed)}
	}
	if len(ads) == 0 {
		return Section[domain.Advertisement]{Items: s.placeholders.Ads(position), Placeholder: true}
	}
	return Section[domain.Advertisement]{Items: ads}
}

// Home assembles the home page: hero slider, latest articles, featured
// classifieds and sidebar ads.
func (s *Service) Home(ctx context.Context) *Home {
	return &Home{
		Hero:        s.Ads(ctx, domain.AdPositionHeroSlider),
		Articles:    s.Articles(ctx, domain.ArticleListOptions{}),
		Classifieds: s.Classifieds(ctx, domain.ClassifiedListOptions{Featured: true}),
		Sidebar:     s.Ads(ctx, domain.AdPositionSidebar),
	}
}
