package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/fallback"
	"local_portal/internal/service"
	"local_portal/internal/storage/postgres"
)

// seed loads the placeholder dataset into the postgres store so a fresh
// installation has something to show. Re-running it does not duplicate data.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		logger.Error("seeding needs the postgres store", "driver", cfg.Store.Driver)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := postgres.Migrate(cfg.Database.URL()); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := postgres.NewDocumentStore(db, service.Schema(), logger)
	s := &seeder{
		data:        fallback.NewProvider(),
		categories:  service.NewCategoryService(store, nil, 0, logger),
		articles:    service.NewArticleService(store, nil, logger, cfg.Portal),
		classifieds: service.NewClassifiedService(store, nil, logger, cfg.Portal),
		ads:         service.NewAdvertisementService(store, nil, 0, nil, logger),
		logger:      logger,
		now:         time.Now().UTC(),
	}

	if err := s.run(ctx); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeding completed")
}

type seeder struct {
	data        *fallback.Provider
	categories  *service.CategoryService
	articles    *service.ArticleService
	classifieds *service.ClassifiedService
	ads         *service.AdvertisementService
	logger      *slog.Logger
	now         time.Time
}

func (s *seeder) run(ctx context.Context) error {
	for _, c := range s.data.Categories() {
		c.ID = ""
		if _, err := s.categories.Create(ctx, c); err != nil && !errors.Is(err, domain.ErrSlugTaken) {
			return err
		}
	}

	for _, a := range s.data.Articles(domain.ArticleListOptions{Limit: 100}) {
		a.ID = ""
		a.Category.ID = ""
		if _, err := s.articles.Create(ctx, a); err != nil && !errors.Is(err, domain.ErrSlugTaken) {
			return err
		}
	}

	existing, err := s.classifieds.List(ctx, domain.ClassifiedListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing.Items) == 0 {
		for _, c := range s.data.Classifieds(domain.ClassifiedListOptions{Limit: 100}) {
			c.ID = ""
			c.Category.ID = ""
			if c.ExpiresAt.Before(s.now) {
				c.ExpiresAt = s.now.AddDate(0, 0, 30)
			}
			if _, err := s.classifieds.Create(ctx, c); err != nil {
				return err
			}
		}
	} else {
		s.logger.Info("classifieds present, skipping")
	}

	for _, position := range []domain.AdPosition{domain.AdPositionHeroSlider, domain.AdPositionSidebar} {
		current, err := s.ads.ForPosition(ctx, position)
		if err != nil {
			return err
		}
		if len(current) > 0 {
			s.logger.Info("ads present, skipping", "position", position)
			continue
		}
		for _, ad := range s.data.Ads(position) {
			ad.ID = ""
			if _, err := s.ads.Create(ctx, ad); err != nil {
				return err
			}
		}
	}
	return nil
}
