package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"local_portal/internal/config"
	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

// Sweeper marks active classifieds past expiresAt and active ads past
// endDate as expired, at most batchSize of each per run.
type Sweeper struct {
	store     DocumentStore
	txManager TransactionManager
	events    notifier
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
}

func NewSweeper(store DocumentStore, txManager TransactionManager, publisher Publisher, logger *slog.Logger, cfg config.SweepConfig) *Sweeper {
	logger = logger.With("service", "sweeper")
	return &Sweeper{
		store:     store,
		txManager: txManager,
		events:    notifier{publisher: publisher, logger: logger},
		logger:    logger,
		batchSize: applyLimit(cfg.BatchSize, 100),
		now:       time.Now,
	}
}

type expiryRule struct {
	collection string
	field      string
	status     any
	expired    any
}

var expiryRules = []expiryRule{
	{CollectionClassifieds, "expiresAt", domain.ClassifiedStatusActive, domain.ClassifiedStatusExpired},
	{CollectionAdvertisements, "endDate", domain.AdStatusActive, domain.AdStatusExpired},
}

func (s *Sweeper) Sweep(ctx context.Context) (*domain.SweepStats, error) {
	start := time.Now()
	now := s.now()

	expired := make(map[string][]string, len(expiryRules))
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for _, rule := range expiryRules {
			ids, err := s.expire(ctx, rule, now)
			if err != nil {
				return err
			}
			expired[rule.collection] = ids
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	for collection, ids := range expired {
		for _, id := range ids {
			s.events.changed(ctx, collection, id, domain.ChangeUpdate)
		}
	}

	stats := &domain.SweepStats{
		ClassifiedsExpired: len(expired[CollectionClassifieds]),
		AdsExpired:         len(expired[CollectionAdvertisements]),
		Duration:           time.Since(start),
	}
	s.logger.Info("sweep completed",
		"classifieds_expired", stats.ClassifiedsExpired,
		"ads_expired", stats.AdsExpired,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (s *Sweeper) expire(ctx context.Context, rule expiryRule, now time.Time) ([]string, error) {
	q := storage.NewQuery(rule.collection).
		Where("status", storage.OpEqual, rule.status).
		Where(rule.field, storage.OpLess, now).
		OrderBy(rule.field, storage.Asc, storage.KindTime).
		WithLimit(s.batchSize)

	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find expired %s: %w", rule.collection, err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := s.store.Update(ctx, rule.collection, doc.ID, map[string]any{"status": rule.expired}); err != nil {
			return nil, fmt.Errorf("expire %s/%s: %w", rule.collection, doc.ID, err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
