package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

const adSlotKeyPrefix = "ads:slot:"

type AdvertisementService struct {
	store    DocumentStore
	cache    Cache
	cacheTTL time.Duration
	events   notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdvertisementService builds the ad service. cache may be nil.
func NewAdvertisementService(store DocumentStore, cache Cache, cacheTTL time.Duration, publisher Publisher, logger *slog.Logger) *AdvertisementService {
	logger = logger.With("service", "advertisements")
	return &AdvertisementService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		events:   notifier{publisher: publisher, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

func decodeAdvertisement(doc storage.Document) (domain.Advertisement, error) {
	var a domain.Advertisement
	if err := doc.DataTo(&a); err != nil {
		return a, err
	}
	a.ID = doc.ID
	return a, nil
}

// adSlotQuery selects the ads eligible at now for position. Equal priorities
// fall back to the oldest ad first, then to id.
func adSlotQuery(position domain.AdPosition, now time.Time) storage.Query {
	return storage.NewQuery(CollectionAdvertisements).
		Where("position", storage.OpEqual, position).
		Where("status", storage.OpEqual, domain.AdStatusActive).
		Where("startDate", storage.OpLessOrEqual, now).
		Where("endDate", storage.OpGreaterOrEqual, now).
		OrderBy("priority", storage.Desc, storage.KindNumber).
		OrderBy(storage.FieldCreatedAt, storage.Asc, storage.KindTime)
}

// ForPosition returns the ads to show in a slot, highest priority first.
// Cached slots are re-checked against the current time so an ad never
// outlives its window, and a slot is cached no longer than until the next
// scheduled ad in it starts.
func (s *AdvertisementService) ForPosition(ctx context.Context, position domain.AdPosition) ([]domain.Advertisement, error) {
	now := s.now()

	if s.cache != nil {
		var cached []domain.Advertisement
		found, err := s.cache.Get(ctx, adSlotKeyPrefix+string(position), &cached)
		if err != nil {
			s.logger.Warn("ad cache read failed", "position", position, "error", err)
		} else if found {
			return eligibleAt(cached, now), nil
		}
	}

	docs, err := s.store.Query(ctx, adSlotQuery(position, now))
	if err != nil {
		return nil, storeError("get advertisements", err)
	}
	ads, err := decodeAll(docs, decodeAdvertisement)
	if err != nil {
		return nil, fmt.Errorf("get advertisements: %w", err)
	}

	if s.cache != nil {
		s.fillSlot(ctx, position, ads, now)
	}
	return ads, nil
}

func (s *AdvertisementService) fillSlot(ctx context.Context, position domain.AdPosition, ads []domain.Advertisement, now time.Time) {
	ttl, err := s.slotTTL(ctx, position, now)
	if err != nil {
		s.logger.Warn("skipping ad cache write", "position", position, "error", err)
		return
	}
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, adSlotKeyPrefix+string(position), ads, ttl); err != nil {
		s.logger.Warn("ad cache write failed", "position", position, "error", err)
	}
}

// slotTTL caps the cache TTL at the start of the next scheduled ad.
func (s *AdvertisementService) slotTTL(ctx context.Context, position domain.AdPosition, now time.Time) (time.Duration, error) {
	q := storage.NewQuery(CollectionAdvertisements).
		Where("position", storage.OpEqual, position).
		Where("status", storage.OpEqual, domain.AdStatusActive).
		Where("startDate", storage.OpGreater, now).
		OrderBy("startDate", storage.Asc, storage.KindTime).
		WithLimit(1)

	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return s.cacheTTL, nil
	}
	next, err := decodeAdvertisement(docs[0])
	if err != nil {
		return 0, err
	}
	return min(s.cacheTTL, next.StartDate.Sub(now)), nil
}

func eligibleAt(ads []domain.Advertisement, t time.Time) []domain.Advertisement {
	out := make([]domain.Advertisement, 0, len(ads))
	for i := range ads {
		if ads[i].Eligible(t) {
			out = append(out, ads[i])
		}
	}
	return out
}

func (s *AdvertisementService) TrackClick(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionAdvertisements, id, "clicks")
}

func (s *AdvertisementService) TrackImpression(ctx context.Context, id string) error {
	return increment(ctx, s.store, CollectionAdvertisements, id, "impressions")
}

func (s *AdvertisementService) Create(ctx context.Context, ad domain.Advertisement) (string, error) {
	id, err := s.store.Create(ctx, CollectionAdvertisements, ad)
	if err != nil {
		return "", storeError("create advertisement", err)
	}
	s.invalidate(ctx, ad.Position)
	s.events.changed(ctx, CollectionAdvertisements, id, domain.ChangeCreate)
	return id, nil
}

func (s *AdvertisementService) Update(ctx context.Context, id string, upd domain.AdvertisementUpdate) error {
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, CollectionAdvertisements, id, fields); err != nil {
		return storeError("update advertisement", err)
	}
	s.invalidateAll(ctx)
	s.events.changed(ctx, CollectionAdvertisements, id, domain.ChangeUpdate)
	return nil
}

func (s *AdvertisementService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, CollectionAdvertisements, id); err != nil {
		return storeError("delete advertisement", err)
	}
	s.invalidateAll(ctx)
	s.events.changed(ctx, CollectionAdvertisements, id, domain.ChangeDelete)
	return nil
}

func (s *AdvertisementService) invalidate(ctx context.Context, positions ...domain.AdPosition) {
	if s.cache == nil || len(positions) == 0 {
		return
	}
	keys := make([]string, len(positions))
	for i, p := range positions {
		keys[i] = adSlotKeyPrefix + string(p)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("ad cache invalidation failed", "error", err)
	}
}

// invalidateAll drops every slot since an update or delete may move an ad
// between positions.
func (s *AdvertisementService) invalidateAll(ctx context.Context) {
	s.invalidate(ctx,
		domain.AdPositionHeroSlider,
		domain.AdPositionSidebar,
		domain.AdPositionContent,
		domain.AdPositionFooter,
	)
}
