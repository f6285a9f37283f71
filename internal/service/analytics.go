package service

import (
	"context"
	"log/slog"
	"time"

	"local_portal/internal/domain"
)

type AnalyticsService struct {
	store  DocumentStore
	logger *slog.Logger
	now    func() time.Time
}

func NewAnalyticsService(store DocumentStore, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		logger: logger.With("service", "analytics"),
		now:    time.Now,
	}
}

// Record appends an analytics event. A zero Timestamp is set to now.
func (s *AnalyticsService) Record(ctx context.Context, event domain.Analytics) (string, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	id, err := s.store.Create(ctx, CollectionAnalytics, event)
	if err != nil {
		return "", storeError("record analytics", err)
	}
	s.logger.Debug("analytics recorded", "type", event.Type, "id", id)
	return id, nil
}
