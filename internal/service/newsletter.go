package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

type NewsletterService struct {
	store  DocumentStore
	logger *slog.Logger
}

func NewNewsletterService(store DocumentStore, logger *slog.Logger) *NewsletterService {
	return &NewsletterService{
		store:  store,
		logger: logger.With("service", "newsletter"),
	}
}

func decodeNewsletter(doc storage.Document) (domain.Newsletter, error) {
	var n domain.Newsletter
	if err := doc.DataTo(&n); err != nil {
		return n, err
	}
	n.ID = doc.ID
	return n, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address only, without a display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *NewsletterService) find(ctx context.Context, email string) (*domain.Newsletter, error) {
	q := storage.NewQuery(CollectionNewsletter).Where("email", storage.OpEqual, email).WithLimit(1)
	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	n, err := decodeNewsletter(docs[0])
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Subscribe records email with prefs, or the default preferences when prefs
// is nil. An active subscription fails with ErrDuplicateEmail and nothing is
// written; an unsubscribed one is reactivated with the new preferences.
func (s *NewsletterService) Subscribe(ctx context.Context, email string, prefs *domain.NewsletterPreferences) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}
	p := domain.DefaultNewsletterPreferences()
	if prefs != nil {
		p = *prefs
		if p.Categories == nil {
			p.Categories = []string{}
		}
		if p.Frequency == "" {
			p.Frequency = domain.FrequencyWeekly
		}
	}

	existing, err := s.find(ctx, email)
	if err != nil {
		return storeError("subscribe", err)
	}
	if existing != nil {
		if existing.Status == domain.NewsletterStatusActive {
			return domain.ErrDuplicateEmail
		}
		err := s.store.Update(ctx, CollectionNewsletter, existing.ID, map[string]any{
			"status":      domain.NewsletterStatusActive,
			"preferences": p,
		})
		if err != nil {
			return storeError("subscribe", err)
		}
		s.logger.Info("newsletter subscription reactivated", "id", existing.ID)
		return nil
	}

	id, err := s.store.Create(ctx, CollectionNewsletter, domain.Newsletter{
		Email:       email,
		Status:      domain.NewsletterStatusActive,
		Preferences: p,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		// Lost the race against a concurrent subscribe for the same email.
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return storeError("subscribe", err)
	}
	s.logger.Info("newsletter subscription created", "id", id)
	return nil
}

// Unsubscribe marks the subscription for email as unsubscribed. An unknown
// email is not an error.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	existing, err := s.find(ctx, normalizeEmail(email))
	if err != nil {
		return storeError("unsubscribe", err)
	}
	if existing == nil || existing.Status == domain.NewsletterStatusUnsubscribed {
		return nil
	}
	err = s.store.Update(ctx, CollectionNewsletter, existing.ID, map[string]any{
		"status": domain.NewsletterStatusUnsubscribed,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	s.logger.Info("newsletter unsubscribed", "id", existing.ID)
	return nil
}
