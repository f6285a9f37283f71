package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"local_portal/internal/domain"
	"local_portal/internal/storage"
)

// UserService keeps profiles keyed by the identity provider's uid.
type UserService struct {
	store  DocumentStore
	logger *slog.Logger
}

func NewUserService(store DocumentStore, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger.With("service", "users")}
}

func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	doc, err := s.store.Get(ctx, CollectionUsers, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	var u domain.User
	if err := doc.DataTo(&u); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.ID = doc.ID
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, uid string, user domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if err := s.store.Set(ctx, CollectionUsers, uid, user); err != nil {
		return storeError("create user", err)
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, uid string, upd domain.UserUpdate) error {
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, CollectionUsers, uid, fields); err != nil {
		return storeError("update user", err)
	}
	return nil
}
