// Package user manages purchaser profiles. Profiles are created lazily
// on the first authenticated request rather than by a signup hook, so a
// caller always gets a record back.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/model"
)

type Service struct {
	Ledger ledger.Store
}

func NewService(l ledger.Store) *Service {
	return &Service{Ledger: l}
}

// GetOrCreate returns the profile for the authenticated identity,
// creating it on first sight. The identity provider's subject is the
// lookup key; email, name and role are seeded from the token claims.
func (s *Service) GetOrCreate(ctx context.Context, id *model.Identity) (*model.User, error) {
	u, err := s.Ledger.GetUserBySubject(ctx, id.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("getOrCreate: error fetching user: %w", err)
	}

	u = &model.User{
		ID:        model.NewUserID(),
		Email:     id.Email,
		Name:      id.Email,
		Role:      id.Role,
		Subject:   id.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Ledger.PutUser(ctx, u); err != nil {
		return nil, fmt.Errorf("getOrCreate: error creating user: %w", err)
	}
	return u, nil
}

// Update applies the mutable profile fields and returns the fresh record.
func (s *Service) Update(ctx context.Context, id *model.Identity, req model.UpdateProfileRequest) (*model.User, error) {
	u, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	var cols []string
	var vals []interface{}
	if req.Name != nil {
		cols = append(cols, "name")
		vals = append(vals, *req.Name)
	}
	if req.Phone != nil {
		cols = append(cols, "phone")
		vals = append(vals, *req.Phone)
	}
	if len(cols) == 0 {
		return u, nil
	}

	if err := s.Ledger.UpdateUser(ctx, u.ID, cols, vals); err != nil {
		return nil, fmt.Errorf("update: error updating user %s: %w", u.ID, err)
	}
	return s.Ledger.GetUserBySubject(ctx, id.UserID)
}
