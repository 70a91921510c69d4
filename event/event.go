// Package event implements event administration: creation, reads, edits
// and soft deletion. Counter fields are never written here; they move
// only through the ledger's atomic adds on the purchase and comp paths.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/logger"
	"event-tickets-backend/model"

	"github.com/go-redis/redis"
)

const listCacheKey = "events:list:%s:%d"

var (
	// ErrNotFound is returned when the requested event does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrHasTickets is returned when deleting an event that already has
	// sold or comp tickets; those events can only be cancelled via update.
	ErrHasTickets = errors.New("event has issued tickets")
)

type Service struct {
	Ledger   ledger.Store
	Cache    *redis.Client
	CacheTTL time.Duration
}

func NewService(store ledger.Store, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{Ledger: store, Cache: cache, CacheTTL: cacheTTL}
}

func (s *Service) Create(ctx context.Context, createdBy string, req model.CreateEventRequest) (*model.Event, error) {
	date, _ := time.Parse(time.RFC3339, req.Date)
	endDate, _ := time.Parse(time.RFC3339, req.EndDate)
	now := time.Now().UTC()

	e := &model.Event{
		ID:          model.NewEventID(),
		Name:        req.Name,
		Description: req.Description,
		Date:        date.UTC(),
		EndDate:     endDate.UTC(),
		Location:    req.Location,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Status:      model.EventStatusDraft,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
	}

	if err := s.Ledger.PutEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create: error storing event: %w", err)
	}

	s.invalidateListCache(ctx)
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.Ledger.GetEvent(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get: error fetching event: %w", err)
	}
	return e, nil
}

// List returns events with the given status, freshest from the cache when
// available. The cache is short-lived convenience for the public
// storefront; the ledger stays the source of truth.
func (s *Service) List(ctx context.Context, status model.EventStatus, limit int) ([]model.Event, error) {
	key := fmt.Sprintf(listCacheKey, status, limit)

	if s.Cache != nil {
		cached, err := s.Cache.Get(key).Result()
		if err == nil {
			var events []model.Event
			if err := json.Unmarshal([]byte(cached), &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := s.Ledger.ListEventsByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list: error querying events: %w", err)
	}

	if s.Cache != nil {
		if encoded, err := json.Marshal(events); err == nil {
			if err := s.Cache.Set(key, encoded, s.CacheTTL).Err(); err != nil {
				logger.Warnf(ctx, "list: unable to cache event listing: %+v", err)
			}
		}
	}

	return events, nil
}

func (s *Service) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	var cols []string
	var vals []interface{}

	if req.Name != nil {
		cols, vals = append(cols, "name"), append(vals, *req.Name)
	}
	if req.Description != nil {
		cols, vals = append(cols, "description"), append(vals, *req.Description)
	}
	if req.Date != nil {
		date, _ := time.Parse(time.RFC3339, *req.Date)
		cols, vals = append(cols, "date"), append(vals, date.UTC())
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse(time.RFC3339, *req.EndDate)
		cols, vals = append(cols, "end_date"), append(vals, endDate.UTC())
	}
	if req.Location != nil {
		cols, vals = append(cols, "location"), append(vals, *req.Location)
	}
	if req.Price != nil {
		cols, vals = append(cols, "price"), append(vals, *req.Price)
	}
	if req.Capacity != nil {
		cols, vals = append(cols, "capacity"), append(vals, *req.Capacity)
	}
	if req.ImageURL != nil {
		cols, vals = append(cols, "image_url"), append(vals, *req.ImageURL)
	}
	if req.Status != nil {
		cols, vals = append(cols, "status"), append(vals, string(*req.Status))
	}

	if err := s.Ledger.UpdateEvent(ctx, id, cols, vals); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update: error updating event: %w", err)
	}

	s.invalidateListCache(ctx)
	return s.Get(ctx, id)
}

// Delete is a soft delete: the event is cancelled, never removed.
// Events that already issued tickets are refused; cancelling those is a
// deliberate status update, not a delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.TicketsSold > 0 || e.CompTicketsIssued > 0 {
		return ErrHasTickets
	}

	cancelled := model.EventStatusCancelled
	if _, err := s.Update(ctx, id, model.UpdateEventRequest{Status: &cancelled}); err != nil {
		return fmt.Errorf("delete: error cancelling event: %w", err)
	}
	return nil
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	keys, err := s.Cache.Keys("events:list:*").Result()
	if err != nil {
		logger.Warnf(ctx, "invalidateListCache: unable to scan cache keys: %+v", err)
		return
	}
	if len(keys) > 0 {
		if err := s.Cache.Del(keys...).Err(); err != nil {
			logger.Warnf(ctx, "invalidateListCache: unable to drop cache keys: %+v", err)
		}
	}
}
