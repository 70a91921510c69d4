package event

import (
	"context"
	"strings"
	"testing"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore embeds the interface and backs only the event methods; the
// service under test never touches the rest.
type fakeStore struct {
	ledger.Store
	events map[string]*model.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: map[string]*model.Event{}}
}

func (s *fakeStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeStore) PutEvent(_ context.Context, e *model.Event) error {
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateEvent(_ context.Context, id string, cols []string, vals []interface{}) error {
	e, ok := s.events[id]
	if !ok {
		return ledger.ErrNotFound
	}
	for i, col := range cols {
		switch col {
		case "name":
			e.Name = vals[i].(string)
		case "description":
			e.Description = vals[i].(string)
		case "location":
			e.Location = vals[i].(string)
		case "price":
			e.Price = vals[i].(int64)
		case "status":
			e.Status = model.EventStatus(vals[i].(string))
		case "date":
			e.Date = vals[i].(time.Time)
		case "end_date":
			e.EndDate = vals[i].(time.Time)
		case "capacity":
			v := vals[i].(int64)
			e.Capacity = &v
		}
	}
	return nil
}

func (s *fakeStore) ListEventsByStatus(_ context.Context, status model.EventStatus, limit int) ([]model.Event, error) {
	var events []model.Event
	for _, e := range s.events {
		if e.Status == status && len(events) < limit {
			events = append(events, *e)
		}
	}
	return events, nil
}

func createRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Name:        "Spring Concert",
		Description: "An evening of music",
		Date:        "2026-05-01T19:00:00Z",
		EndDate:     "2026-05-01T22:00:00Z",
		Location:    "Main Hall",
		Price:       2500,
	}
}

func TestCreate(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, 0)

	e, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(e.ID, "evt_"))
	assert.Len(t, e.ID, len("evt_")+16)
	assert.Equal(t, model.EventStatusDraft, e.Status)
	assert.Equal(t, "usr_admin", e.CreatedBy)
	assert.Equal(t, int64(0), e.TicketsSold)
	assert.Nil(t, e.Capacity)
	assert.Equal(t, time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC), e.Date)

	stored, err := store.GetEvent(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Name, stored.Name)
}

func TestGetFailsForUnknownEvent(t *testing.T) {
	service := NewService(newFakeStore(), nil, 0)

	_, err := service.Get(context.Background(), "evt_missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, 0)

	e, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)

	name := "Summer Concert"
	price := int64(3000)
	active := model.EventStatusActive
	updated, err := service.Update(context.Background(), e.ID, model.UpdateEventRequest{
		Name:   &name,
		Price:  &price,
		Status: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "Summer Concert", updated.Name)
	assert.Equal(t, int64(3000), updated.Price)
	assert.Equal(t, model.EventStatusActive, updated.Status)
	assert.Equal(t, "An evening of music", updated.Description)
}

func TestUpdateFailsForUnknownEvent(t *testing.T) {
	service := NewService(newFakeStore(), nil, 0)

	name := "Anything"
	_, err := service.Update(context.Background(), "evt_missing", model.UpdateEventRequest{Name: &name})
	assert.Equal(t, ErrNotFound, err)
}

func TestDeleteIsSoftDelete(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, 0)

	e, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), e.ID))

	stored, err := service.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusCancelled, stored.Status)
}

func TestDeleteRefusedWhenTicketsIssued(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, 0)

	e, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)
	store.events[e.ID].TicketsSold = 3

	err = service.Delete(context.Background(), e.ID)
	assert.Equal(t, ErrHasTickets, err)

	stored, _ := service.Get(context.Background(), e.ID)
	assert.Equal(t, model.EventStatusDraft, stored.Status)
}

func TestListFiltersByStatus(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil, 0)

	draft, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)

	other, err := service.Create(context.Background(), "usr_admin", createRequest())
	require.NoError(t, err)
	active := model.EventStatusActive
	_, err = service.Update(context.Background(), other.ID, model.UpdateEventRequest{Status: &active})
	require.NoError(t, err)

	events, err := service.List(context.Background(), model.EventStatusActive, 50)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, other.ID, events[0].ID)
	assert.NotEqual(t, draft.ID, events[0].ID)
}
