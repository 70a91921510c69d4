package ticket

import (
	"context"
	"sync"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/model"
)

// memStore is an in-memory ledger.Store with the same concurrency
// contract as the real one: transitions are compare-and-set on the prior
// status, counter adds are atomic under the lock.
type memStore struct {
	mu      sync.Mutex
	events  map[string]*model.Event
	tickets map[string]*model.Ticket
	users   map[string]*model.User
}

func newMemStore() *memStore {
	return &memStore{
		events:  map[string]*model.Event{},
		tickets: map[string]*model.Ticket{},
		users:   map[string]*model.User{},
	}
}

func (s *memStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) PutEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *memStore) UpdateEvent(_ context.Context, id string, cols []string, vals []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
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
		case "image_url":
			v := vals[i].(string)
			e.ImageURL = &v
		}
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) ListEventsByStatus(_ context.Context, status model.EventStatus, limit int) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []model.Event
	for _, e := range s.events {
		if e.Status == status && len(events) < limit {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (s *memStore) AddTicketsSold(_ context.Context, eventID string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return ledger.ErrNotFound
	}
	e.TicketsSold += qty
	return nil
}

func (s *memStore) AddCompTicketsIssued(_ context.Context, eventID string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return ledger.ErrNotFound
	}
	e.CompTicketsIssued += qty
	return nil
}

func (s *memStore) GetTicket(_ context.Context, id string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) PutTicket(_ context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tickets[t.ID] = &cp
	return nil
}

func (s *memStore) TransitionTicket(_ context.Context, id string, prior model.TicketStatus, mut ledger.TicketMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok || t.Status != prior {
		return ledger.ErrPreconditionFailed
	}
	t.Status = mut.Status
	if mut.QRCodeData != nil {
		t.QRCodeData = mut.QRCodeData
	}
	if mut.PaymentIntentID != nil {
		t.PaymentIntentID = mut.PaymentIntentID
	}
	if mut.CheckedInAt != nil {
		t.CheckedInAt = mut.CheckedInAt
	}
	if mut.CheckedInBy != nil {
		t.CheckedInBy = mut.CheckedInBy
	}
	return nil
}

func (s *memStore) ListTicketsByEvent(_ context.Context, eventID string) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tickets []model.Ticket
	for _, t := range s.tickets {
		if t.EventID == eventID {
			tickets = append(tickets, *t)
		}
	}
	return tickets, nil
}

func (s *memStore) ListTicketsByUser(_ context.Context, email string) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tickets []model.Ticket
	for _, t := range s.tickets {
		if t.UserEmail == email {
			tickets = append(tickets, *t)
		}
	}
	return tickets, nil
}

func (s *memStore) GetUserBySubject(_ context.Context, subject string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Subject == subject {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (s *memStore) PutUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) UpdateUser(_ context.Context, id string, cols []string, vals []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ledger.ErrNotFound
	}
	for i, col := range cols {
		switch col {
		case "name":
			u.Name = vals[i].(string)
		case "phone":
			v := vals[i].(string)
			u.Phone = &v
		}
	}
	return nil
}
