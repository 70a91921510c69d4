package ticket

import (
	"context"
	"errors"
	"fmt"

	"event-tickets-backend/ledger"
	"event-tickets-backend/model"
)

// ErrNotFound indicates the ticket does not exist.
var ErrNotFound = errors.New("ticket not found")

func (s *Service) Get(ctx context.Context, ticketID string) (*model.Ticket, error) {
	t, err := s.Ledger.GetTicket(ctx, ticketID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (s *Service) ListByUser(ctx context.Context, email string) ([]model.Ticket, error) {
	tickets, err := s.Ledger.ListTicketsByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list tickets by user: %w", err)
	}
	return tickets, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]model.Ticket, error) {
	tickets, err := s.Ledger.ListTicketsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by event: %w", err)
	}
	return tickets, nil
}
