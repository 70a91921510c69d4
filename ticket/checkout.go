package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/model"
	"event-tickets-backend/payment"
)

// CheckoutResult hands the storefront its redirect target plus the
// reserved ticket id for its confirmation polling.
type CheckoutResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
	TicketID    string `json:"ticketId"`
}

// Checkout reserves a PENDING ticket and obtains a payment session for
// it. Event counters are untouched here: they only move once payment is
// confirmed. The availability check is advisory (see AvailabilityError).
func (s *Service) Checkout(ctx context.Context, eventID string, caller *model.Identity, req model.CheckoutRequest) (*CheckoutResult, error) {
	e, err := s.Ledger.GetEvent(ctx, eventID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checkout: error fetching event: %w", err)
	}

	if e.Status != model.EventStatusActive {
		return nil, ErrEventNotActive
	}

	// Nil capacity means unlimited. With a capacity the raw difference
	// decides, negative included: an oversold event sells nothing more.
	if e.Capacity != nil {
		available := *e.Capacity - e.TicketsSold - e.CompTicketsIssued
		if available < req.Quantity {
			return nil, &AvailabilityError{Available: available}
		}
	}

	ticketID := model.NewTicketID()
	now := time.Now().UTC()

	session, err := s.Payments.CreateCheckoutSession(ctx, payment.SessionParams{
		EventID:       eventID,
		TicketID:      ticketID,
		UserID:        caller.UserID,
		EventName:     e.Name,
		Description:   fmt.Sprintf("Ticket for %s on %s", e.Name, e.Date.Format(time.RFC3339)),
		UnitAmount:    e.Price,
		Quantity:      req.Quantity,
		SuccessURL:    fmt.Sprintf("%s/events/%s/confirmation?ticketId=%s", s.FrontendBaseURL, eventID, ticketID),
		CancelURL:     fmt.Sprintf("%s/events/%s", s.FrontendBaseURL, eventID),
		CustomerEmail: caller.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: error creating payment session: %w", err)
	}

	sessionID := session.ID
	t := &model.Ticket{
		ID:                ticketID,
		EventID:           eventID,
		UserID:            caller.UserID,
		UserEmail:         caller.Email,
		PurchaseDate:      now,
		Status:            model.TicketStatusPending,
		CheckoutSessionID: &sessionID,
		Quantity:          req.Quantity,
		AmountPaid:        e.Price * req.Quantity,
		CreatedAt:         now,
	}

	if err := s.Ledger.PutTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("checkout: error storing pending ticket: %w", err)
	}

	return &CheckoutResult{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
		TicketID:    ticketID,
	}, nil
}
