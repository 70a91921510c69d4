package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/mailer"
	"event-tickets-backend/model"
)

// compPurchaserID is the uid claim for comp admission tokens: comp
// tickets belong to a named guest, not a registered purchaser.
const compPurchaserID = "comp"

// IssueComp creates a ticket directly in VALID, bypassing payment. The
// comp counter moves through the same atomic add the purchase path uses,
// so the capacity arithmetic stays consistent.
func (s *Service) IssueComp(ctx context.Context, eventID string, issuedBy *model.Identity, req model.CompTicketRequest) (*model.Ticket, error) {
	e, err := s.Ledger.GetEvent(ctx, eventID)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("issueComp: error fetching event: %w", err)
	}

	if e.Status == model.EventStatusCancelled || e.Status == model.EventStatusPast {
		return nil, ErrEventNotEligible
	}

	ticketID := model.NewTicketID()
	now := time.Now().UTC()

	qrToken, err := s.Tokens.Issue(ticketID, eventID, compPurchaserID)
	if err != nil {
		return nil, fmt.Errorf("issueComp: error minting admission token: %w", err)
	}

	issuerID := issuedBy.UserID
	reason := req.Reason
	t := &model.Ticket{
		ID:           ticketID,
		EventID:      eventID,
		UserID:       compPurchaserID,
		UserEmail:    req.UserEmail,
		UserName:     req.UserName,
		PurchaseDate: now,
		Status:       model.TicketStatusValid,
		IsComp:       true,
		CompIssuedBy: &issuerID,
		CompReason:   &reason,
		QRCodeData:   &qrToken,
		Quantity:     req.Quantity,
		AmountPaid:   0,
		CreatedAt:    now,
	}

	if err := s.Ledger.PutTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("issueComp: error storing comp ticket: %w", err)
	}

	if err := s.Ledger.AddCompTicketsIssued(ctx, eventID, req.Quantity); err != nil {
		return nil, fmt.Errorf("issueComp: error incrementing comp counter for event %s: %w", eventID, err)
	}

	s.notify(ctx, mailer.Notification{
		Type:          mailer.TypeCompTicket,
		TicketID:      ticketID,
		EventID:       eventID,
		QRToken:       qrToken,
		Email:         req.UserEmail,
		UserName:      req.UserName,
		EventName:     e.Name,
		EventDate:     e.Date.Format(time.RFC3339),
		EventLocation: e.Location,
	})

	return t, nil
}
