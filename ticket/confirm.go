package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/logger"
	"event-tickets-backend/mailer"
	"event-tickets-backend/model"
	"event-tickets-backend/payment"
)

// HandleWebhook consumes a verified payment notification. Delivery is
// at-least-once and possibly duplicated; the PENDING-to-VALID conditional
// update is the single point that makes every retry a no-op. Any error
// returned here surfaces as a 500 so the payment collaborator retries.
func (s *Service) HandleWebhook(ctx context.Context, event *payment.WebhookEvent) error {
	switch event.Type {
	case payment.EventCheckoutSessionCompleted:
		return s.handleCompleted(ctx, event)
	case payment.EventCheckoutSessionExpired:
		return s.handleExpired(ctx, event)
	case payment.EventChargeRefunded:
		return s.handleRefunded(ctx, event)
	default:
		logger.Debugf(ctx, "handleWebhook: ignoring event type %s", event.Type)
		return nil
	}
}

func (s *Service) handleCompleted(ctx context.Context, event *payment.WebhookEvent) error {
	session, err := event.Session()
	if err != nil {
		return fmt.Errorf("handleCompleted: %w", err)
	}

	eventID := session.Metadata["eventId"]
	ticketID := session.Metadata["ticketId"]
	userID := session.Metadata["userId"]
	if eventID == "" || ticketID == "" {
		return fmt.Errorf("handleCompleted: session %s missing ticket metadata", session.ID)
	}

	qrToken, err := s.Tokens.Issue(ticketID, eventID, userID)
	if err != nil {
		return fmt.Errorf("handleCompleted: error minting admission token: %w", err)
	}

	paymentIntent := session.PaymentIntent
	err = s.Ledger.TransitionTicket(ctx, ticketID, model.TicketStatusPending, ledger.TicketMutation{
		Status:          model.TicketStatusValid,
		QRCodeData:      &qrToken,
		PaymentIntentID: &paymentIntent,
	})
	if errors.Is(err, ledger.ErrPreconditionFailed) {
		// Duplicate delivery: the ticket already left PENDING. Exactly-once
		// promotion means we acknowledge and do nothing more.
		logger.Infof(ctx, "handleCompleted: ticket %s already processed, skipping duplicate webhook", ticketID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("handleCompleted: error promoting ticket %s: %w", ticketID, err)
	}

	t, err := s.Ledger.GetTicket(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("handleCompleted: error re-reading ticket %s: %w", ticketID, err)
	}

	if err := s.Ledger.AddTicketsSold(ctx, eventID, t.Quantity); err != nil {
		return fmt.Errorf("handleCompleted: error incrementing tickets sold for event %s: %w", eventID, err)
	}

	n := mailer.Notification{
		Type:     mailer.TypeTicketConfirmation,
		TicketID: ticketID,
		EventID:  eventID,
		UserID:   userID,
		QRToken:  qrToken,
		Email:    session.CustomerEmail,
		UserName: t.UserName,
	}
	if e, err := s.Ledger.GetEvent(ctx, eventID); err == nil {
		n.EventName = e.Name
		n.EventDate = e.Date.Format(time.RFC3339)
		n.EventLocation = e.Location
	} else {
		logger.Warnf(ctx, "handleCompleted: unable to load event %s for notification: %+v", eventID, err)
	}
	s.notify(ctx, n)

	return nil
}

// handleExpired is best effort: the session lapsed without payment, so a
// still-PENDING ticket is cancelled. A precondition failure means the
// ticket moved on some other way and is not an error.
func (s *Service) handleExpired(ctx context.Context, event *payment.WebhookEvent) error {
	session, err := event.Session()
	if err != nil {
		return fmt.Errorf("handleExpired: %w", err)
	}

	ticketID := session.Metadata["ticketId"]
	if ticketID == "" {
		return fmt.Errorf("handleExpired: session %s missing ticket metadata", session.ID)
	}

	err = s.Ledger.TransitionTicket(ctx, ticketID, model.TicketStatusPending, ledger.TicketMutation{
		Status: model.TicketStatusCancelled,
	})
	if err != nil && !errors.Is(err, ledger.ErrPreconditionFailed) {
		return fmt.Errorf("handleExpired: error cancelling ticket %s: %w", ticketID, err)
	}
	return nil
}

// handleRefunded only acknowledges: reconciling refunds back onto ticket
// state by payment reference is a known gap.
func (s *Service) handleRefunded(ctx context.Context, event *payment.WebhookEvent) error {
	charge, err := event.Charge()
	if err != nil {
		return fmt.Errorf("handleRefunded: %w", err)
	}
	logger.Infof(ctx, "handleRefunded: refund received for payment intent %s", charge.PaymentIntent)
	return nil
}
