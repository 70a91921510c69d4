// Package ticket implements the ticket lifecycle: checkout reservation,
// payment confirmation, comp issuance and check-in admission. All state
// lives in the ledger; every transition is a conditional write against an
// explicit prior status, so concurrent callers race safely.
package ticket

import (
	"context"
	"errors"
	"fmt"

	"event-tickets-backend/ledger"
	"event-tickets-backend/logger"
	"event-tickets-backend/mailer"
	"event-tickets-backend/payment"
	"event-tickets-backend/token"
)

var (
	// ErrEventNotFound is returned when the target event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventNotActive is returned when tickets are requested for an
	// event not open for purchase.
	ErrEventNotActive = errors.New("event is not available for purchase")

	// ErrEventNotEligible is returned when comp tickets are requested for
	// a cancelled or past event.
	ErrEventNotEligible = errors.New("cannot issue comp tickets for this event")
)

// AvailabilityError reports the advisory capacity check failing. The
// check is read-then-decide, not transactional: two simultaneous
// checkouts for the last seats can both pass it (known oversell gap,
// deliberately left open).
type AvailabilityError struct {
	Available int64
}

func (e *AvailabilityError) Error() string {
	if e.Available < 0 {
		return "no tickets available"
	}
	return fmt.Sprintf("only %d tickets available", e.Available)
}

type Service struct {
	Ledger          ledger.Store
	Payments        payment.Client
	Tokens          *token.Issuer
	Mail            mailer.Notifier
	FrontendBaseURL string
}

func NewService(store ledger.Store, payments payment.Client, tokens *token.Issuer, mail mailer.Notifier, frontendBaseURL string) *Service {
	return &Service{
		Ledger:          store,
		Payments:        payments,
		Tokens:          tokens,
		Mail:            mail,
		FrontendBaseURL: frontendBaseURL,
	}
}

// notify invokes the email collaborator without blocking the caller and
// without letting a delivery failure affect ticket state.
func (s *Service) notify(ctx context.Context, n mailer.Notification) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf(ctx, "notify: panic sending notification: %v", r)
			}
		}()
		if err := s.Mail.Notify(context.Background(), n); err != nil {
			logger.Errorf(ctx, "notify: unable to send %s for ticket %s: %+v", n.Type, n.TicketID, err)
		}
	}()
}
