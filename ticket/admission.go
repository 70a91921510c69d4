package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-tickets-backend/ledger"
	"event-tickets-backend/logger"
	"event-tickets-backend/model"
)

// Validate runs the check-in state machine for one presented token. Every
// branch terminates in a definitive result; a non-nil error is returned
// only for storage faults the scanner should retry.
//
// Two simultaneous scans of the same ticket resolve through the ledger's
// conditional update: exactly one observes valid:true, every other gets
// ALREADY_CHECKED_IN.
func (s *Service) Validate(ctx context.Context, qrToken string, caller *model.Identity) (*model.ValidationResult, error) {
	claims, err := s.Tokens.Verify(qrToken)
	if err != nil {
		// Expired, malformed, or signed with a different secret: all read
		// as "no longer admissible" to the person at the door.
		return &model.ValidationResult{Valid: false, Reason: model.ReasonExpired}, nil
	}

	t, err := s.Ledger.GetTicket(ctx, claims.TicketID)
	if errors.Is(err, ledger.ErrNotFound) {
		return &model.ValidationResult{Valid: false, Reason: model.ReasonNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate: error fetching ticket %s: %w", claims.TicketID, err)
	}

	holder := t.UserName
	if holder == "" {
		holder = t.UserEmail
	}

	if t.Status == model.TicketStatusUsed {
		return &model.ValidationResult{
			Valid:    false,
			Reason:   model.ReasonAlreadyCheckedIn,
			TicketID: t.ID,
			UserName: holder,
		}, nil
	}

	if t.Status != model.TicketStatusValid {
		return &model.ValidationResult{
			Valid:    false,
			Reason:   model.ReasonInvalid,
			TicketID: t.ID,
		}, nil
	}

	now := time.Now().UTC()
	checkedInBy := caller.UserID
	err = s.Ledger.TransitionTicket(ctx, t.ID, model.TicketStatusValid, ledger.TicketMutation{
		Status:      model.TicketStatusUsed,
		CheckedInAt: &now,
		CheckedInBy: &checkedInBy,
	})
	if errors.Is(err, ledger.ErrPreconditionFailed) {
		// Lost the race to a concurrent scan of the same ticket.
		return &model.ValidationResult{
			Valid:    false,
			Reason:   model.ReasonAlreadyCheckedIn,
			TicketID: t.ID,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate: error admitting ticket %s: %w", t.ID, err)
	}

	eventName := ""
	if e, err := s.Ledger.GetEvent(ctx, claims.EventID); err == nil {
		eventName = e.Name
	} else {
		logger.Warnf(ctx, "validate: unable to load event %s for result: %+v", claims.EventID, err)
	}

	return &model.ValidationResult{
		Valid:     true,
		TicketID:  t.ID,
		UserName:  holder,
		EventName: eventName,
	}, nil
}
