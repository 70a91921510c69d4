package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"event-tickets-backend/model"
)

const ticketColumns = `id, event_id, user_id, user_email, user_name, purchase_date, status,
	 is_comp, comp_issued_by, comp_reason, payment_intent_id, checkout_session_id,
	 qr_code_data, checked_in_at, checked_in_by, quantity, amount_paid, created_at`

func (s *MySQL) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?;`
	row := s.db.QueryRowContext(ctx, q, id)

	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getTicket: error scanning ticket: %w", err)
	}
	return t, nil
}

func (s *MySQL) PutTicket(ctx context.Context, t *model.Ticket) error {
	q := `INSERT INTO tickets (` + ticketColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := s.db.ExecContext(ctx, q,
		t.ID, t.EventID, t.UserID, t.UserEmail, t.UserName, t.PurchaseDate, string(t.Status),
		t.IsComp, t.CompIssuedBy, t.CompReason, t.PaymentIntentID, t.CheckoutSessionID,
		t.QRCodeData, t.CheckedInAt, t.CheckedInBy, t.Quantity, t.AmountPaid, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("putTicket: error inserting ticket: %w", err)
	}
	return nil
}

// TransitionTicket performs the conditional update that guards every
// ticket state change: the write lands only if the row still carries the
// required prior status at the moment of the UPDATE. A zero rows-affected
// result means another caller already moved the ticket on, reported as
// ErrPreconditionFailed with no partial effect.
func (s *MySQL) TransitionTicket(ctx context.Context, id string, prior model.TicketStatus, mut TicketMutation) error {
	set := []string{"status = ?"}
	args := []interface{}{string(mut.Status)}

	if mut.QRCodeData != nil {
		set = append(set, "qr_code_data = ?")
		args = append(args, *mut.QRCodeData)
	}
	if mut.PaymentIntentID != nil {
		set = append(set, "payment_intent_id = ?")
		args = append(args, *mut.PaymentIntentID)
	}
	if mut.CheckedInAt != nil {
		set = append(set, "checked_in_at = ?")
		args = append(args, *mut.CheckedInAt)
	}
	if mut.CheckedInBy != nil {
		set = append(set, "checked_in_by = ?")
		args = append(args, *mut.CheckedInBy)
	}
	args = append(args, id, string(prior))

	q := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = ? AND status = ?;`, strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("transitionTicket: error updating ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transitionTicket: error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrPreconditionFailed
	}
	return nil
}

func (s *MySQL) ListTicketsByEvent(ctx context.Context, eventID string) ([]model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = ? ORDER BY created_at DESC;`
	return s.listTickets(ctx, q, eventID)
}

// ListTicketsByUser keys on the purchase email rather than the identity
// subject, so tickets bought before an account existed still show up.
func (s *MySQL) ListTicketsByUser(ctx context.Context, email string) ([]model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_email = ? ORDER BY created_at DESC;`
	return s.listTickets(ctx, q, email)
}

func (s *MySQL) listTickets(ctx context.Context, q string, arg interface{}) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("listTickets: error querying tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("listTickets: error scanning ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func scanTicket(row rowScanner) (*model.Ticket, error) {
	var t model.Ticket
	var status string
	var compIssuedBy, compReason, paymentIntentID, checkoutSessionID, qrCodeData, checkedInBy sql.NullString
	var checkedInAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.EventID, &t.UserID, &t.UserEmail, &t.UserName, &t.PurchaseDate, &status,
		&t.IsComp, &compIssuedBy, &compReason, &paymentIntentID, &checkoutSessionID,
		&qrCodeData, &checkedInAt, &checkedInBy, &t.Quantity, &t.AmountPaid, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = model.TicketStatus(status)
	t.CompIssuedBy = nullableString(compIssuedBy)
	t.CompReason = nullableString(compReason)
	t.PaymentIntentID = nullableString(paymentIntentID)
	t.CheckoutSessionID = nullableString(checkoutSessionID)
	t.QRCodeData = nullableString(qrCodeData)
	t.CheckedInBy = nullableString(checkedInBy)
	if checkedInAt.Valid {
		v := checkedInAt.Time
		t.CheckedInAt = &v
	}
	return &t, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
