package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"event-tickets-backend/model"
)

const eventColumns = `id, name, description, date, end_date, location, price, capacity,
	 tickets_sold, comp_tickets_issued, status, image_url, created_at, updated_at, created_by`

func (s *MySQL) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = ?;`
	row := s.db.QueryRowContext(ctx, q, id)

	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getEvent: error scanning event: %w", err)
	}
	return e, nil
}

func (s *MySQL) PutEvent(ctx context.Context, e *model.Event) error {
	q := `INSERT INTO events (` + eventColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := s.db.ExecContext(ctx, q,
		e.ID, e.Name, e.Description, e.Date, e.EndDate, e.Location, e.Price, e.Capacity,
		e.TicketsSold, e.CompTicketsIssued, string(e.Status), e.ImageURL, e.CreatedAt, e.UpdatedAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("putEvent: error inserting event: %w", err)
	}
	return nil
}

// UpdateEvent writes the given columns and bumps updated_at. It does not
// touch the sold/comp counters; those only move through the atomic adds.
func (s *MySQL) UpdateEvent(ctx context.Context, id string, cols []string, vals []interface{}) error {
	if len(cols) == 0 {
		return nil
	}
	set := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		set = append(set, fmt.Sprintf("%s = ?", c))
	}
	set = append(set, "updated_at = ?")
	args := append(append([]interface{}{}, vals...), time.Now().UTC(), id)

	q := fmt.Sprintf(`UPDATE events SET %s WHERE id = ?;`, strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("updateEvent: error updating event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updateEvent: error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQL) ListEventsByStatus(ctx context.Context, status model.EventStatus, limit int) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE status = ? ORDER BY date ASC LIMIT ?;`
	rows, err := s.db.QueryContext(ctx, q, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("listEventsByStatus: error querying events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("listEventsByStatus: error scanning event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// AddTicketsSold moves the sold counter with a single atomic add, never a
// read-modify-write.
func (s *MySQL) AddTicketsSold(ctx context.Context, eventID string, qty int64) error {
	return s.addCounter(ctx, "tickets_sold", eventID, qty)
}

func (s *MySQL) AddCompTicketsIssued(ctx context.Context, eventID string, qty int64) error {
	return s.addCounter(ctx, "comp_tickets_issued", eventID, qty)
}

func (s *MySQL) addCounter(ctx context.Context, column, eventID string, qty int64) error {
	q := fmt.Sprintf(`UPDATE events SET %s = %s + ? WHERE id = ?;`, column, column)
	res, err := s.db.ExecContext(ctx, q, qty, eventID)
	if err != nil {
		return fmt.Errorf("addCounter: error incrementing %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("addCounter: error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	var status string
	var capacity sql.NullInt64
	var imageURL sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.EndDate, &e.Location, &e.Price, &capacity,
		&e.TicketsSold, &e.CompTicketsIssued, &status, &imageURL, &e.CreatedAt, &e.UpdatedAt, &e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	e.Status = model.EventStatus(status)
	if capacity.Valid {
		v := capacity.Int64
		e.Capacity = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		e.ImageURL = &v
	}
	return &e, nil
}
