// Package ledger is the single source of truth for Event, Ticket and User
// records. Every status transition goes through a conditional update that
// only succeeds when the record still carries the expected prior status;
// counter moves use atomic adds. Plain read-then-write on shared records
// is not offered.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-tickets-backend/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPreconditionFailed is returned by conditional updates when the
	// record's current status no longer matches the required prior status.
	// Callers treat it as "somebody else got there first", never as a crash.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// TicketMutation describes the fields written by a conditional ticket
// transition. Nil pointer fields are left untouched.
type TicketMutation struct {
	Status          model.TicketStatus
	QRCodeData      *string
	PaymentIntentID *string
	CheckedInAt     *time.Time
	CheckedInBy     *string
}

// Store is the durable keyed storage contract shared by the checkout,
// confirmation and admission paths.
type Store interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	PutEvent(ctx context.Context, e *model.Event) error
	UpdateEvent(ctx context.Context, id string, cols []string, vals []interface{}) error
	ListEventsByStatus(ctx context.Context, status model.EventStatus, limit int) ([]model.Event, error)
	AddTicketsSold(ctx context.Context, eventID string, qty int64) error
	AddCompTicketsIssued(ctx context.Context, eventID string, qty int64) error

	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
	PutTicket(ctx context.Context, t *model.Ticket) error
	TransitionTicket(ctx context.Context, id string, prior model.TicketStatus, mut TicketMutation) error
	ListTicketsByEvent(ctx context.Context, eventID string) ([]model.Ticket, error)
	ListTicketsByUser(ctx context.Context, email string) ([]model.Ticket, error)

	GetUserBySubject(ctx context.Context, subject string) (*model.User, error)
	PutUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, id string, cols []string, vals []interface{}) error
}

// MySQL implements Store on top of database/sql.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}
