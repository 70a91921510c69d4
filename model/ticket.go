package model

import "time"

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "PENDING"
	TicketStatusValid     TicketStatus = "VALID"
	TicketStatusUsed      TicketStatus = "USED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
	TicketStatusRefunded  TicketStatus = "REFUNDED"
)

// Ticket represents one admission right tied to exactly one event.
// QRCodeData holds the signed admission token and is set only once the
// ticket is VALID. CheckedInAt/CheckedInBy are set exactly when the
// status is USED.
type Ticket struct {
	ID                string       `json:"id"`
	EventID           string       `json:"eventId"`
	UserID            string       `json:"userId"`
	UserEmail         string       `json:"userEmail"`
	UserName          string       `json:"userName"`
	PurchaseDate      time.Time    `json:"purchaseDate"`
	Status            TicketStatus `json:"status"`
	IsComp            bool         `json:"isComp"`
	CompIssuedBy      *string      `json:"compIssuedBy"`
	CompReason        *string      `json:"compReason"`
	PaymentIntentID   *string      `json:"stripePaymentIntentId"`
	CheckoutSessionID *string      `json:"stripeCheckoutSessionId"`
	QRCodeData        *string      `json:"qrCodeData"`
	CheckedInAt       *time.Time   `json:"checkedInAt"`
	CheckedInBy       *string      `json:"checkedInBy"`
	Quantity          int64        `json:"quantity"`
	AmountPaid        int64        `json:"amountPaid"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// ValidationResult is the wire contract returned to scanning clients.
// Reason is one of EXPIRED, NOT_FOUND, INVALID, ALREADY_CHECKED_IN and is
// present only when Valid is false.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	TicketID  string `json:"ticketId,omitempty"`
	UserName  string `json:"userName,omitempty"`
	EventName string `json:"eventName,omitempty"`
}

const (
	ReasonExpired          = "EXPIRED"
	ReasonNotFound         = "NOT_FOUND"
	ReasonInvalid          = "INVALID"
	ReasonAlreadyCheckedIn = "ALREADY_CHECKED_IN"
)
