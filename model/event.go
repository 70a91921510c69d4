package model

import "time"

type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusSoldOut   EventStatus = "SOLD_OUT"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusPast      EventStatus = "PAST"
)

// Event represents a ticketed occasion. Price is in minor currency units.
// A nil Capacity means unlimited admission.
type Event struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Date              time.Time   `json:"date"`
	EndDate           time.Time   `json:"endDate"`
	Location          string      `json:"location"`
	Price             int64       `json:"price"`
	Capacity          *int64      `json:"capacity"`
	TicketsSold       int64       `json:"ticketsSold"`
	CompTicketsIssued int64       `json:"compTicketsIssued"`
	Status            EventStatus `json:"status"`
	ImageURL          *string     `json:"imageUrl"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	CreatedBy         string      `json:"createdBy"`
}

// Available returns the remaining capacity, or -1 when unlimited.
func (e *Event) Available() int64 {
	if e.Capacity == nil {
		return -1
	}
	return *e.Capacity - e.TicketsSold - e.CompTicketsIssued
}

func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusDraft, EventStatusActive, EventStatusSoldOut, EventStatusCancelled, EventStatusPast:
		return true
	}
	return false
}
