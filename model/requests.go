package model

import (
	"fmt"
	"time"
)

type CreateEventRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	EndDate     string  `json:"endDate"`
	Location    string  `json:"location"`
	Price       int64   `json:"price"`
	Capacity    *int64  `json:"capacity"`
	ImageURL    *string `json:"imageUrl"`
}

func (r *CreateEventRequest) Validate() error {
	if r.Name == "" || len(r.Name) > 200 {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if r.Description == "" || len(r.Description) > 5000 {
		return fmt.Errorf("description must be between 1 and 5000 characters")
	}
	if r.Location == "" || len(r.Location) > 500 {
		return fmt.Errorf("location must be between 1 and 500 characters")
	}
	if r.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}
	if _, err := time.Parse(time.RFC3339, r.Date); err != nil {
		return fmt.Errorf("date must be an RFC 3339 timestamp")
	}
	if _, err := time.Parse(time.RFC3339, r.EndDate); err != nil {
		return fmt.Errorf("endDate must be an RFC 3339 timestamp")
	}
	return nil
}

// UpdateEventRequest carries partial event edits; nil fields are left
// untouched.
type UpdateEventRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Date        *string      `json:"date"`
	EndDate     *string      `json:"endDate"`
	Location    *string      `json:"location"`
	Price       *int64       `json:"price"`
	Capacity    *int64       `json:"capacity"`
	ImageURL    *string      `json:"imageUrl"`
	Status      *EventStatus `json:"status"`
}

func (r *UpdateEventRequest) Validate() error {
	if r.Name != nil && (*r.Name == "" || len(*r.Name) > 200) {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if r.Description != nil && (*r.Description == "" || len(*r.Description) > 5000) {
		return fmt.Errorf("description must be between 1 and 5000 characters")
	}
	if r.Location != nil && (*r.Location == "" || len(*r.Location) > 500) {
		return fmt.Errorf("location must be between 1 and 500 characters")
	}
	if r.Price != nil && *r.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if r.Status != nil && !ValidEventStatus(*r.Status) {
		return fmt.Errorf("invalid event status: %s", *r.Status)
	}
	if r.Date != nil {
		if _, err := time.Parse(time.RFC3339, *r.Date); err != nil {
			return fmt.Errorf("date must be an RFC 3339 timestamp")
		}
	}
	if r.EndDate != nil {
		if _, err := time.Parse(time.RFC3339, *r.EndDate); err != nil {
			return fmt.Errorf("endDate must be an RFC 3339 timestamp")
		}
	}
	return nil
}

type CheckoutRequest struct {
	Quantity int64 `json:"quantity"`
}

func (r *CheckoutRequest) Validate() error {
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Quantity < 1 || r.Quantity > 10 {
		return fmt.Errorf("quantity must be between 1 and 10")
	}
	return nil
}

type CompTicketRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
}

func (r *CompTicketRequest) Validate() error {
	if !ValidEmail(r.UserEmail) {
		return fmt.Errorf("userEmail must be a valid email address")
	}
	if r.UserName == "" || len(r.UserName) > 200 {
		return fmt.Errorf("userName must be between 1 and 200 characters")
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Quantity < 1 || r.Quantity > 10 {
		return fmt.Errorf("quantity must be between 1 and 10")
	}
	if r.Reason == "" || len(r.Reason) > 500 {
		return fmt.Errorf("reason must be between 1 and 500 characters")
	}
	return nil
}

type ValidateTicketRequest struct {
	QRToken string `json:"qrToken"`
}

func (r *ValidateTicketRequest) Validate() error {
	if r.QRToken == "" {
		return fmt.Errorf("QR token is required")
	}
	return nil
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil && (*r.Name == "" || len(*r.Name) > 200) {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if r.Phone != nil && len(*r.Phone) > 20 {
		return fmt.Errorf("phone must be at most 20 characters")
	}
	return nil
}
