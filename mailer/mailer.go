// Package mailer invokes the external email collaborator. Delivery is
// fire-and-forget: a failed send is logged by the caller and never rolls
// back the ticket transition that triggered it.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

const (
	TypeTicketConfirmation = "TICKET_CONFIRMATION"
	TypeCompTicket         = "COMP_TICKET"
)

// Notification is the payload handed to the email collaborator; it
// carries everything needed to render the ticket email without another
// round trip.
type Notification struct {
	Type          string `json:"type"`
	TicketID      string `json:"ticketId"`
	EventID       string `json:"eventId"`
	UserID        string `json:"userId,omitempty"`
	QRToken       string `json:"qrToken"`
	Email         string `json:"email"`
	UserName      string `json:"userName,omitempty"`
	EventName     string `json:"eventName,omitempty"`
	EventDate     string `json:"eventDate,omitempty"`
	EventLocation string `json:"eventLocation,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type notifier struct {
	ServiceURL string
	HTTPClient http.Client
}

func NewNotifier(serviceURL string) Notifier {
	return &notifier{ServiceURL: serviceURL}
}

func (m *notifier) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: error marshalling notification: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: error building request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	res, err := m.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: error calling email service: %w", err)
	}
	defer res.Body.Close()
	io.Copy(ioutil.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("notify: email service returned status %d", res.StatusCode)
	}
	return nil
}

// Noop is used when email is disabled in configuration.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) error { return nil }
