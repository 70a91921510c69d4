// Package payment talks to the external payment collaborator: checkout
// session creation and signed webhook verification.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Session is the payment collaborator's checkout session handle: the
// redirect target plus the session reference stored on the ticket.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentIntent string `json:"payment_intent"`
}

// SessionParams carries everything a checkout session needs. The metadata
// triple {eventId, ticketId, userId} is echoed back on the webhook and is
// how the confirmation handler finds its ticket.
type SessionParams struct {
	EventID       string
	TicketID      string
	UserID        string
	EventName     string
	Description   string
	UnitAmount    int64
	Quantity      int64
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

type Client interface {
	CreateCheckoutSession(ctx context.Context, p SessionParams) (*Session, error)
}

type client struct {
	APIAddress string
	APIKey     string
	HTTPClient http.Client
}

func NewClient(apiAddress, apiKey string) Client {
	return &client{APIAddress: apiAddress, APIKey: apiKey}
}

func (c *client) CreateCheckoutSession(ctx context.Context, p SessionParams) (*Session, error) {
	v := url.Values{}
	v.Set("mode", "payment")
	v.Set("line_items[0][price_data][currency]", "usd")
	v.Set("line_items[0][price_data][product_data][name]", p.EventName)
	v.Set("line_items[0][price_data][product_data][description]", p.Description)
	v.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.UnitAmount, 10))
	v.Set("line_items[0][quantity]", strconv.FormatInt(p.Quantity, 10))
	v.Set("metadata[eventId]", p.EventID)
	v.Set("metadata[ticketId]", p.TicketID)
	v.Set("metadata[userId]", p.UserID)
	v.Set("success_url", p.SuccessURL)
	v.Set("cancel_url", p.CancelURL)
	v.Set("customer_email", p.CustomerEmail)

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/v1/checkout/sessions", c.APIAddress), strings.NewReader(v.Encode()))
	if err != nil {
		return nil, fmt.Errorf("createCheckoutSession: error building request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createCheckoutSession: error calling payment api: %w", err)
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("createCheckoutSession: error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("createCheckoutSession: payment api returned status %d: %s", res.StatusCode, body)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("createCheckoutSession: error unmarshalling response body: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("createCheckoutSession: payment api returned incomplete session")
	}
	return &session, nil
}
