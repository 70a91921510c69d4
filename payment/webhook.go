package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureHeader carries the webhook signature:
	// t=<unix ts>,v1=<hex hmac-sha256 of "<ts>.<payload>">.
	SignatureHeader = "Stripe-Signature"

	// DefaultTolerance bounds acceptable clock skew between the payment
	// collaborator and us.
	DefaultTolerance = 5 * time.Minute
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
	EventChargeRefunded           = "charge.refunded"
)

// ErrInvalidSignature covers every way a webhook payload can fail
// verification: bad HMAC, unparseable header, or a timestamp outside the
// tolerance window. Callers reject with 400 and change no state.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookEvent is the verified notification envelope. Data.Object is kept
// raw because its shape depends on Type.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// SessionObject is Data.Object for checkout.session.* events.
type SessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

// ChargeObject is Data.Object for charge.* events.
type ChargeObject struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
}

func (e *WebhookEvent) Session() (*SessionObject, error) {
	var s SessionObject
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, fmt.Errorf("session: error unmarshalling session object: %w", err)
	}
	return &s, nil
}

func (e *WebhookEvent) Charge() (*ChargeObject, error) {
	var c ChargeObject
	if err := json.Unmarshal(e.Data.Object, &c); err != nil {
		return nil, fmt.Errorf("charge: error unmarshalling charge object: %w", err)
	}
	return &c, nil
}

// WebhookVerifier checks webhook signatures against the shared endpoint
// secret before any payload field is trusted.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret []byte) *WebhookVerifier {
	return &WebhookVerifier{secret: secret, tolerance: DefaultTolerance, now: time.Now}
}

// ConstructEvent verifies the signature header over the raw payload and,
// only then, parses the event envelope.
func (v *WebhookVerifier) ConstructEvent(payload []byte, sigHeader string) (*WebhookEvent, error) {
	ts, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	skew := v.now().UTC().Sub(time.Unix(ts, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("constructEvent: error unmarshalling event: %w", err)
	}
	return &event, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, ErrInvalidSignature
	}

	var ts int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			ts = parsed
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if ts == 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, signatures, nil
}
