// Package token issues and verifies the signed admission token embedded
// in each ticket's QR code. It is a pure cryptographic component: no
// storage, keyed by a process-wide secret loaded once at startup.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrExpired is returned for tokens past their validity window, and
	// also for tokens signed with a different secret: a scanner cannot
	// tell the two apart and both read as "no longer admissible".
	ErrExpired = errors.New("token expired")

	// ErrMalformed is returned for tokens that do not parse or carry an
	// unexpected shape.
	ErrMalformed = errors.New("token malformed")
)

// Claims is what verification recovers from an admission token: exactly
// the ticket, event and purchaser the token was bound to at issuance.
type Claims struct {
	TicketID    string
	EventID     string
	PurchaserID string
}

type Issuer struct {
	secret   []byte
	issuer   string
	validity time.Duration
}

func NewIssuer(secret []byte, issuer string, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, issuer: issuer, validity: validity}
}

// Issue mints the admission token: subject = ticketId, claims eid/uid,
// issuer tag, expiry at now + validity.
func (i *Issuer) Issue(ticketID, eventID, purchaserID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": ticketID,
		"eid": eventID,
		"uid": purchaserID,
		"iss": i.issuer,
		"iat": now.Unix(),
		"exp": now.Add(i.validity).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("issue: error signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window and recovers the bound
// identifiers. It never panics into the caller; every failure maps to
// ErrExpired or ErrMalformed so the admission validator can produce a
// definitive reason code.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0 {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}

	ticketID, ok := claims["sub"].(string)
	if !ok || ticketID == "" {
		return nil, ErrMalformed
	}
	eventID, ok := claims["eid"].(string)
	if !ok || eventID == "" {
		return nil, ErrMalformed
	}
	purchaserID, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrMalformed
	}
	if iss, _ := claims["iss"].(string); iss != i.issuer {
		return nil, ErrMalformed
	}

	return &Claims{TicketID: ticketID, EventID: eventID, PurchaserID: purchaserID}, nil
}
