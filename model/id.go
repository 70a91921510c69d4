package model

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NewEventID, NewTicketID and NewUserID generate prefixed identifiers:
// the prefix plus the first 16 hex characters of a random UUID.

func NewEventID() string {
	return "evt_" + shortUUID()
}

func NewTicketID() string {
	return "tkt_" + shortUUID()
}

func NewUserID() string {
	return "usr_" + shortUUID()
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
