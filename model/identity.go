package model

type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleGreeter Role = "GREETER"
)

// Identity is the verified caller attached to each request by the
// identity middleware. The core trusts it as pre-validated.
type Identity struct {
	UserID string
	Email  string
	Role   Role
	Groups []string
}

// IsAdmin is nil-safe so handlers on unauthenticated routes can call it
// directly.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CanValidate reports whether the caller may operate the check-in scanner.
func (i *Identity) CanValidate() bool {
	return i != nil && (i.Role == RoleAdmin || i.Role == RoleGreeter)
}
