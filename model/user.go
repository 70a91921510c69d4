package model

import "time"

// User is the stored profile record for an authenticated purchaser.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Role      Role      `json:"role"`
	Subject   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
