package models

import "time"

// Student is the profile row created once at signup. ID equals the identity
// service's user id.
type Student struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
