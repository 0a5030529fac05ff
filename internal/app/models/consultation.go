package models

import "time"

// ConsultationStatus is derived from IsComplete
type ConsultationStatus string

const (
	StatusPending   ConsultationStatus = "pending"
	StatusCompleted ConsultationStatus = "completed"
)

// Consultation represents a booked consultation owned by one student
type Consultation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Reason     string    `json:"reason"`
	Datetime   time.Time `json:"datetime"`
	IsComplete bool      `json:"is_complete"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Status reports whether the consultation is pending or completed
func (c Consultation) Status() ConsultationStatus {
	if c.IsComplete {
		return StatusCompleted
	}
	return StatusPending
}

// NewConsultation is the insert payload; the store fills id and timestamps
type NewConsultation struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Reason    string    `json:"reason"`
	Datetime  time.Time `json:"datetime"`
}
