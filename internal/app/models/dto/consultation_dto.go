package dto

import (
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/pkg/validation"
)

// CreateConsultationRequest represents a booking form submission
type CreateConsultationRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Reason    string `json:"reason" validate:"required,max=500"`
	Datetime  string `json:"datetime" validate:"required,futuredatetime"`
}

// ValidationMessages implements validation.Schema
func (CreateConsultationRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"firstName.required":      "First name is required",
		"firstName.max":           "First name must be under 100 characters",
		"lastName.required":       "Last name is required",
		"lastName.max":            "Last name must be under 100 characters",
		"reason.required":         "Reason for consultation is required",
		"reason.max":              "Reason must be under 500 characters",
		"datetime.required":       "Date and time is required",
		"datetime.futuredatetime": "Date and time must be in the future",
	}
}

// ToggleConsultationRequest flips a consultation's completion flag. IsComplete
// is the state the caller currently sees.
type ToggleConsultationRequest struct {
	ID         string `json:"id" validate:"required,uuid"`
	IsComplete *bool  `json:"isComplete" validate:"required"`
}

// ValidationMessages implements validation.Schema
func (ToggleConsultationRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"id.required":         "Consultation id is required",
		"id.uuid":             "Consultation id is invalid",
		"isComplete.required": "Completion flag must be a boolean",
	}
}

// ToggleConsultationBody is the PATCH body; the id comes from the path
type ToggleConsultationBody struct {
	IsComplete *bool `json:"isComplete"`
}

// DashboardResponse is the caller's profile and bookings
type DashboardResponse struct {
	Student       models.Student        `json:"student"`
	Consultations []models.Consultation `json:"consultations"`
}
