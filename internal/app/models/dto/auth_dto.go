package dto

import "github.com/yigit/consultdesk/internal/pkg/validation"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ValidationMessages implements validation.Schema
func (LoginRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"email.required":    "Email is required",
		"email.email":       "Invalid email address",
		"password.required": "Password is required",
	}
}

// SignupRequest represents a new student account
type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=100,nodigits"`
	LastName        string `json:"lastName" validate:"required,max=100,nodigits"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required,min=8,hasupper,haslower,hasdigit,hassymbol"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ValidationMessages implements validation.Schema
func (SignupRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"firstName.required":       "First name is required",
		"firstName.max":            "First name must be under 100 characters",
		"firstName.nodigits":       "Must not contain numbers",
		"lastName.required":        "Last name is required",
		"lastName.max":             "Last name must be under 100 characters",
		"lastName.nodigits":        "Must not contain numbers",
		"email.required":           "Email is required",
		"email.email":              "Invalid email address",
		"phone.required":           "Phone number is required",
		"phone.phone":              "Please enter a valid phone number",
		"password.required":        "Password is required",
		"password.min":             "Password must be at least 8 characters",
		"password.hasupper":        "Password must contain at least one uppercase letter",
		"password.haslower":        "Password must contain at least one lowercase letter",
		"password.hasdigit":        "Password must contain at least one number",
		"password.hassymbol":       "Password must contain at least one special character",
		"confirmPassword.required": "Please confirm your password",
		"confirmPassword.eqfield":  "Passwords must match",
	}
}
