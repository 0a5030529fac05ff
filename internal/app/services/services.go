package services

import (
	"context"

	"github.com/yigit/consultdesk/internal/app/models"
)

// User-facing messages returned by the action handlers
const (
	MsgCreateUserFailed         = "Failed to create new user. Please try again later."
	MsgCreateStudentFailed      = "Failed to create student record"
	MsgCreateConsultationFailed = "Failed to create consultation"
	MsgUpdateConsultationFailed = "Failed to update consultation"
	MsgStudentNotFound          = "Student record not found"
	MsgStudentFieldsRequired    = "First name, last name, and phone are required"
	MsgInvalidLogin             = "Invalid login credentials"
)

// Redirect targets
const (
	RedirectDashboard = "/dashboard"
	RedirectLogin     = "/login"
)

// IdentityProvider is the credential side of the external data service
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignUp returns the created identity and, when the service issues one
	// immediately, a session.
	SignUp(ctx context.Context, email, password string) (*models.Identity, *models.Session, error)
	SignOut(ctx context.Context, caller *models.Caller) error
	// ResolveCaller verifies an access token and returns its principal
	ResolveCaller(ctx context.Context, accessToken string) (*models.Caller, error)
	DeleteIdentity(ctx context.Context, identityID string) error
}

// StudentStore persists student profiles
type StudentStore interface {
	CreateStudent(ctx context.Context, caller *models.Caller, student models.Student) error
	GetStudent(ctx context.Context, caller *models.Caller) (*models.Student, error)
}

// ConsultationStore persists consultations. Every method scopes its rows to
// caller.UserID.
type ConsultationStore interface {
	CreateConsultation(ctx context.Context, caller *models.Caller, c models.NewConsultation) (*models.Consultation, error)
	// SetConsultationComplete returns the number of rows it changed
	SetConsultationComplete(ctx context.Context, caller *models.Caller, id string, complete bool) (int64, error)
	ListConsultations(ctx context.Context, caller *models.Caller) ([]models.Consultation, error)
}

// Backend is a complete external data service
type Backend interface {
	IdentityProvider
	StudentStore
	ConsultationStore
	// Ping reports whether the service is reachable
	Ping(ctx context.Context) error
	Close()
}
