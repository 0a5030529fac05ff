package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/validation"
)

// AuthService handles login, signup and logout
type AuthService struct {
	identity  IdentityProvider
	students  StudentStore
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(identity IdentityProvider, students StudentStore, validator *validation.Validator, logger zerolog.Logger) *AuthService {
	return &AuthService{
		identity:  identity,
		students:  students,
		validator: validator,
		logger:    logger,
	}
}

// Login checks the credentials and returns the issued session
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) dto.ActionResult[models.Session] {
	if errs := s.validator.Validate(req); errs != nil {
		return dto.Invalid[models.Session](errs)
	}

	session, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info().Err(err).Str("email", req.Email).Msg("Sign-in rejected")
		return dto.Failed[models.Session](apperrors.Message(err, MsgInvalidLogin))
	}

	s.logger.Info().Str("userID", userIDOf(session)).Msg("User logged in")
	return dto.RedirectTo(RedirectDashboard, session)
}

// Signup creates the identity and the student profile. A profile insert
// failure deletes the identity it just created.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) dto.ActionResult[models.Session] {
	if errs := s.validator.Validate(req); errs != nil {
		return dto.Invalid[models.Session](errs)
	}

	identity, session, err := s.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("Sign-up rejected")
		return dto.Failed[models.Session](apperrors.Message(err, MsgCreateUserFailed))
	}
	if identity == nil || identity.ID == "" {
		s.logger.Error().Str("email", req.Email).Msg("Sign-up returned no identity")
		return dto.Failed[models.Session](MsgCreateUserFailed)
	}

	caller := &models.Caller{UserID: identity.ID, Email: identity.Email}
	if session != nil {
		caller.AccessToken = session.AccessToken
	}

	student := models.Student{
		ID:        identity.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := s.students.CreateStudent(ctx, caller, student); err != nil {
		s.logger.Error().Err(err).Str("userID", identity.ID).Msg("Failed to create student record")
		s.compensate(ctx, identity.ID)
		return dto.Failed[models.Session](MsgCreateStudentFailed)
	}

	s.logger.Info().Str("userID", identity.ID).Bool("sessionIssued", session != nil).Msg("Student signed up")
	return dto.RedirectTo(RedirectDashboard, session)
}

// compensate removes an identity whose profile could not be stored
func (s *AuthService) compensate(ctx context.Context, identityID string) {
	if err := s.identity.DeleteIdentity(ctx, identityID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event", "orphaned_identity").
			Str("userID", identityID).
			Msg("Identity left without student record")
	}
}

// Logout ends the caller's session. It always redirects to the login page.
func (s *AuthService) Logout(ctx context.Context, caller *models.Caller) dto.ActionResult[dto.Empty] {
	if caller != nil {
		if err := s.identity.SignOut(ctx, caller); err != nil {
			s.logger.Warn().Err(err).Str("userID", caller.UserID).Msg("Sign-out failed")
		}
	}
	return dto.RedirectTo[dto.Empty](RedirectLogin, nil)
}

// ResolveCaller verifies a token for the HTTP layer. Any failure yields nil.
func (s *AuthService) ResolveCaller(ctx context.Context, accessToken string) *models.Caller {
	if accessToken == "" {
		return nil
	}
	caller, err := s.identity.ResolveCaller(ctx, accessToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Access token rejected")
		return nil
	}
	return caller
}

func userIDOf(session *models.Session) string {
	if session == nil || session.User == nil {
		return ""
	}
	return session.User.ID
}
