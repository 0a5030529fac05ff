package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

// Demo account credentials
const (
	DemoEmail    = "demo.student@example.com"
	DemoPassword = "Demo!Pass123"
)

// DemoConsultation is one booking created by CreateDemoData
type DemoConsultation struct {
	Reason string
	In     time.Duration
}

// DefaultConsultations are booked relative to the time of seeding
var DefaultConsultations = []DemoConsultation{
	{Reason: "Course selection for next semester", In: 48 * time.Hour},
	{Reason: "Internship application review", In: 7 * 24 * time.Hour},
}

// CreateDemoData creates a demo student with a few upcoming consultations.
// Running it again signs in to the existing account and only adds the
// profile if it is missing.
func CreateDemoData(ctx context.Context, backend services.Backend, now time.Time, lgr zerolog.Logger) error {
	lgr.Info().Str("email", DemoEmail).Msg("Checking/Creating demo data...")

	caller, created, err := demoCaller(ctx, backend)
	if err != nil {
		lgr.Error().Err(err).Msg("Error preparing demo account")
		return err
	}

	var finalErr error // collect errors without stopping the run

	if _, err := backend.GetStudent(ctx, caller); errors.Is(err, apperrors.ErrNotFound) {
		err = backend.CreateStudent(ctx, caller, models.Student{
			ID:        caller.UserID,
			FirstName: "Demo",
			LastName:  "Student",
			Phone:     "+90 555 000 0000",
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating demo student record")
			return err
		}
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error loading demo student record")
		return err
	}

	if !created {
		existing, err := backend.ListConsultations(ctx, caller)
		if err == nil && len(existing) > 0 {
			lgr.Info().Int("consultations", len(existing)).Msg("Demo data already present")
			return nil
		}
	}

	for _, c := range DefaultConsultations {
		_, err := backend.CreateConsultation(ctx, caller, models.NewConsultation{
			UserID:    caller.UserID,
			FirstName: "Demo",
			LastName:  "Student",
			Reason:    c.Reason,
			Datetime:  now.Add(c.In).UTC().Truncate(time.Minute),
		})
		if err != nil {
			lgr.Error().Err(err).Str("reason", c.Reason).Msg("Error creating demo consultation")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Str("userID", caller.UserID).Msg("Demo data created.")
	}
	return finalErr
}

// demoCaller signs up the demo account, or signs in when it already exists
func demoCaller(ctx context.Context, backend services.Backend) (*models.Caller, bool, error) {
	identity, session, err := backend.SignUp(ctx, DemoEmail, DemoPassword)
	if err == nil && identity == nil {
		return nil, false, errors.New("sign-up returned no identity")
	}
	if err == nil {
		caller := &models.Caller{UserID: identity.ID, Email: identity.Email}
		if session != nil {
			caller.AccessToken = session.AccessToken
		}
		return caller, true, nil
	}
	if !errors.Is(err, apperrors.ErrIdentityRejected) {
		return nil, false, err
	}

	session, err = backend.SignIn(ctx, DemoEmail, DemoPassword)
	if err != nil {
		return nil, false, err
	}
	caller := session.Caller()
	if caller == nil {
		return nil, false, errors.New("sign-in returned no user")
	}
	return caller, false, nil
}
