package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
	"github.com/yigit/consultdesk/internal/pkg/helpers"
	"github.com/yigit/consultdesk/internal/pkg/validation"
)

// ConsultationService books consultations and flips their completion flag
type ConsultationService struct {
	store     ConsultationStore
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewConsultationService creates a new ConsultationService
func NewConsultationService(store ConsultationStore, validator *validation.Validator, logger zerolog.Logger) *ConsultationService {
	return &ConsultationService{store: store, validator: validator, logger: logger}
}

// Create books a consultation owned by caller
func (s *ConsultationService) Create(ctx context.Context, caller *models.Caller, req dto.CreateConsultationRequest) dto.ActionResult[models.Consultation] {
	if errs := s.validator.Validate(req); errs != nil {
		return dto.Invalid[models.Consultation](errs)
	}
	if caller == nil {
		return dto.Denied[models.Consultation](apperrors.MsgUnauthorized)
	}

	// Already checked by the futuredatetime rule
	at, _ := helpers.ParseDatetimeIn(req.Datetime, s.validator.Location())

	created, err := s.store.CreateConsultation(ctx, caller, models.NewConsultation{
		UserID:    caller.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Reason:    req.Reason,
		Datetime:  at,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("userID", caller.UserID).Msg("Failed to create consultation")
		return dto.Failed[models.Consultation](storeFailure(err, MsgCreateConsultationFailed))
	}

	s.logger.Info().Str("userID", caller.UserID).Str("consultationID", created.ID).Msg("Consultation created")
	return dto.OK(created)
}

// Toggle sets is_complete to the negation of the state the caller saw. A
// consultation that does not exist or is not owned by caller is left alone
// and the result is still a success.
func (s *ConsultationService) Toggle(ctx context.Context, caller *models.Caller, req dto.ToggleConsultationRequest) dto.ActionResult[dto.Empty] {
	if errs := s.validator.Validate(req); errs != nil {
		return dto.Invalid[dto.Empty](errs)
	}
	if caller == nil {
		return dto.Denied[dto.Empty](apperrors.MsgUnauthorized)
	}

	affected, err := s.store.SetConsultationComplete(ctx, caller, req.ID, !*req.IsComplete)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", caller.UserID).Str("consultationID", req.ID).Msg("Failed to update consultation")
		return dto.Failed[dto.Empty](storeFailure(err, MsgUpdateConsultationFailed))
	}
	if affected == 0 {
		s.logger.Debug().Str("userID", caller.UserID).Str("consultationID", req.ID).Msg("Toggle matched no rows")
	}

	return dto.OK(&dto.Empty{})
}

// storeFailure keeps an unreachable service apart from a rejected write
func storeFailure(err error, fallback string) string {
	if errors.Is(err, apperrors.ErrServiceUnavailable) {
		return apperrors.MsgTryAgainLater
	}
	return fallback
}
