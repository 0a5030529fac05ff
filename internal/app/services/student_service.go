package services

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

// StudentService serves the student-record endpoint and the dashboard
type StudentService struct {
	students      StudentStore
	consultations ConsultationStore
	logger        zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, consultations ConsultationStore, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, consultations: consultations, logger: logger}
}

// CreateRecord inserts the caller's profile. Errors are classed by
// apperrors.ErrUnauthorized, apperrors.ErrValidationFailed, apperrors.ErrStorage
// and apperrors.ErrServiceUnavailable.
func (s *StudentService) CreateRecord(ctx context.Context, caller *models.Caller, req dto.CreateStudentRequest) error {
	if caller == nil {
		return apperrors.ErrUnauthorized
	}
	if !req.Complete() {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, MsgStudentFieldsRequired)
	}

	err := s.students.CreateStudent(ctx, caller, models.Student{
		ID:        caller.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("userID", caller.UserID).Msg("Failed to insert student record")
		return err
	}

	s.logger.Info().Str("userID", caller.UserID).Msg("Student record created")
	return nil
}

// Dashboard loads the caller's profile and consultations, earliest first
func (s *StudentService) Dashboard(ctx context.Context, caller *models.Caller) dto.ActionResult[dto.DashboardResponse] {
	if caller == nil {
		return dto.Denied[dto.DashboardResponse](apperrors.MsgUnauthorized)
	}

	student, err := s.students.GetStudent(ctx, caller)
	if errors.Is(err, apperrors.ErrNotFound) {
		return dto.Failed[dto.DashboardResponse](MsgStudentNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("userID", caller.UserID).Msg("Failed to load student record")
		return dto.Failed[dto.DashboardResponse](apperrors.MsgTryAgainLater)
	}

	list, err := s.consultations.ListConsultations(ctx, caller)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", caller.UserID).Msg("Failed to load consultations")
		return dto.Failed[dto.DashboardResponse](apperrors.MsgTryAgainLater)
	}
	if list == nil {
		list = []models.Consultation{}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Datetime.Before(list[j].Datetime)
	})

	return dto.OK(&dto.DashboardResponse{Student: *student, Consultations: list})
}
