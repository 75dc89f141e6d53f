package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/events"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

type adminService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAdminService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AdminService {
	return &adminService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// List returns every complaint joined with submitter identity in one query.
// The handler gates this behind the admin role; the service trusts that.
func (s *adminService) List(ctx context.Context, filters repositories.ComplaintFilters) (*AdminComplaintListResponse, error) {
	rows, err := s.repo.Complaint().ListAllWithSubmitter(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]*AdminComplaintResponse, 0, len(rows))
	for _, row := range rows {
		complaint := row.Complaint
		responses = append(responses, &AdminComplaintResponse{
			Complaint:      &complaint,
			SubmitterName:  row.SubmitterName,
			SubmitterEmail: row.SubmitterEmail,
		})
	}

	return &AdminComplaintListResponse{
		Complaints: responses,
		Total:      len(responses),
	}, nil
}

// Triage applies the status/remarks mutation. Any transition is legal,
// including reopening a Resolved complaint. Whitespace-only remarks are
// stored as NULL so "no remarks" has exactly one representation.
func (s *adminService) Triage(ctx context.Context, id uint, req *TriageRequest, adminID string) (*AdminComplaintResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateTriage(req); len(errs) > 0 {
		return nil, errs
	}

	update := repositories.TriageUpdate{
		Status:  req.Status,
		Remarks: normalizeRemarks(req.Remarks),
		Version: req.Version,
	}

	if err := s.repo.Complaint().Triage(ctx, nil, id, update); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	complaint, err := s.repo.Complaint().GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventComplaintStatusChanged, map[string]interface{}{
		"complaint_id": id,
		"status":       complaint.Status,
		"admin_id":     adminID,
	})

	s.logger.Info("Complaint triaged",
		"complaint_id", id,
		"status", complaint.Status,
		"admin_id", adminID)

	submitterName, submitterEmail := "Unknown", ""
	if profile, err := s.repo.Profile().GetByID(ctx, nil, complaint.UserID); err == nil {
		submitterName = profile.FullName
		submitterEmail = profile.Email
	}

	return &AdminComplaintResponse{
		Complaint:      complaint,
		SubmitterName:  submitterName,
		SubmitterEmail: submitterEmail,
	}, nil
}

// normalizeRemarks maps empty and whitespace-only remarks to nil.
func normalizeRemarks(remarks *string) *string {
	if remarks == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*remarks)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *adminService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
