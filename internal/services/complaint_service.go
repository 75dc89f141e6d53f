package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/events"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

type complaintService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	roles     RoleService
}

func NewComplaintService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ComplaintService {
	return &complaintService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		roles:     NewRoleService(repo, logger),
	}
}

// attachmentMeta is what lands in the complaint's file_meta JSON column.
type attachmentMeta struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Create validates the submission, uploads the attachment when one is
// supplied, and writes the row. The upload happens first so a storage fault
// leaves no orphaned complaint; field validation happens before that so a
// bad file never reaches the store.
func (s *complaintService) Create(ctx context.Context, req *CreateComplaintRequest, ownerID string, upload *AttachmentUpload, body io.Reader) (*ComplaintResponse, error) {
	s.logger.Info("Creating complaint", "owner_id", ownerID, "category", req.Category)

	if errs := s.validator.GetBusinessValidator().ValidateComplaintCreate(req); len(errs) > 0 {
		return nil, errs
	}

	complaint := &models.Complaint{
		UserID:      ownerID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Status:      models.StatusPending,
		Version:     1,
	}

	if upload != nil {
		if errs := s.validator.GetBusinessValidator().ValidateAttachment(upload); len(errs) > 0 {
			return nil, errs
		}

		stored, err := s.repo.Attachment().Upload(ctx, ownerID, upload.Filename, upload.ContentType, upload.Size, body)
		if err != nil {
			return nil, NewStorageError("upload", err)
		}

		meta, err := json.Marshal(attachmentMeta{
			Key:         stored.Key,
			Name:        upload.Filename,
			Size:        stored.Size,
			ContentType: stored.ContentType,
		})
		if err != nil {
			return nil, err
		}

		complaint.FileURL = &stored.URL
		complaint.FileMeta = meta
	}

	if err := s.repo.Complaint().Create(ctx, nil, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventComplaintCreated, map[string]interface{}{
		"complaint_id": complaint.ID,
		"owner_id":     ownerID,
		"category":     complaint.Category,
	})

	s.logger.Info("Complaint created", "complaint_id", complaint.ID, "owner_id", ownerID)

	return s.buildResponse(complaint, ownerID), nil
}

func (s *complaintService) ListOwn(ctx context.Context, ownerID string) (*ComplaintListResponse, error) {
	complaints, err := s.repo.Complaint().ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		responses = append(responses, s.buildResponse(c, ownerID))
	}

	return &ComplaintListResponse{
		Complaints: responses,
		Total:      len(responses),
	}, nil
}

// GetByID serves the owner directly and admins through the unscoped lookup.
// Everyone else gets not-found, never a hint the row exists.
func (s *complaintService) GetByID(ctx context.Context, id uint, userID string) (*ComplaintResponse, error) {
	complaint, err := s.repo.Complaint().GetOwnedByID(ctx, nil, id, userID)
	if err == nil {
		return s.buildResponse(complaint, userID), nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	if !s.roles.IsAdmin(ctx, userID) {
		return nil, ErrComplaintNotFound
	}

	complaint, err = s.repo.Complaint().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	return s.buildResponse(complaint, userID), nil
}

// Update edits an owned complaint. The write window closes when the status
// leaves Pending; after that only admins mutate the row.
func (s *complaintService) Update(ctx context.Context, id uint, req *UpdateComplaintRequest, userID string) (*ComplaintResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateComplaintUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	complaint, err := s.repo.Complaint().GetOwnedByID(ctx, nil, id, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	if complaint.Status != models.StatusPending {
		return nil, NewPermissionError(userID, id, "complaint", "update", "complaint is no longer pending")
	}

	if req.Title != nil {
		complaint.Title = *req.Title
	}
	if req.Category != nil {
		complaint.Category = *req.Category
	}
	if req.Description != nil {
		complaint.Description = *req.Description
	}
	complaint.Version = req.Version

	if err := s.repo.Complaint().Update(ctx, nil, complaint); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	s.publishEvent(ctx, events.EventComplaintUpdated, map[string]interface{}{
		"complaint_id": id,
		"owner_id":     userID,
	})

	// Re-read so the response carries the database-managed timestamps.
	complaint, err = s.repo.Complaint().GetOwnedByID(ctx, nil, id, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	return s.buildResponse(complaint, userID), nil
}

// Delete removes an owned Pending complaint. The attachment blob goes too,
// best effort: a stranded blob is preferable to a stranded row.
func (s *complaintService) Delete(ctx context.Context, id uint, userID string) error {
	complaint, err := s.repo.Complaint().GetOwnedByID(ctx, nil, id, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrComplaintNotFound
		}
		return err
	}

	if complaint.Status != models.StatusPending {
		return NewPermissionError(userID, id, "complaint", "delete", "complaint is no longer pending")
	}

	if err := s.repo.Complaint().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrComplaintNotFound
		}
		return err
	}

	if key := s.attachmentKey(complaint); key != "" {
		if err := s.repo.Attachment().Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete attachment blob", "complaint_id", id, "key", key, "error", err)
		}
	}

	s.publishEvent(ctx, events.EventComplaintDeleted, map[string]interface{}{
		"complaint_id": id,
		"owner_id":     userID,
	})

	s.logger.Info("Complaint deleted", "complaint_id", id, "owner_id", userID)

	return nil
}

func (s *complaintService) attachmentKey(complaint *models.Complaint) string {
	if len(complaint.FileMeta) == 0 {
		return ""
	}
	var meta attachmentMeta
	if err := json.Unmarshal(complaint.FileMeta, &meta); err != nil {
		s.logger.Warn("Unreadable attachment metadata", "complaint_id", complaint.ID, "error", err)
		return ""
	}
	return meta.Key
}

func (s *complaintService) buildResponse(complaint *models.Complaint, userID string) *ComplaintResponse {
	editable := complaint.UserID == userID && complaint.Status == models.StatusPending
	return &ComplaintResponse{
		Complaint: complaint,
		CanEdit:   editable,
		CanDelete: editable,
	}
}

func (s *complaintService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
