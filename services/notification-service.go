package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify records a notification for userID. Failures are logged and never returned.
func (s *NotificationService) Notify(ctx context.Context, userID, message string) {
	if s == nil || s.repo == nil || userID == "" {
		return
	}
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_CREATE_FAILED, Description: Could not notify user %s: %v", userID, err)
		return
	}
	logging.Logger.Debugf("Event ID: NOTIFICATION_CREATED, Description: Notification %s created for user %s", n.ID, userID)
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, apperrors.Validation("userID is required")
	}
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load notifications")
	}
	return notifications, nil
}

type MarkReadInput struct {
	UserID         string `json:"userID" validate:"required"`
	NotificationID string `json:"notificationID" validate:"required"`
	CreatedAt      string `json:"createdAt" validate:"required"`
}

func (s *NotificationService) MarkRead(ctx context.Context, in MarkReadInput) error {
	if err := validateInput(in, "userID, notificationID and createdAt are required"); err != nil {
		return err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, in.CreatedAt)
	if err != nil {
		return apperrors.Validation("createdAt must be an RFC 3339 timestamp")
	}

	err = s.repo.MarkRead(ctx, in.UserID, in.NotificationID, createdAt)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Notification not found")
	}
	if err != nil {
		return apperrors.Internal(err, "failed to update notification")
	}
	return nil
}
