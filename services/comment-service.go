package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

type CommentService struct {
	comments      repositories.CommentRepository
	tasks         repositories.TaskRepository
	people        people
	notifications *NotificationService
}

func NewCommentService(
	comments repositories.CommentRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		comments:      comments,
		tasks:         tasks,
		people:        people{users: users},
		notifications: notifications,
	}
}

type AddCommentInput struct {
	TaskID  string `json:"taskID" validate:"required"`
	UserID  string `json:"userID" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (string, error) {
	if err := validateInput(in, "taskID, userID, and message are required"); err != nil {
		return "", err
	}

	task, err := s.task(ctx, in.TaskID)
	if err != nil {
		return "", err
	}
	author, err := s.people.requireUser(ctx, in.UserID, "User does not exist")
	if err != nil {
		return "", err
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		TaskID:    in.TaskID,
		UserID:    in.UserID,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return "", apperrors.Internal(err, "failed to add comment")
	}

	if task.AssignedTo != "" && task.AssignedTo != in.UserID {
		s.notifications.Notify(ctx, task.AssignedTo, fmt.Sprintf("%s commented on task %q", author.Name, task.Title))
	}
	logging.Logger.Infof("Event ID: COMMENT_ADDED, Description: Comment %s added to task %s", comment.ID, comment.TaskID)
	return comment.ID, nil
}

// List returns the task's comments oldest first, with author details as they are now.
func (s *CommentService) List(ctx context.Context, taskID string) ([]models.CommentView, error) {
	if taskID == "" {
		return nil, apperrors.Validation("taskID is required")
	}
	if _, err := s.task(ctx, taskID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load comments")
	}

	authors := s.people.newLookup()
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		d, err := authors.resolve(ctx, c.UserID, models.AnonymousUser)
		if err != nil {
			return nil, err
		}
		views = append(views, models.CommentView{Comment: c, Username: d.name, Avatar: d.avatar})
	}
	return views, nil
}

func (s *CommentService) task(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Task does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load task")
	}
	return task, nil
}
