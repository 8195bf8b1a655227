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

type SubtaskService struct {
	subtasks      repositories.SubtaskRepository
	tasks         repositories.TaskRepository
	people        people
	notifications *NotificationService
}

func NewSubtaskService(
	subtasks repositories.SubtaskRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
) *SubtaskService {
	return &SubtaskService{
		subtasks:      subtasks,
		tasks:         tasks,
		people:        people{users: users},
		notifications: notifications,
	}
}

type CreateSubtaskInput struct {
	Title            string `json:"title" validate:"required"`
	TaskID           string `json:"taskID" validate:"required"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	AssignedTo       string `json:"assignedTo"`
	AssignedUsername string `json:"assignedUsername"`
	DueDate          string `json:"dueDate"`
}

func (s *SubtaskService) Create(ctx context.Context, in CreateSubtaskInput) (string, error) {
	if err := validateInput(in, "Subtask title and taskID are required"); err != nil {
		return "", err
	}

	parent, err := s.tasks.FindByID(ctx, in.TaskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NotFound("Task does not exist")
	}
	if err != nil {
		return "", apperrors.Internal(err, "failed to load task")
	}

	assignee, err := resolveAssignee(ctx, s.people, in.AssignedTo, in.AssignedUsername)
	if err != nil {
		return "", err
	}

	subtask := &models.Subtask{
		ID:          uuid.NewString(),
		TaskID:      in.TaskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      orDefault(in.Status, models.DefaultStatus),
		Priority:    orDefault(in.Priority, models.DefaultPriority),
		AssignedTo:  assignee,
		DueDate:     in.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.subtasks.Create(ctx, subtask); err != nil {
		return "", apperrors.Internal(err, "failed to create subtask")
	}

	if assignee != "" {
		s.notifications.Notify(ctx, assignee, fmt.Sprintf("You have been assigned subtask %q of task %q", subtask.Title, parent.Title))
	}
	logging.Logger.Infof("Event ID: SUBTASK_CREATED, Description: Subtask %s created under task %s", subtask.ID, subtask.TaskID)
	return subtask.ID, nil
}

func (s *SubtaskService) Get(ctx context.Context, subtaskID string) (*models.SubtaskView, error) {
	subtask, err := s.load(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []models.Subtask{*subtask})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *SubtaskService) List(ctx context.Context, taskID, assignedTo string) ([]models.SubtaskView, error) {
	if taskID == "" && assignedTo == "" {
		return nil, apperrors.Validation("taskID or assignedTo is required")
	}
	subtasks, err := s.subtasks.Find(ctx, repositories.SubtaskFilter{TaskID: taskID, AssignedTo: assignedTo})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load subtasks")
	}
	return s.enrich(ctx, subtasks)
}

func (s *SubtaskService) Update(ctx context.Context, subtaskID string, in UpdateTaskInput) (*models.SubtaskView, error) {
	before, err := s.load(ctx, subtaskID)
	if err != nil {
		return nil, err
	}

	update, err := buildTaskUpdate(ctx, s.people, in)
	if err != nil {
		return nil, err
	}
	if err := s.subtasks.Update(ctx, subtaskID, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Subtask not found")
		}
		return nil, apperrors.Internal(err, "failed to update subtask")
	}

	if update.AssignedTo != nil && *update.AssignedTo != "" && *update.AssignedTo != before.AssignedTo {
		s.notifications.Notify(ctx, *update.AssignedTo, fmt.Sprintf("You have been assigned subtask %q", before.Title))
	}
	logging.Logger.Infof("Event ID: SUBTASK_UPDATED, Description: Subtask %s updated", subtaskID)
	return s.Get(ctx, subtaskID)
}

func (s *SubtaskService) Delete(ctx context.Context, subtaskID string) error {
	if _, err := s.load(ctx, subtaskID); err != nil {
		return err
	}
	if err := s.subtasks.Delete(ctx, subtaskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Subtask not found")
		}
		return apperrors.Internal(err, "failed to delete subtask")
	}
	logging.Logger.Infof("Event ID: SUBTASK_DELETED, Description: Subtask %s deleted", subtaskID)
	return nil
}

func (s *SubtaskService) load(ctx context.Context, subtaskID string) (*models.Subtask, error) {
	if subtaskID == "" {
		return nil, apperrors.Validation("subtaskID is required")
	}
	subtask, err := s.subtasks.FindByID(ctx, subtaskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Subtask not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load subtask")
	}
	return subtask, nil
}

func (s *SubtaskService) enrich(ctx context.Context, subtasks []models.Subtask) ([]models.SubtaskView, error) {
	names := s.people.newLookup()
	views := make([]models.SubtaskView, 0, len(subtasks))
	for _, st := range subtasks {
		d, err := names.resolve(ctx, st.AssignedTo, models.Unassigned)
		if err != nil {
			return nil, err
		}
		views = append(views, models.SubtaskView{Subtask: st, AssignedUsername: d.name, AssignedAvatar: d.avatar})
	}
	return views, nil
}
