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

type TaskService struct {
	tasks         repositories.TaskRepository
	projects      repositories.ProjectRepository
	people        people
	notifications *NotificationService
}

func NewTaskService(
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
) *TaskService {
	return &TaskService{
		tasks:         tasks,
		projects:      projects,
		people:        people{users: users},
		notifications: notifications,
	}
}

// CreateTaskInput accepts the assignee either as a user id or as a display name; the id wins when both are set.
type CreateTaskInput struct {
	Title            string `json:"title" validate:"required"`
	ProjectID        string `json:"projectID" validate:"required"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	AssignedTo       string `json:"assignedTo"`
	AssignedUsername string `json:"assignedUsername"`
	DueDate          string `json:"dueDate"`
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (string, error) {
	if err := validateInput(in, "Task title and projectID are required"); err != nil {
		return "", err
	}

	project, err := s.projects.FindByID(ctx, in.ProjectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NotFound("Project does not exist")
	}
	if err != nil {
		return "", apperrors.Internal(err, "failed to load project")
	}

	assignee, err := resolveAssignee(ctx, s.people, in.AssignedTo, in.AssignedUsername)
	if err != nil {
		return "", err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      orDefault(in.Status, models.DefaultStatus),
		Priority:    orDefault(in.Priority, models.DefaultPriority),
		AssignedTo:  assignee,
		DueDate:     in.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return "", apperrors.Internal(err, "failed to create task")
	}

	if assignee != "" {
		s.notifications.Notify(ctx, assignee, fmt.Sprintf("You have been assigned task %q in project %q", task.Title, project.Title))
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID, task.ProjectID)
	return task.ID, nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (*models.TaskView, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List filters by project, by assignee, or by both.
func (s *TaskService) List(ctx context.Context, projectID, assignedTo string) ([]models.TaskView, error) {
	if projectID == "" && assignedTo == "" {
		return nil, apperrors.Validation("projectID or assignedTo is required")
	}
	tasks, err := s.tasks.Find(ctx, repositories.TaskFilter{ProjectID: projectID, AssignedTo: assignedTo})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load tasks")
	}
	return s.enrich(ctx, tasks)
}

// UpdateTaskInput is shared by tasks and subtasks. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Status           *string `json:"status"`
	Priority         *string `json:"priority"`
	DueDate          *string `json:"dueDate"`
	AssignedUsername *string `json:"assignedUsername"`
}

func (s *TaskService) Update(ctx context.Context, taskID string, in UpdateTaskInput) (*models.TaskView, error) {
	before, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}

	update, err := buildTaskUpdate(ctx, s.people, in)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, taskID, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, apperrors.Internal(err, "failed to update task")
	}

	if update.AssignedTo != nil && *update.AssignedTo != "" && *update.AssignedTo != before.AssignedTo {
		s.notifications.Notify(ctx, *update.AssignedTo, fmt.Sprintf("You have been assigned task %q", before.Title))
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated", taskID)
	return s.Get(ctx, taskID)
}

func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if _, err := s.load(ctx, taskID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Task not found")
		}
		return apperrors.Internal(err, "failed to delete task")
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID)
	return nil
}

func (s *TaskService) load(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, apperrors.Validation("taskID is required")
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Task not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load task")
	}
	return task, nil
}

func (s *TaskService) enrich(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	names := s.people.newLookup()
	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		d, err := names.resolve(ctx, t.AssignedTo, models.Unassigned)
		if err != nil {
			return nil, err
		}
		views = append(views, models.TaskView{Task: t, AssignedUsername: d.name, AssignedAvatar: d.avatar})
	}
	return views, nil
}

// resolveAssignee validates an assignee given by id or by display name.
func resolveAssignee(ctx context.Context, p people, id, username string) (string, error) {
	if id != "" {
		if _, err := p.requireUser(ctx, id, fmt.Sprintf("Assigned user (%s) not found", id)); err != nil {
			return "", err
		}
		return id, nil
	}
	return p.idForName(ctx, username)
}

func buildTaskUpdate(ctx context.Context, p people, in UpdateTaskInput) (models.TaskUpdate, error) {
	update := models.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UpdatedAt:   time.Now().UTC(),
	}
	if in.AssignedUsername != nil {
		id, err := p.idForName(ctx, *in.AssignedUsername)
		if err != nil {
			return models.TaskUpdate{}, err
		}
		update.AssignedTo = &id
	}
	return update, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
