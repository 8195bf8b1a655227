package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByName returns the first user whose display name equals name.
	FindByName(ctx context.Context, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// AddProject adds projectID to the user's project list unless already present.
	AddProject(ctx context.Context, userID, projectID string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	// FindByMember returns projects the user owns or belongs to.
	FindByMember(ctx context.Context, userID string) ([]models.Project, error)
	Update(ctx context.Context, id string, update models.ProjectUpdate) error
}

type TaskFilter struct {
	ProjectID  string
	AssignedTo string
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id string, update models.TaskUpdate) error
	Delete(ctx context.Context, id string) error
}

type SubtaskFilter struct {
	TaskID     string
	AssignedTo string
}

type SubtaskRepository interface {
	Create(ctx context.Context, subtask *models.Subtask) error
	FindByID(ctx context.Context, id string) (*models.Subtask, error)
	Find(ctx context.Context, filter SubtaskFilter) ([]models.Subtask, error)
	Update(ctx context.Context, id string, update models.TaskUpdate) error
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ListByTask returns the task's comments ordered by creation time, oldest first.
	ListByTask(ctx context.Context, taskID string) ([]models.Comment, error)
	CountByTask(ctx context.Context, taskID string) (int64, error)
}

type CredentialRepository interface {
	// Create fails with ErrDuplicate when the email is taken.
	Create(ctx context.Context, cred *models.Credential) error
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error
}
