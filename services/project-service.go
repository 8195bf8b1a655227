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

type ProjectService struct {
	projects      repositories.ProjectRepository
	users         repositories.UserRepository
	tasks         repositories.TaskRepository
	comments      repositories.CommentRepository
	notifications *NotificationService
}

func NewProjectService(
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	comments repositories.CommentRepository,
	notifications *NotificationService,
) *ProjectService {
	return &ProjectService{
		projects:      projects,
		users:         users,
		tasks:         tasks,
		comments:      comments,
		notifications: notifications,
	}
}

type CreateProjectInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	OwnerID     string   `json:"ownerID" validate:"required"`
	Members     []string `json:"members"`
	Deadline    string   `json:"deadline"`
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (string, error) {
	if err := validateInput(in, "Project title and ownerID are required"); err != nil {
		return "", err
	}

	if _, err := (people{users: s.users}).requireUser(ctx, in.OwnerID, "Owner does not exist"); err != nil {
		return "", err
	}

	members, err := s.checkMembers(ctx, in.Members)
	if err != nil {
		return "", err
	}
	members = withOwner(members, in.OwnerID)

	project := &models.Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Members:     members,
		Deadline:    in.Deadline,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return "", apperrors.Internal(err, "failed to create project")
	}

	if err := s.linkMembers(ctx, project.ID, members); err != nil {
		return "", err
	}

	for _, m := range members {
		if m != project.OwnerID {
			s.notifications.Notify(ctx, m, fmt.Sprintf("You have been added to project %q", project.Title))
		}
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s with %d members", project.ID, project.OwnerID, len(members))
	return project.ID, nil
}

func (s *ProjectService) GetByID(ctx context.Context, projectID string) (*models.ProjectDetail, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.MemberProfile, 0, len(project.Members))
	for _, id := range project.Members {
		user, err := s.users.FindByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal(err, "failed to load member %s", id)
		}
		profiles = append(profiles, models.MemberProfile{UserID: id, Name: user.Name, Avatar: user.Avatar})
	}
	return &models.ProjectDetail{Project: project, MemberProfiles: profiles}, nil
}

// ListForUser returns every project the user owns or is a member of.
func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	if userID == "" {
		return nil, apperrors.Validation("userID is required")
	}
	projects, err := s.projects.FindByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load projects")
	}
	return projects, nil
}

type UpdateProjectInput struct {
	ProjectID   string    `json:"projectID" validate:"required"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Deadline    *string   `json:"deadline"`
	Members     *[]string `json:"members"`
}

func (in UpdateProjectInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Deadline == nil && in.Members == nil
}

// Update applies the provided fields. Members are re-validated and keep the owner;
// users dropped from the member list keep the project in their own index.
func (s *ProjectService) Update(ctx context.Context, in UpdateProjectInput) (*models.Project, error) {
	if err := validateInput(in, "projectID is required"); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, apperrors.Validation("No valid fields to update")
	}

	update := models.ProjectUpdate{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		UpdatedAt:   time.Now().UTC(),
	}
	var members []string
	if in.Members != nil {
		members, err = s.checkMembers(ctx, *in.Members)
		if err != nil {
			return nil, err
		}
		members = withOwner(members, current.OwnerID)
		update.Members = &members
	}

	if err := s.projects.Update(ctx, in.ProjectID, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, apperrors.Internal(err, "failed to update project")
	}

	if in.Members != nil {
		if err := s.linkMembers(ctx, in.ProjectID, members); err != nil {
			return nil, err
		}
		for _, m := range members {
			if !current.HasMember(m) {
				s.notifications.Notify(ctx, m, fmt.Sprintf("You have been added to project %q", current.Title))
			}
		}
	}

	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %s updated", in.ProjectID)
	return s.load(ctx, in.ProjectID)
}

// Overview lists the project's tasks with one comment count per task.
func (s *ProjectService) Overview(ctx context.Context, projectID string) (*models.ProjectOverview, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.Find(ctx, repositories.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load tasks")
	}

	overview := &models.ProjectOverview{
		ProjectID:   project.ID,
		Title:       project.Title,
		Description: project.Description,
		Deadline:    project.Deadline,
		Members:     project.Members,
		Tasks:       make([]models.TaskOverview, 0, len(tasks)),
	}
	for _, t := range tasks {
		count, err := s.comments.CountByTask(ctx, t.ID)
		if err != nil {
			return nil, apperrors.Internal(err, "failed to count comments for task %s", t.ID)
		}
		overview.Tasks = append(overview.Tasks, models.TaskOverview{
			TaskID:       t.ID,
			Title:        t.Title,
			Status:       t.Status,
			DueDate:      t.DueDate,
			CommentCount: count,
		})
	}
	return overview, nil
}

func (s *ProjectService) load(ctx context.Context, projectID string) (*models.Project, error) {
	if projectID == "" {
		return nil, apperrors.Validation("projectID is required")
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load project")
	}
	return project, nil
}

// checkMembers drops duplicate ids and rejects the whole list if any id is unknown.
func (s *ProjectService) checkMembers(ctx context.Context, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	valid := make([]string, 0, len(ids)+1)
	invalid := make([]string, 0)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		_, err := s.users.FindByID(ctx, id)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			invalid = append(invalid, id)
		case err != nil:
			return nil, apperrors.Internal(err, "failed to validate member %s", id)
		default:
			valid = append(valid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.Validation("Some member IDs are invalid.").WithDetail("invalidMembers", invalid)
	}
	return valid, nil
}

// linkMembers adds projectID to each member's project index. Earlier writes are not undone on failure.
func (s *ProjectService) linkMembers(ctx context.Context, projectID string, members []string) error {
	for _, m := range members {
		err := s.users.AddProject(ctx, m, projectID)
		if errors.Is(err, repositories.ErrNotFound) {
			logging.Logger.Warnf("Event ID: MEMBER_VANISHED, Description: User %s disappeared before project %s was linked", m, projectID)
			continue
		}
		if err != nil {
			return apperrors.Internal(err, "failed to link project %s to user %s", projectID, m)
		}
	}
	return nil
}

func withOwner(members []string, ownerID string) []string {
	for _, m := range members {
		if m == ownerID {
			return members
		}
	}
	return append(members, ownerID)
}
