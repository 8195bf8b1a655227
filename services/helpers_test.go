package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories/memory"
)

type fixture struct {
	store         *memory.Store
	notifications *NotificationService
	projects      *ProjectService
	tasks         *TaskService
	subtasks      *SubtaskService
	comments      *CommentService
}

func newFixture() *fixture {
	store := memory.NewStore()
	notifications := NewNotificationService(store.Notifications())
	return &fixture{
		store:         store,
		notifications: notifications,
		projects:      NewProjectService(store.Projects(), store.Users(), store.Tasks(), store.Comments(), notifications),
		tasks:         NewTaskService(store.Tasks(), store.Projects(), store.Users(), notifications),
		subtasks:      NewSubtaskService(store.Subtasks(), store.Tasks(), store.Users(), notifications),
		comments:      NewCommentService(store.Comments(), store.Tasks(), store.Users(), notifications),
	}
}

func (f *fixture) addUser(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.store.Users().Create(context.Background(), &models.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Role:      models.DefaultRole,
		Avatar:    "https://avatars.test/" + id,
		Projects:  []string{},
		CreatedAt: time.Now().UTC(),
	}))
}

func (f *fixture) addProject(t *testing.T, ownerID string) string {
	t.Helper()
	id, err := f.projects.Create(context.Background(), CreateProjectInput{Title: "Project", OwnerID: ownerID})
	require.NoError(t, err)
	return id
}

func (f *fixture) addTask(t *testing.T, projectID, assignee string) string {
	t.Helper()
	id, err := f.tasks.Create(context.Background(), CreateTaskInput{Title: "Task", ProjectID: projectID, AssignedTo: assignee})
	require.NoError(t, err)
	return id
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperrors.KindOf(err), "unexpected error: %v", err)
}

func strPtr(s string) *string { return &s }

// stubIdentity accepts any credential and hands out fixed uids.
type stubIdentity struct {
	uid       string
	signUpErr error
	signInErr error
	signedUp  []string
}

func (s *stubIdentity) SignUp(_ context.Context, email, _ string) (*Identity, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	s.signedUp = append(s.signedUp, email)
	return &Identity{UID: s.uid, Email: email, IDToken: "token-" + s.uid}, nil
}

func (s *stubIdentity) SignIn(_ context.Context, email, _ string) (*Identity, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &Identity{UID: s.uid, Email: email, IDToken: "token-" + s.uid}, nil
}
