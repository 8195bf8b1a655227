package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

func TestCreateTaskDefaultsAndUnassigned(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	pid := f.addProject(t, "owner")

	id := f.addTask(t, pid, "")
	view, err := f.tasks.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultStatus, view.Status)
	assert.Equal(t, models.DefaultPriority, view.Priority)
	assert.Equal(t, models.Unassigned, view.AssignedUsername)
	assert.Empty(t, view.AssignedAvatar)
}

func TestCreateTaskFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	pid := f.addProject(t, "owner")

	tests := []struct {
		name string
		in   CreateTaskInput
		kind apperrors.Kind
	}{
		{"missing title", CreateTaskInput{ProjectID: pid}, apperrors.KindValidation},
		{"missing project id", CreateTaskInput{Title: "T"}, apperrors.KindValidation},
		{"unknown project", CreateTaskInput{Title: "T", ProjectID: "nope"}, apperrors.KindNotFound},
		{"unknown assignee id", CreateTaskInput{Title: "T", ProjectID: pid, AssignedTo: "ghost"}, apperrors.KindNotFound},
		{"unknown assignee name", CreateTaskInput{Title: "T", ProjectID: pid, AssignedUsername: "Nobody"}, apperrors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.Create(ctx, tt.in)
			requireKind(t, err, tt.kind)
		})
	}

	all, err := f.store.Tasks().Find(ctx, repositories.TaskFilter{ProjectID: pid})
	require.NoError(t, err)
	assert.Empty(t, all)
	none, err := f.store.Tasks().Find(ctx, repositories.TaskFilter{ProjectID: "nope"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateTaskByUsernameNotifiesAssignee(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "u1", "Max")
	pid := f.addProject(t, "owner")

	id, err := f.tasks.Create(ctx, CreateTaskInput{Title: "Write docs", ProjectID: pid, AssignedUsername: "Max"})
	require.NoError(t, err)

	view, err := f.tasks.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", view.AssignedTo)
	assert.Equal(t, "Max", view.AssignedUsername)
	assert.Equal(t, "https://avatars.test/u1", view.AssignedAvatar)

	notes, err := f.notifications.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Write docs")
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "u1", "Max")
	p1 := f.addProject(t, "owner")
	p2 := f.addProject(t, "owner")
	f.addTask(t, p1, "u1")
	f.addTask(t, p1, "")
	f.addTask(t, p2, "u1")

	_, err := f.tasks.List(ctx, "", "")
	requireKind(t, err, apperrors.KindValidation)

	byProject, err := f.tasks.List(ctx, p1, "")
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byAssignee, err := f.tasks.List(ctx, "", "u1")
	require.NoError(t, err)
	assert.Len(t, byAssignee, 2)

	both, err := f.tasks.List(ctx, p2, "u1")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Max", both[0].AssignedUsername)
}

func TestListTasksUnknownAssignee(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.store.Tasks().Create(ctx, &models.Task{ID: "t1", ProjectID: "p1", Title: "T", AssignedTo: "deleted-user"}))

	tasks, err := f.tasks.List(ctx, "p1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.UnknownUser, tasks[0].AssignedUsername)
}

func TestUpdateTaskAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "first", "Sam")
	f.addUser(t, "second", "Sam")
	pid := f.addProject(t, "owner")
	id := f.addTask(t, pid, "")

	t.Run("unknown username", func(t *testing.T) {
		_, err := f.tasks.Update(ctx, id, UpdateTaskInput{AssignedUsername: strPtr("Nobody")})
		requireKind(t, err, apperrors.KindNotFound)
	})

	t.Run("ambiguous username resolves to first match", func(t *testing.T) {
		view, err := f.tasks.Update(ctx, id, UpdateTaskInput{AssignedUsername: strPtr("Sam"), Status: strPtr("In Progress")})
		require.NoError(t, err)
		assert.Equal(t, "first", view.AssignedTo)
		assert.Equal(t, "Sam", view.AssignedUsername)
		assert.Equal(t, "In Progress", view.Status)
		assert.Equal(t, "Task", view.Title)
		assert.NotNil(t, view.UpdatedAt)
	})

	t.Run("empty username clears the assignee", func(t *testing.T) {
		view, err := f.tasks.Update(ctx, id, UpdateTaskInput{AssignedUsername: strPtr("")})
		require.NoError(t, err)
		assert.Empty(t, view.AssignedTo)
		assert.Equal(t, models.Unassigned, view.AssignedUsername)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := f.tasks.Update(ctx, "nope", UpdateTaskInput{Title: strPtr("x")})
		requireKind(t, err, apperrors.KindNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	id := f.addTask(t, f.addProject(t, "owner"), "")

	requireKind(t, f.tasks.Delete(ctx, "nope"), apperrors.KindNotFound)

	require.NoError(t, f.tasks.Delete(ctx, id))
	_, err := f.tasks.Get(ctx, id)
	requireKind(t, err, apperrors.KindNotFound)
}
