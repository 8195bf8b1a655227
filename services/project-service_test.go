package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

func TestCreateProjectAddsOwnerAndLinksMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "m1", "Max")

	id, err := f.projects.Create(ctx, CreateProjectInput{
		Title:   "Launch",
		OwnerID: "owner",
		Members: []string{"m1", "m1"},
	})
	require.NoError(t, err)

	project, err := f.store.Projects().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "owner"}, project.Members)

	for _, uid := range []string{"owner", "m1"} {
		u, err := f.store.Users().FindByID(ctx, uid)
		require.NoError(t, err)
		assert.Contains(t, u.Projects, id)
	}

	notes, err := f.notifications.List(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Launch")

	ownerNotes, err := f.notifications.List(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, ownerNotes)
}

func TestCreateProjectRejectsInvalidMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")

	_, err := f.projects.Create(ctx, CreateProjectInput{Title: "P", OwnerID: "owner", Members: []string{"ghost", "owner"}})
	requireKind(t, err, apperrors.KindValidation)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"ghost"}, appErr.Details["invalidMembers"])

	projects, err := f.store.Projects().FindByMember(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCreateProjectValidation(t *testing.T) {
	f := newFixture()
	f.addUser(t, "owner", "Olivia")

	_, err := f.projects.Create(context.Background(), CreateProjectInput{OwnerID: "owner"})
	requireKind(t, err, apperrors.KindValidation)

	_, err = f.projects.Create(context.Background(), CreateProjectInput{Title: "P", OwnerID: "nobody"})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestGetProjectSkipsVanishedMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	require.NoError(t, f.store.Projects().Create(ctx, &models.Project{ID: "p1", Title: "P", OwnerID: "owner", Members: []string{"gone", "owner"}}))

	detail, err := f.projects.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.Project.ID)
	require.Len(t, detail.MemberProfiles, 1)
	assert.Equal(t, models.MemberProfile{UserID: "owner", Name: "Olivia", Avatar: "https://avatars.test/owner"}, detail.MemberProfiles[0])

	_, err = f.projects.GetByID(ctx, "missing")
	requireKind(t, err, apperrors.KindNotFound)
}

func TestListProjectsForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "a", "A")
	f.addUser(t, "b", "B")
	f.addProject(t, "a")
	_, err := f.projects.Create(ctx, CreateProjectInput{Title: "Shared", OwnerID: "b", Members: []string{"a"}})
	require.NoError(t, err)
	f.addProject(t, "b")

	projects, err := f.projects.ListForUser(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	projects, err = f.projects.ListForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "m1", "Max")
	f.addUser(t, "m2", "Mia")
	id, err := f.projects.Create(ctx, CreateProjectInput{Title: "P", OwnerID: "owner", Members: []string{"m1"}})
	require.NoError(t, err)

	t.Run("requires a field", func(t *testing.T) {
		_, err := f.projects.Update(ctx, UpdateProjectInput{ProjectID: id})
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := f.projects.Update(ctx, UpdateProjectInput{ProjectID: "nope", Title: strPtr("x")})
		requireKind(t, err, apperrors.KindNotFound)
	})

	t.Run("invalid members", func(t *testing.T) {
		members := []string{"ghost"}
		_, err := f.projects.Update(ctx, UpdateProjectInput{ProjectID: id, Members: &members})
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("members keep owner and new members are linked", func(t *testing.T) {
		members := []string{"m2"}
		project, err := f.projects.Update(ctx, UpdateProjectInput{ProjectID: id, Title: strPtr("Renamed"), Members: &members})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", project.Title)
		assert.Equal(t, []string{"m2", "owner"}, project.Members)
		require.NotNil(t, project.UpdatedAt)

		m2, err := f.store.Users().FindByID(ctx, "m2")
		require.NoError(t, err)
		assert.Contains(t, m2.Projects, id)

		notes, err := f.notifications.List(ctx, "m2")
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})
}

func TestProjectOverviewCountsComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	pid := f.addProject(t, "owner")
	t1 := f.addTask(t, pid, "")
	f.addTask(t, pid, "")

	for i := 0; i < 2; i++ {
		_, err := f.comments.Add(ctx, AddCommentInput{TaskID: t1, UserID: "owner", Message: "hi"})
		require.NoError(t, err)
	}

	overview, err := f.projects.Overview(ctx, pid)
	require.NoError(t, err)
	require.Len(t, overview.Tasks, 2)
	assert.Equal(t, int64(2), overview.Tasks[0].CommentCount)
	assert.Equal(t, int64(0), overview.Tasks[1].CommentCount)
	assert.Equal(t, models.DefaultStatus, overview.Tasks[0].Status)

	_, err = f.projects.Overview(ctx, "")
	requireKind(t, err, apperrors.KindValidation)
	_, err = f.projects.Overview(ctx, "missing")
	requireKind(t, err, apperrors.KindNotFound)
}
