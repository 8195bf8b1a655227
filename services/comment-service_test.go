package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

func TestAddCommentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	taskID := f.addTask(t, f.addProject(t, "owner"), "")

	_, err := f.comments.Add(ctx, AddCommentInput{TaskID: taskID, UserID: "owner"})
	requireKind(t, err, apperrors.KindValidation)

	_, err = f.comments.Add(ctx, AddCommentInput{TaskID: "nope", UserID: "owner", Message: "hi"})
	requireKind(t, err, apperrors.KindNotFound)

	_, err = f.comments.Add(ctx, AddCommentInput{TaskID: taskID, UserID: "ghost", Message: "hi"})
	requireKind(t, err, apperrors.KindNotFound)

	n, err := f.store.Comments().CountByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAddCommentNotifiesAssignee(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	f.addUser(t, "u1", "Max")
	taskID := f.addTask(t, f.addProject(t, "owner"), "u1")

	_, err := f.comments.Add(ctx, AddCommentInput{TaskID: taskID, UserID: "owner", Message: "ping"})
	require.NoError(t, err)
	_, err = f.comments.Add(ctx, AddCommentInput{TaskID: taskID, UserID: "u1", Message: "pong"})
	require.NoError(t, err)

	notes, err := f.notifications.List(ctx, "u1")
	require.NoError(t, err)
	// One for the assignment, one for Olivia's comment; u1's own comment is silent.
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "Olivia commented")
}

func TestListCommentsResolvesAuthorsAtReadTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addUser(t, "owner", "Olivia")
	taskID := f.addTask(t, f.addProject(t, "owner"), "")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.Comments().Create(ctx, &models.Comment{ID: "c3", TaskID: taskID, UserID: "", Message: "third", CreatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, f.store.Comments().Create(ctx, &models.Comment{ID: "c1", TaskID: taskID, UserID: "owner", Message: "first", CreatedAt: base}))
	require.NoError(t, f.store.Comments().Create(ctx, &models.Comment{ID: "c2", TaskID: taskID, UserID: "gone", Message: "second", CreatedAt: base.Add(time.Minute)}))

	comments, err := f.comments.List(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "Olivia", comments[0].Username)
	assert.Equal(t, "https://avatars.test/owner", comments[0].Avatar)
	assert.Equal(t, models.UnknownUser, comments[1].Username)
	assert.Empty(t, comments[1].Avatar)
	assert.Equal(t, models.AnonymousUser, comments[2].Username)

	_, err = f.comments.List(ctx, "")
	requireKind(t, err, apperrors.KindValidation)
	_, err = f.comments.List(ctx, "nope")
	requireKind(t, err, apperrors.KindNotFound)
}
