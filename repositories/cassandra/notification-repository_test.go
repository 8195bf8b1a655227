package cassandra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

func TestMarkReadRejectsMalformedIDBeforeQuerying(t *testing.T) {
	repo := &NotificationRepo{}

	err := repo.MarkRead(context.Background(), "u1", "not-a-uuid", time.Now())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreateRejectsMalformedID(t *testing.T) {
	repo := &NotificationRepo{}

	err := repo.Create(context.Background(), &models.Notification{ID: "bogus", UserID: "u1"})
	assert.ErrorContains(t, err, `invalid notification id "bogus"`)
}
