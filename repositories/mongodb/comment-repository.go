package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

type CommentRepo struct {
	collection *mongo.Collection
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return insertOne(ctx, r.collection, comment)
}

func (r *CommentRepo) ListByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	return findAll[models.Comment](ctx, r.collection, bson.M{"taskID": taskID}, byCreation)
}

func (r *CommentRepo) CountByTask(ctx context.Context, taskID string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"taskID": taskID})
	if err != nil {
		return 0, fmt.Errorf("count comments for task %s: %w", taskID, err)
	}
	return n, nil
}
