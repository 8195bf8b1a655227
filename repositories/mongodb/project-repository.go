package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

type ProjectRepo struct {
	collection *mongo.Collection
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return insertOne(ctx, r.collection, project)
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) FindByMember(ctx context.Context, userID string) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"ownerID": userID},
		{"members": userID},
	}}
	return findAll[models.Project](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *ProjectRepo) Update(ctx context.Context, id string, update models.ProjectUpdate) error {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Deadline != nil {
		set["deadline"] = *update.Deadline
	}
	if update.Members != nil {
		set["members"] = *update.Members
	}
	if !update.UpdatedAt.IsZero() {
		set["updatedAt"] = update.UpdatedAt
	}
	return updateByID(ctx, r.collection, id, bson.M{"$set": set})
}
