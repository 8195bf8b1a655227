package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

var byCreation = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

// taskSet builds the $set document shared by tasks and subtasks.
func taskSet(update models.TaskUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.AssignedTo != nil {
		set["assignedTo"] = *update.AssignedTo
	}
	if !update.UpdatedAt.IsZero() {
		set["updatedAt"] = update.UpdatedAt
	}
	return bson.M{"$set": set}
}

type TaskRepo struct {
	collection *mongo.Collection
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	return insertOne(ctx, r.collection, task)
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepo) Find(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	query := bson.M{}
	if filter.ProjectID != "" {
		query["projectID"] = filter.ProjectID
	}
	if filter.AssignedTo != "" {
		query["assignedTo"] = filter.AssignedTo
	}
	return findAll[models.Task](ctx, r.collection, query, byCreation)
}

func (r *TaskRepo) Update(ctx context.Context, id string, update models.TaskUpdate) error {
	return updateByID(ctx, r.collection, id, taskSet(update))
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

type SubtaskRepo struct {
	collection *mongo.Collection
}

func (r *SubtaskRepo) Create(ctx context.Context, subtask *models.Subtask) error {
	return insertOne(ctx, r.collection, subtask)
}

func (r *SubtaskRepo) FindByID(ctx context.Context, id string) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &subtask); err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *SubtaskRepo) Find(ctx context.Context, filter repositories.SubtaskFilter) ([]models.Subtask, error) {
	query := bson.M{}
	if filter.TaskID != "" {
		query["taskID"] = filter.TaskID
	}
	if filter.AssignedTo != "" {
		query["assignedTo"] = filter.AssignedTo
	}
	return findAll[models.Subtask](ctx, r.collection, query, byCreation)
}

func (r *SubtaskRepo) Update(ctx context.Context, id string, update models.TaskUpdate) error {
	return updateByID(ctx, r.collection, id, taskSet(update))
}

func (r *SubtaskRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}
