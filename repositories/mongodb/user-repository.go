package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

type UserRepo struct {
	collection *mongo.Collection
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	return insertOne(ctx, r.collection, user)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.collection, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByName picks the earliest created user when several share the name.
func (r *UserRepo) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"name": name}, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})).Decode(&user)
	if err != nil {
		return nil, mapFindErr(r.collection, err)
	}
	return &user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.collection, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// AddProject is an atomic set-union on the user's project list.
func (r *UserRepo) AddProject(ctx context.Context, userID, projectID string) error {
	return updateByID(ctx, r.collection, userID, bson.M{"$addToSet": bson.M{"projects": projectID}})
}
