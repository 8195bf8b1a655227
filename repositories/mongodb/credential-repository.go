package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
)

// CredentialRepo relies on the unique email index created by EnsureIndexes.
type CredentialRepo struct {
	collection *mongo.Collection
}

func (r *CredentialRepo) Create(ctx context.Context, cred *models.Credential) error {
	return insertOne(ctx, r.collection, cred)
}

func (r *CredentialRepo) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := findOne(ctx, r.collection, bson.M{"email": email}, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}
