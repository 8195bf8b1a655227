// Package mongodb implements the repositories on top of the official MongoDB driver.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

// Collection names are shared with existing deployments and must not change.
const (
	UserCollection       = "User"
	ProjectCollection    = "Project"
	TaskCollection       = "Tasks"
	SubtaskCollection    = "Subtasks"
	CommentCollection    = "Comments"
	CredentialCollection = "Credentials"
)

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repositories.UserRepository {
	return &UserRepo{collection: s.db.Collection(UserCollection)}
}

func (s *Store) Projects() repositories.ProjectRepository {
	return &ProjectRepo{collection: s.db.Collection(ProjectCollection)}
}

func (s *Store) Tasks() repositories.TaskRepository {
	return &TaskRepo{collection: s.db.Collection(TaskCollection)}
}

func (s *Store) Subtasks() repositories.SubtaskRepository {
	return &SubtaskRepo{collection: s.db.Collection(SubtaskCollection)}
}

func (s *Store) Comments() repositories.CommentRepository {
	return &CommentRepo{collection: s.db.Collection(CommentCollection)}
}

func (s *Store) Credentials() repositories.CredentialRepository {
	return &CredentialRepo{collection: s.db.Collection(CredentialCollection)}
}

// EnsureIndexes creates the lookup indexes used by the repositories.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CredentialCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		TaskCollection: {
			{Keys: bson.D{{Key: "projectID", Value: 1}}},
			{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		},
		SubtaskCollection: {
			{Keys: bson.D{{Key: "taskID", Value: 1}}},
		},
		CommentCollection: {
			{Keys: bson.D{{Key: "taskID", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for _, name := range []string{CredentialCollection, UserCollection, TaskCollection, SubtaskCollection, CommentCollection} {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes[name]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		logging.Logger.Debugf("Event ID: DB_INDEXES_READY, Description: Indexes ensured on collection %s", name)
	}
	return nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	return mapFindErr(coll, coll.FindOne(ctx, filter).Decode(out))
}

func mapFindErr(coll *mongo.Collection, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode from %s: %w", coll.Name(), err)
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", coll.Name(), err)
	}
	return items, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert into %s: %w", coll.Name(), repositories.ErrDuplicate)
		}
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}

// updateByID applies update to the document with the given id.
func updateByID(ctx context.Context, coll *mongo.Collection, id string, update bson.M) error {
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update %s in %s: %w", id, coll.Name(), err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s from %s: %w", id, coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
