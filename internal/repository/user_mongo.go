package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/coursegen/internal/database"
	"github.com/deppfellow/coursegen/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserMongoRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *UserMongoRepository {
	return &UserMongoRepository{coll: db.Collection(database.CollectionUsers)}
}

func (r *UserMongoRepository) CountUsers(ctx context.Context, filter model.UserFilter) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, userCountFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func userCountFilter(filter model.UserFilter) bson.M {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return query
}
