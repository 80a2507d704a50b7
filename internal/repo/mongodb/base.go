package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// keep the baseRepo implementation in sync with IRepository interface
var _ IRepository[models.User] = (*baseRepo[models.User])(nil)

type IEntity interface {
	CollectionName() string
}

type IRepository[E IEntity] interface {
	Insert(ctx context.Context, entity *E) (primitive.ObjectID, error)
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]*E, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*E, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*E, error)
	FindOneAndUpdate(ctx context.Context, filter any, update bson.M) (*E, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error
	UpdateMany(ctx context.Context, filter any, update bson.M) (int64, error)
	DeleteOne(ctx context.Context, filter any) error
	DeleteMany(ctx context.Context, filter any) (int64, error)
	Count(ctx context.Context, filter any) (int64, error)
}

type baseRepo[E IEntity] struct {
	coll *mongo.Collection
}

func newBaseRepo[E IEntity](db *DB) baseRepo[E] {
	var entity E
	return baseRepo[E]{
		coll: db.Database.Collection(entity.CollectionName()),
	}
}

func (r *baseRepo[E]) Insert(ctx context.Context, entity *E) (primitive.ObjectID, error) {
	result, err := r.coll.InsertOne(ctx, entity)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, models.ErrConflict
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert one: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("invalid inserted id: %T %+v", result.InsertedID, result.InsertedID)
	}
	return oid, nil
}

func (r *baseRepo[E]) Find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]*E, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	entities := make([]*E, 0)
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}
	return entities, nil
}

func (r *baseRepo[E]) FindByID(ctx context.Context, id primitive.ObjectID) (*E, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &entity, nil
}

func (r *baseRepo[E]) FindOneAndUpdate(ctx context.Context, filter any, update bson.M) (*E, error) {
	opt := options.
		FindOneAndUpdate().
		SetReturnDocument(options.After)

	var entity E
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opt).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("find one and update: %w", err)
	}
	return &entity, nil
}

func (r *baseRepo[E]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update one: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *baseRepo[E]) UpdateMany(ctx context.Context, filter any, update bson.M) (int64, error) {
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("update many: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *baseRepo[E]) DeleteOne(ctx context.Context, filter any) error {
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete one: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *baseRepo[E]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *baseRepo[E]) Count(ctx context.Context, filter any) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// aggregate runs pipeline on coll and decodes every result into T.
func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline []bson.M) ([]*T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	results := make([]*T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}
	return results, nil
}
