package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCollection[T any] struct {
	Coll *mongo.Collection
}

func NewMongoCollection[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{Coll: db.Collection(name)}
}

func mongoFilter(f Filter) bson.D {
	if f.All() {
		return bson.D{}
	}
	return bson.D{{Key: f.Field, Value: f.Value}}
}

func (c *MongoCollection[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	cur, err := c.Coll.Find(ctx, mongoFilter(f))
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", c.Coll.Name(), err)
	}
	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", c.Coll.Name(), err)
	}
	return items, nil
}

func (c *MongoCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	var doc T
	if err := c.Coll.FindOne(ctx, mongoFilter(f)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find one %s: %w", c.Coll.Name(), err)
	}
	return &doc, nil
}

func (c *MongoCollection[T]) Insert(ctx context.Context, doc *T) (string, error) {
	res, err := c.Coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongo insert %s: %w", c.Coll.Name(), err)
	}
	return idString(res.InsertedID), nil
}

func (c *MongoCollection[T]) Update(ctx context.Context, f Filter, set Fields, policy Policy) (UpdateResult, error) {
	if f.All() {
		return UpdateResult{}, errors.New("mongo update: filter field is required")
	}
	update := bson.D{{Key: "$set", Value: bson.M(set)}}
	opts := options.Update().SetUpsert(policy == Upsert)

	res, err := c.Coll.UpdateOne(ctx, mongoFilter(f), update, opts)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("mongo update %s: %w", c.Coll.Name(), err)
	}
	out := UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}
	if res.UpsertedID != nil {
		out.UpsertedID = idString(res.UpsertedID)
	}
	return out, nil
}

// EnsureIndexes creates plain ascending indexes. They are never unique:
// uniqueness of email, subjectId, sku and pathname is left to the callers.
func (c *MongoCollection[T]) EnsureIndexes(ctx context.Context, fields ...string) error {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := c.Coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo indexes %s: %w", c.Coll.Name(), err)
	}
	return nil
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
