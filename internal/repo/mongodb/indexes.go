package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var collectionIndexes = map[string][]mongo.IndexModel{
	"users": {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("role_recent"),
		},
	},
	"complaints": {
		{
			Keys:    bson.D{{Key: "customer", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("customer_recent"),
		},
		{
			Keys:    bson.D{{Key: "assigned_agent", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("agent_recent"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		},
	},
	"messages": {
		{
			Keys:    bson.D{{Key: "complaint", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("complaint_thread"),
		},
		{
			Keys:    bson.D{{Key: "receiver", Value: 1}, {Key: "is_read", Value: 1}},
			Options: options.Index().SetName("receiver_unread"),
		},
		{
			Keys:    bson.D{{Key: "receiver", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("receiver_recent"),
		},
	},
}

// EnsureIndexes creates the indexes every repository relies on. The unique
// email index backs duplicate registration detection.
func EnsureIndexes(ctx context.Context, db *DB) error {
	for coll, indexes := range collectionIndexes {
		if _, err := db.Database.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}
