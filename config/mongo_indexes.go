package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabaseName returns MONGO_DB or the default database name.
func MongoDatabaseName() string {
	if v := firstEnv("MONGO_DB"); v != "" {
		return v
	}
	return "rxcatalog"
}

// EnsureMongoIndexes creates the grant_audit indexes. CreateMany is a no-op
// for indexes that already exist with the same keys and options.
func EnsureMongoIndexes(ctx context.Context) error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoClient.Database(MongoDatabaseName())

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	audit := db.Collection("grant_audit")
	_, err := audit.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL index: expire at ExpiresAt (must be Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_user_created"),
		},
	})
	return err
}
