package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client

func mongoClientOptions(uri string) *options.ClientOptions {
	return options.Client().ApplyURI(uri).
		SetAppName("rxcatalog").
		SetServerSelectionTimeout(durationEnv("MONGO_SELECT_TIMEOUT", 10*time.Second)).
		SetConnectTimeout(durationEnv("MONGO_CONNECT_TIMEOUT", 10*time.Second)).
		SetMaxPoolSize(10).
		SetMinPoolSize(0)
}

// InitMongo connects the grant audit store. The audit trail is optional, so
// callers treat an error here as "audit disabled".
func InitMongo(ctx context.Context) error {
	uri := firstEnv("MONGO_URI")
	if uri == "" {
		return errors.New("MONGO_URI environment variable is not set")
	}

	connCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(connCtx, mongoClientOptions(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}

	MongoClient = client
	return nil
}
