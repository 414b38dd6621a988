package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// retryInterval is the fixed backoff between connection attempts.
const retryInterval = 5 * time.Second

// Connect dials MongoDB and keeps retrying every 5 seconds until the server
// answers a ping or ctx is cancelled. The returned client is the single owned
// handle for the process; callers inject it where it is needed instead of
// reading a package global.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	for {
		client, err := tryConnect(ctx, uri)
		if err == nil {
			log.Println("✅ [database] Connected to MongoDB")
			return client, nil
		}

		log.Printf("❌ [database] MongoDB connection failed: %v (retrying in %s)", err, retryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func tryConnect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// Disconnect closes the client, logging instead of failing on error since it
// only runs during shutdown.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Printf("❌ [database] Error disconnecting from MongoDB: %v", err)
		return
	}
	log.Println("✅ [database] MongoDB connection closed")
}
