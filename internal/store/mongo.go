package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is used when no collection name is configured.
const DefaultCollection = "ledgers"

// MongoBackend stores one document per namespace:
// {_id: namespace, blob: <json>, updated_at: <time>}.
type MongoBackend struct {
	client   *mongo.Client
	dbName   string
	collName string
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Blob      string    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoBackend connects to MongoDB and verifies the connection.
func NewMongoBackend(ctx context.Context, uri, dbName, collName string) (*MongoBackend, error) {
	if collName == "" {
		collName = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &MongoBackend{client: client, dbName: dbName, collName: collName}, nil
}

func (b *MongoBackend) collection() *mongo.Collection {
	return b.client.Database(b.dbName).Collection(b.collName)
}

// Get reads the blob for a namespace.
func (b *MongoBackend) Get(ctx context.Context, namespace string) ([]byte, error) {
	var doc mongoDoc
	err := b.collection().FindOne(ctx, bson.M{"_id": namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", namespace, err)
	}
	return []byte(doc.Blob), nil
}

// Put upserts the blob for a namespace.
func (b *MongoBackend) Put(ctx context.Context, namespace string, blob []byte) error {
	doc := mongoDoc{ID: namespace, Blob: string(blob), UpdatedAt: time.Now().UTC()}
	_, err := b.collection().ReplaceOne(ctx, bson.M{"_id": namespace}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upserting %s: %w", namespace, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}
