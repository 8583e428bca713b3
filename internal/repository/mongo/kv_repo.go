// internal/repository/mongo/kv_repo.go
package mongo

import (
	"alcyxob/fitness-planner/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultKVCollectionName = "kv"

// kvDocument is one stored key. The value is kept as a string so the stored
// JSON stays readable in the mongo shell.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVStore implements repository.KeyValueStore
type mongoKVStore struct {
	collection *mongo.Collection
}

// NewMongoKVStore creates a durable key-value store backed by one collection.
// An empty collection name uses "kv".
func NewMongoKVStore(db *mongo.Database, collectionName string) repository.KeyValueStore {
	return &mongoKVStore{
		collection: KVCollection(db, collectionName),
	}
}

// Get retrieves the value stored under key.
func (r *mongoKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(doc.Value), true, nil
}

// Set upserts the value under key.
func (r *mongoKVStore) Set(ctx context.Context, key string, value []byte) error {
	filter := bson.M{"_id": key}
	update := bson.M{
		"$set": bson.M{
			"value":     string(value),
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (r *mongoKVStore) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// EnsureKVIndexes indexes updatedAt so stale keys (old rate-limit histories,
// abandoned settings) can be found without a collection scan.
func EnsureKVIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// KVCollection returns the collection NewMongoKVStore uses for collectionName.
func KVCollection(db *mongo.Database, collectionName string) *mongo.Collection {
	if collectionName == "" {
		collectionName = defaultKVCollectionName
	}
	return db.Collection(collectionName)
}
