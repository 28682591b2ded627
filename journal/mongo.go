package journal

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"tryon/config"
)

type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongo(cfg config.Mongo) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *Mongo) Record(ctx context.Context, entry Entry) error {
	if _, err := m.collection.InsertOne(ctx, document(entry)); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func document(entry Entry) bson.M {
	return bson.M{
		"request_id":  entry.RequestID,
		"provider":    entry.Provider,
		"outcome":     entry.Outcome,
		"reason":      entry.Reason,
		"error":       entry.Error,
		"duration_ms": entry.Duration.Milliseconds(),
		"occurred_at": entry.OccurredAt,
	}
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
