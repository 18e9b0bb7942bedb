// Package mongo implements the repositories on a MongoDB database.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ruralride/internal/repository"
)

const (
	bookingsCollection = "bookings"
	usersCollection    = "users"
)

// EnsureIndexes creates the secondary indexes on bookings and the unique username index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(bookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "customerPhone", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// NewStorage wires both repositories on db. Closing the storage disconnects client.
func NewStorage(client *mongo.Client, db *mongo.Database) *repository.Storage {
	return repository.NewStorage("mongo",
		NewBookingRepository(db),
		NewUserRepository(db),
		client.Disconnect,
	)
}
