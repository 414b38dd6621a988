package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codeandtesttea/songsbackend/models"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the narrow interface the account handlers talk to.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	CountByEmail(ctx context.Context, email string) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	UpdateTokens(ctx context.Context, userID, token, refreshToken string) error
}

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(client *mongo.Client, dbName string) *MongoUserStore {
	return &MongoUserStore{collection: client.Database(dbName).Collection("users")}
}

func (s *MongoUserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.collection.InsertOne(ctx, user)
	return err
}

func (s *MongoUserStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) UpdateTokens(ctx context.Context, userID, token, refreshToken string) error {
	update := bson.M{"$set": bson.M{
		"token":         token,
		"refresh_token": refreshToken,
		"updated_at":    time.Now(),
	}}

	_, err := s.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	return err
}
