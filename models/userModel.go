package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Email        *string            `bson:"email" json:"email" validate:"required,email"`
	Password     *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Token        *string            `bson:"token" json:"token,omitempty"`
	RefreshToken *string            `bson:"refresh_token" json:"refresh_token,omitempty"`
	UserID       string             `bson:"user_id" json:"user_id"`
	CreatedAt    *time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time         `bson:"updated_at" json:"updated_at"`
}
