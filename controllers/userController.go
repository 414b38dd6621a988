package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/codeandtesttea/songsbackend/database"
	"github.com/codeandtesttea/songsbackend/helpers"
	"github.com/codeandtesttea/songsbackend/models"
)

var validate = validator.New()

// UserController handles account registration, login and profile lookup.
type UserController struct {
	store database.UserStore
}

func NewUserController(store database.UserStore) *UserController {
	return &UserController{store: store}
}

// HashPassword hashes a plain password.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// VerifyPassword compares a hashed password with plain text.
func VerifyPassword(hashedPassword string, providedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)) == nil
}

func (uc *UserController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if validationErr := validate.Struct(user); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		count, err := uc.store.CountByEmail(ctx, *user.Email)
		if err != nil {
			respondServerError(c, "Failed to check email", err)
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}

		password, err := HashPassword(*user.Password)
		if err != nil {
			respondServerError(c, "Failed to hash password", err)
			return
		}
		user.Password = &password

		now := time.Now()
		user.CreatedAt = &now
		user.UpdatedAt = &now
		user.ID = primitive.NewObjectID()
		user.UserID = user.ID.Hex()

		token, refreshToken, err := helpers.GenerateAllTokens(*user.Email, *user.Name, user.UserID)
		if err != nil {
			respondServerError(c, "Token generation failed", err)
			return
		}
		user.Token = &token
		user.RefreshToken = &refreshToken

		if err := uc.store.Create(ctx, user); err != nil {
			respondServerError(c, "User not created", err)
			return
		}

		log.Printf("✅ [Register] New account %s", user.UserID)
		user.Password = nil
		c.JSON(http.StatusCreated, gin.H{
			"message":       "user created successfully",
			"token":         token,
			"refresh_token": refreshToken,
			"user":          user,
		})
	}
}

func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User

		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if user.Email == nil || user.Password == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		foundUser, err := uc.store.FindByEmail(ctx, *user.Email)
		if err == database.ErrUserNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to fetch user", err)
			return
		}

		if foundUser.Password == nil || !VerifyPassword(*foundUser.Password, *user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
			return
		}

		token, refreshToken, err := helpers.GenerateAllTokens(*foundUser.Email, *foundUser.Name, foundUser.UserID)
		if err != nil {
			respondServerError(c, "Token generation failed", err)
			return
		}

		if err := uc.store.UpdateTokens(ctx, foundUser.UserID, token, refreshToken); err != nil {
			respondServerError(c, "Failed to update tokens", err)
			return
		}

		foundUser.Password = nil
		c.JSON(http.StatusOK, gin.H{
			"token":         token,
			"refresh_token": refreshToken,
			"user":          foundUser,
		})
	}
}

func (uc *UserController) MyProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := uc.store.FindByUserID(ctx, userID.(string))
		if err == database.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to fetch user", err)
			return
		}

		user.Password = nil
		c.JSON(http.StatusOK, user)
	}
}
