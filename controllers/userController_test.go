package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeandtesttea/songsbackend/database"
	"github.com/codeandtesttea/songsbackend/helpers"
	"github.com/codeandtesttea/songsbackend/middleware"
	"github.com/codeandtesttea/songsbackend/models"
)

// fakeUserStore is an in-memory UserStore keyed by user_id.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (f *fakeUserStore) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) UpdateTokens(ctx context.Context, userID, token, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return database.ErrUserNotFound
	}
	user.Token = &token
	user.RefreshToken = &refreshToken
	f.users[userID] = user
	return nil
}

func userRouter(store database.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewUserController(store)
	auth := router.Group("/api/auth")
	auth.POST("/register", controller.Register())
	auth.POST("/login", controller.Login())
	auth.GET("/me", middleware.Authentication(), controller.MyProfile())

	return router
}

func strPtr(s string) *string {
	return &s
}

func (f *fakeUserStore) seedAccount(t *testing.T, name, email, password string) models.User {
	t.Helper()

	hashed, err := HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Name:     strPtr(name),
		Email:    strPtr(email),
		Password: strPtr(hashed),
		UserID:   "user-" + name,
	}
	require.NoError(t, f.Create(context.Background(), user))
	return user
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_CreatesAccount(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	store := newFakeUserStore()
	router := userRouter(store)

	w := postJSON(t, router, "/api/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"sekrit1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refresh_token"])

	// The stored password is hashed, and the response never echoes it.
	stored, err := store.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.Password)
	assert.NotEqual(t, "sekrit1", *stored.Password)
	assert.True(t, VerifyPassword(*stored.Password, "sekrit1"))
	assert.NotContains(t, w.Body.String(), *stored.Password)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	store := newFakeUserStore()
	store.seedAccount(t, "Asha", "asha@example.com", "sekrit1")
	router := userRouter(store)

	w := postJSON(t, router, "/api/auth/register",
		`{"name":"Other","email":"asha@example.com","password":"sekrit2"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already exists")
}

func TestRegister_RejectsInvalidPayload(t *testing.T) {
	store := newFakeUserStore()
	router := userRouter(store)

	for _, body := range []string{
		`{"name":"Asha","email":"not-an-email","password":"sekrit1"}`,
		`{"name":"Asha","email":"asha@example.com","password":"tiny"}`,
		`{"email":"asha@example.com","password":"sekrit1"}`,
	} {
		w := postJSON(t, router, "/api/auth/register", body)
		assert.Equalf(t, http.StatusBadRequest, w.Code, "payload %s", body)
	}
	assert.Empty(t, store.users)
}

func TestLogin_ReturnsTokens(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	store := newFakeUserStore()
	store.seedAccount(t, "Asha", "asha@example.com", "sekrit1")
	router := userRouter(store)

	w := postJSON(t, router, "/api/auth/login",
		`{"email":"asha@example.com","password":"sekrit1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])

	// Login rotates the stored tokens.
	stored, err := store.FindByUserID(context.Background(), "user-Asha")
	require.NoError(t, err)
	require.NotNil(t, stored.Token)
	assert.Equal(t, body["token"], *stored.Token)
}

func TestLogin_BadCredentialsUnauthorized(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	store := newFakeUserStore()
	store.seedAccount(t, "Asha", "asha@example.com", "sekrit1")
	router := userRouter(store)

	// Wrong password and unknown email must be indistinguishable.
	for _, body := range []string{
		`{"email":"asha@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"sekrit1"}`,
	} {
		w := postJSON(t, router, "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "email or password is incorrect")
	}

	w := postJSON(t, router, "/api/auth/login", `{"email":"asha@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyProfile(t *testing.T) {
	t.Setenv("SECRET_KEY", "unit-test-secret")
	store := newFakeUserStore()
	user := store.seedAccount(t, "Asha", "asha@example.com", "sekrit1")
	router := userRouter(store)

	get := func(authorization string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		router.ServeHTTP(w, req)
		return w
	}

	token, _, err := helpers.GenerateAllTokens(*user.Email, *user.Name, user.UserID)
	require.NoError(t, err)

	w := get("Bearer " + token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var fetched models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, user.UserID, fetched.UserID)
	assert.Nil(t, fetched.Password)

	assert.Equal(t, http.StatusUnauthorized, get("").Code)
	assert.Equal(t, http.StatusUnauthorized, get("Bearer not-a-token").Code)

	ghost, _, err := helpers.GenerateAllTokens("ghost@example.com", "Ghost", "user-ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, get("Bearer "+ghost).Code)
}
