package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/codeandtesttea/songsbackend/database"
	"github.com/codeandtesttea/songsbackend/models"
)

type fakeStatsStore struct {
	stats *database.LibraryStats
	err   error
}

func (f *fakeStatsStore) LibraryStats(ctx context.Context) (*database.LibraryStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func statsRouter(store database.StatsStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/stats", NewStatsController(store).GetLibraryStats())
	return router
}

func getStats(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetLibraryStats_FullPayload(t *testing.T) {
	topID := primitive.NewObjectID()
	store := &fakeStatsStore{stats: &database.LibraryStats{
		TotalSongs: 12,
		TotalPlays: 340,
		TopSong: &models.Song{
			ID:        topID,
			Title:     "Midnight Drive",
			Artist:    "The Valves",
			PlayCount: 120,
		},
		TopArtist: &database.ArtistPlays{Name: "The Valves", Plays: 200},
	}}

	w, body := getStats(t, statsRouter(store))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, float64(12), body["total_songs"])
	assert.Equal(t, float64(340), body["total_plays"])

	topSong, ok := body["top_song"].(map[string]interface{})
	require.True(t, ok, "top_song should be an object")
	assert.Equal(t, topID.Hex(), topSong["id"])
	assert.Equal(t, "Midnight Drive", topSong["title"])
	assert.Equal(t, float64(120), topSong["playCount"])

	topArtist, ok := body["top_artist"].(map[string]interface{})
	require.True(t, ok, "top_artist should be an object")
	assert.Equal(t, "The Valves", topArtist["name"])
	assert.Equal(t, float64(200), topArtist["plays"])
}

func TestGetLibraryStats_EmptyLibrary(t *testing.T) {
	store := &fakeStatsStore{stats: &database.LibraryStats{}}

	w, body := getStats(t, statsRouter(store))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, float64(0), body["total_songs"])
	assert.Equal(t, float64(0), body["total_plays"])
	assert.Nil(t, body["top_song"])
	assert.Nil(t, body["top_artist"])
}

func TestGetLibraryStats_StoreFailure(t *testing.T) {
	store := &fakeStatsStore{err: errors.New("aggregation broke")}

	w, body := getStats(t, statsRouter(store))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch stats", body["error"])
}
