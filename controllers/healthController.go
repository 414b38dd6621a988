package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/database"
)

// HealthController reports liveness plus store connectivity.
type HealthController struct {
	store database.SongStore
}

func NewHealthController(store database.SongStore) *HealthController {
	return &HealthController{store: store}
}

func (hc *HealthController) HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "connected"
		if err := hc.store.Ping(ctx); err != nil {
			dbStatus = "disconnected"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
