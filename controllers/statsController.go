package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeandtesttea/songsbackend/database"
)

// StatsController serves library-wide aggregates computed from the songs
// collection.
type StatsController struct {
	store database.StatsStore
}

func NewStatsController(store database.StatsStore) *StatsController {
	return &StatsController{store: store}
}

func (st *StatsController) GetLibraryStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		stats, err := st.store.LibraryStats(ctx)
		if err != nil {
			log.Println("❌ [GetLibraryStats] Failed to fetch stats:", err)
			respondServerError(c, "Failed to fetch stats", err)
			return
		}

		var topSong interface{}
		if stats.TopSong != nil {
			topSong = gin.H{
				"id":        stats.TopSong.ID.Hex(),
				"title":     stats.TopSong.Title,
				"artist":    stats.TopSong.Artist,
				"playCount": stats.TopSong.PlayCount,
			}
		}

		var topArtist interface{}
		if stats.TopArtist != nil {
			topArtist = stats.TopArtist
		}

		c.JSON(http.StatusOK, gin.H{
			"total_songs": stats.TotalSongs,
			"total_plays": stats.TotalPlays,
			"top_song":    topSong,
			"top_artist":  topArtist,
		})
	}
}
