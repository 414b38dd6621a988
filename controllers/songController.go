package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeandtesttea/songsbackend/database"
	"github.com/codeandtesttea/songsbackend/helpers"
	"github.com/codeandtesttea/songsbackend/models"
)

// DefaultMaxUploadSize bounds the buffered upload body.
const DefaultMaxUploadSize = 25 << 20 // 25 MB

// defaultAllowedTypes is the accepted MIME set for uploads.
var defaultAllowedTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/ogg":   true,
	"audio/flac":  true,
	"audio/mp4":   true,
	"audio/aac":   true,
	"audio/webm":  true,
}

// formatHints maps accepted MIME types to the format hint passed to storage.
var formatHints = map[string]string{
	"audio/mpeg":  "mp3",
	"audio/mp3":   "mp3",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/ogg":   "ogg",
	"audio/flac":  "flac",
	"audio/mp4":   "mp4",
	"audio/aac":   "aac",
	"audio/webm":  "webm",
}

// SongController owns the upload pipeline and song CRUD. The store and the
// storage backend come in through their interfaces so nothing here knows
// about MongoDB or Cloudinary directly.
type SongController struct {
	store         database.SongStore
	storage       helpers.FileStorage
	maxUploadSize int64
	allowedTypes  map[string]bool
}

func NewSongController(store database.SongStore, storage helpers.FileStorage) *SongController {
	return &SongController{
		store:         store,
		storage:       storage,
		maxUploadSize: DefaultMaxUploadSize,
		allowedTypes:  defaultAllowedTypes,
	}
}

// UploadSong runs the upload pipeline: cheap gates first (title, file
// presence, size, type), then the storage upload, and only after storage
// succeeds is a metadata record written. A storage failure persists nothing.
func (sc *SongController) UploadSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Println("🎵 UploadSong endpoint hit")

		// Bound the body before any parsing so one request can never
		// buffer more than the configured maximum plus form overhead.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sc.maxUploadSize+1<<20)

		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			// The multipart reader does not always wrap the limit error
			// transparently, so fall back to matching its message.
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
				c.JSON(http.StatusBadRequest, gin.H{"error": sc.fileTooLargeMessage()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed multipart form"})
			return
		}

		title := strings.TrimSpace(c.PostForm("title"))
		artist := c.PostForm("artist")

		if err := models.ValidateTitle(title); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Message})
			return
		}

		file, header, err := c.Request.FormFile("song")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Song file is required"})
			return
		}
		defer file.Close()

		if header.Size > sc.maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": sc.fileTooLargeMessage()})
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !sc.allowedTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type: only audio files are allowed"})
			return
		}

		// Opaque storage key, never the client filename.
		publicID := uuid.NewString()

		result, err := sc.storage.Upload(c.Request.Context(), file, helpers.UploadOptions{
			PublicID:     publicID,
			Folder:       "songs",
			ResourceType: "video",
			Format:       formatHints[contentType],
		})
		if err != nil {
			log.Println("❌ [UploadSong] Storage upload failed:", err)
			respondServerError(c, "Failed to upload song", err)
			return
		}

		song := models.NewSong(title, artist, result.PublicID, result.SecureURL, result.Duration)

		if errs := song.Validate(); len(errs) > 0 {
			// The blob went up before validation of the storage-derived
			// fields could run, so rejecting here strands it too.
			log.Printf("⚠️ [UploadSong] Validation failed after upload, stranded blob public_id=%s: %v", result.PublicID, errs)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
			return
		}

		created, err := sc.store.Create(c.Request.Context(), song)
		if err != nil {
			// The blob is already stored, so this failure strands it.
			// There is no reconciliation; log the key for manual cleanup.
			log.Printf("❌ [UploadSong] Failed to save song metadata, orphaned blob public_id=%s: %v", result.PublicID, err)
			respondServerError(c, "Failed to save song", err)
			return
		}

		log.Printf("✅ [UploadSong] Saved %q by %q (id=%s)", created.Title, created.Artist, created.ID.Hex())
		c.JSON(http.StatusCreated, created)
	}
}

// GetAllSongs lists up to 100 songs, optionally filtered by a free-text
// search over title and artist. sort=popular orders by play count, anything
// else by newest first.
func (sc *SongController) GetAllSongs() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := database.SongQuery{
			Search: strings.TrimSpace(c.Query("search")),
			Sort:   c.Query("sort"),
		}

		songs, err := sc.store.Find(c.Request.Context(), query)
		if err != nil {
			log.Println("❌ [GetAllSongs] Failed to fetch songs:", err)
			respondServerError(c, "Failed to fetch songs", err)
			return
		}

		c.JSON(http.StatusOK, songs)
	}
}

func (sc *SongController) GetSongByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("song_id")
		if !database.IsValidID(id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
			return
		}

		song, err := sc.store.FindByID(c.Request.Context(), id)
		if err == database.ErrSongNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to fetch song", err)
			return
		}

		c.JSON(http.StatusOK, song)
	}
}

type updateSongRequest struct {
	Title  string  `json:"title"`
	Artist *string `json:"artist"`
}

func (sc *SongController) UpdateSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("song_id")
		if !database.IsValidID(id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
			return
		}

		var req updateSongRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		if err := models.ValidateTitle(req.Title); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Message})
			return
		}

		song, err := sc.store.UpdateByID(c.Request.Context(), id, database.SongUpdate{
			Title:  req.Title,
			Artist: req.Artist,
		})
		if err == database.ErrSongNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to update song", err)
			return
		}

		if errs := song.Validate(); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
			return
		}

		c.JSON(http.StatusOK, song)
	}
}

// DeleteSong removes the backing blob best-effort, then the metadata record
// unconditionally. A stranded blob beats a metadata record pointing nowhere.
func (sc *SongController) DeleteSong() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("song_id")
		if !database.IsValidID(id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
			return
		}

		song, err := sc.store.FindByID(c.Request.Context(), id)
		if err == database.ErrSongNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to fetch song", err)
			return
		}

		if err := sc.storage.Delete(c.Request.Context(), song.PublicID); err != nil {
			log.Printf("⚠️ [DeleteSong] Failed to delete blob public_id=%s: %v (continuing)", song.PublicID, err)
		}

		if err := sc.store.DeleteByID(c.Request.Context(), id); err != nil {
			if err == database.ErrSongNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
				return
			}
			respondServerError(c, "Failed to delete song", err)
			return
		}

		log.Printf("✅ [DeleteSong] Deleted song id=%s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Song deleted successfully"})
	}
}

// PlaySong bumps the play count by one atomically and returns the updated
// record.
func (sc *SongController) PlaySong() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("song_id")
		if !database.IsValidID(id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song id"})
			return
		}

		song, err := sc.store.IncrementPlayCount(c.Request.Context(), id)
		if err == database.ErrSongNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		if err != nil {
			respondServerError(c, "Failed to update play count", err)
			return
		}

		c.JSON(http.StatusOK, song)
	}
}

func (sc *SongController) fileTooLargeMessage() string {
	return fmt.Sprintf("File too large: maximum size is %d MB", sc.maxUploadSize>>20)
}

// respondServerError hides upstream detail in production mode.
func respondServerError(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if os.Getenv("APP_ENV") != "production" && err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
