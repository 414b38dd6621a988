package models

import (
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// UnknownArtist is stored when an upload or update carries no artist.
	UnknownArtist = "Unknown"

	// MaxTitleLength caps song titles.
	MaxTitleLength = 100
)

var fileURLPattern = regexp.MustCompile(`^https?://`)

type Song struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Artist    string             `bson:"artist" json:"artist"`
	PublicID  string             `bson:"public_id" json:"publicId"`
	FileURL   string             `bson:"file_url" json:"fileUrl"`
	PlayCount int64              `bson:"play_count" json:"playCount"`
	Duration  int                `bson:"duration,omitempty" json:"duration,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// FieldError is one failed validation rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewSong builds a Song from upload results, applying the creation defaults:
// trimmed title, "Unknown" artist fallback, playCount 0, floored duration.
// The ID is left zero so the store assigns it on insert.
func NewSong(title, artist, publicID, fileURL string, duration float64) Song {
	song := Song{
		Title:     strings.TrimSpace(title),
		Artist:    strings.TrimSpace(artist),
		PublicID:  publicID,
		FileURL:   fileURL,
		PlayCount: 0,
		CreatedAt: time.Now().UTC(),
	}
	if song.Artist == "" {
		song.Artist = UnknownArtist
	}
	if duration > 0 {
		song.Duration = int(math.Floor(duration))
	}
	return song
}

// ValidateTitle checks the title rules shared by upload and update.
func ValidateTitle(title string) *FieldError {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}
	if len(trimmed) > MaxTitleLength {
		return &FieldError{Field: "title", Message: "title must be at most 100 characters"}
	}
	return nil
}

// Validate runs every field rule and returns the full list of failures.
// It runs before the record is handed to the store, never after.
func (s *Song) Validate() []FieldError {
	var errs []FieldError

	if err := ValidateTitle(s.Title); err != nil {
		errs = append(errs, *err)
	}
	if s.PublicID == "" {
		errs = append(errs, FieldError{Field: "publicId", Message: "publicId is required"})
	}
	if s.FileURL == "" {
		errs = append(errs, FieldError{Field: "fileUrl", Message: "fileUrl is required"})
	} else if !fileURLPattern.MatchString(s.FileURL) {
		errs = append(errs, FieldError{Field: "fileUrl", Message: "fileUrl must be an http(s) URL"})
	}
	if s.PlayCount < 0 {
		errs = append(errs, FieldError{Field: "playCount", Message: "playCount cannot be negative"})
	}
	if s.Duration < 0 {
		errs = append(errs, FieldError{Field: "duration", Message: "duration cannot be negative"})
	}

	return errs
}
