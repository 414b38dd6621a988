package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codeandtesttea/songsbackend/models"
)

// ArtistPlays is an artist with their summed play count.
type ArtistPlays struct {
	Name  string `json:"name"`
	Plays int64  `json:"plays"`
}

// LibraryStats are aggregates over the whole songs collection. TopSong and
// TopArtist are nil when the library is empty or has never been played.
type LibraryStats struct {
	TotalSongs int64
	TotalPlays int64
	TopSong    *models.Song
	TopArtist  *ArtistPlays
}

// StatsStore computes library-wide aggregates.
type StatsStore interface {
	LibraryStats(ctx context.Context) (*LibraryStats, error)
}

// MongoStatsStore implements StatsStore with aggregation pipelines over the
// songs collection.
type MongoStatsStore struct {
	songs *mongo.Collection
}

func NewMongoStatsStore(client *mongo.Client, dbName string) *MongoStatsStore {
	return &MongoStatsStore{songs: client.Database(dbName).Collection("songs")}
}

func (s *MongoStatsStore) LibraryStats(ctx context.Context) (*LibraryStats, error) {
	stats := &LibraryStats{}

	totalSongs, err := s.songs.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("❌ [LibraryStats] Failed to count songs:", err)
		return nil, err
	}
	stats.TotalSongs = totalSongs

	// Total plays across the whole library.
	playsPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":        nil,
				"totalPlays": bson.M{"$sum": "$play_count"},
			},
		},
	}

	cursor, err := s.songs.Aggregate(ctx, playsPipeline)
	if err != nil {
		log.Println("❌ [LibraryStats] Total plays pipeline failed:", err)
		return nil, err
	}
	var totals []bson.M
	if err := cursor.All(ctx, &totals); err != nil {
		log.Println("❌ [LibraryStats] Failed to decode total plays:", err)
		return nil, err
	}
	if len(totals) > 0 {
		switch v := totals[0]["totalPlays"].(type) {
		case int32:
			stats.TotalPlays = int64(v)
		case int64:
			stats.TotalPlays = v
		}
	}

	// Most played song, nil when nothing has been played yet. A failure here
	// degrades the response instead of failing it, but never silently.
	findOptions := options.FindOne().SetSort(bson.D{{Key: "play_count", Value: -1}})

	var song models.Song
	err = s.songs.FindOne(ctx, bson.M{}, findOptions).Decode(&song)
	if err == nil && song.PlayCount > 0 {
		stats.TopSong = &song
	} else if err != nil && err != mongo.ErrNoDocuments {
		log.Println("❌ [LibraryStats] Failed to fetch top song:", err)
	}

	// Most played artist, summed over their songs.
	artistPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$artist",
				"plays": bson.M{"$sum": "$play_count"},
			},
		},
		{"$sort": bson.M{"plays": -1}},
		{"$limit": 1},
	}

	cursor, err = s.songs.Aggregate(ctx, artistPipeline)
	if err != nil {
		log.Println("❌ [LibraryStats] Top artist pipeline failed:", err)
		return stats, nil
	}
	var artists []bson.M
	if err := cursor.All(ctx, &artists); err != nil {
		log.Println("❌ [LibraryStats] Failed to decode top artist:", err)
		return stats, nil
	}
	if len(artists) > 0 {
		artist := ArtistPlays{}
		if name, ok := artists[0]["_id"].(string); ok {
			artist.Name = name
		}
		switch v := artists[0]["plays"].(type) {
		case int32:
			artist.Plays = int64(v)
		case int64:
			artist.Plays = v
		}
		if artist.Plays > 0 {
			stats.TopArtist = &artist
		}
	}

	return stats, nil
}
