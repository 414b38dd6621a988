package database

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codeandtesttea/songsbackend/models"
)

// ErrSongNotFound is returned for a well-formed id with no matching record.
var ErrSongNotFound = errors.New("song not found")

// MaxListResults caps every list/search query. No pagination beyond this.
const MaxListResults = 100

// SortPopular orders by descending play count; any other value orders by
// descending creation time.
const SortPopular = "popular"

// SongQuery narrows a Find call.
type SongQuery struct {
	Search string
	Sort   string
}

// SongUpdate carries the mutable fields. A nil Artist leaves the stored
// artist untouched; an empty one resets it to the unknown-artist default.
type SongUpdate struct {
	Title  string
	Artist *string
}

// SongStore is the narrow interface the handlers talk to. The only operation
// with cross-request semantics is IncrementPlayCount, which must be a single
// atomic increment at the store level.
type SongStore interface {
	Create(ctx context.Context, song models.Song) (*models.Song, error)
	Find(ctx context.Context, query SongQuery) ([]models.Song, error)
	FindByID(ctx context.Context, id string) (*models.Song, error)
	UpdateByID(ctx context.Context, id string, update SongUpdate) (*models.Song, error)
	DeleteByID(ctx context.Context, id string) error
	IncrementPlayCount(ctx context.Context, id string) (*models.Song, error)
	Ping(ctx context.Context) error
}

// IsValidID reports whether id is a syntactically valid record identifier.
// Handlers call this before touching the store so malformed input maps to a
// client error, never a not-found.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// MongoSongStore implements SongStore on a MongoDB collection.
type MongoSongStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoSongStore(client *mongo.Client, dbName string) *MongoSongStore {
	return &MongoSongStore{
		client:     client,
		collection: client.Database(dbName).Collection("songs"),
	}
}

func (s *MongoSongStore) Create(ctx context.Context, song models.Song) (*models.Song, error) {
	song.ID = primitive.NewObjectID()

	if _, err := s.collection.InsertOne(ctx, song); err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *MongoSongStore) Find(ctx context.Context, query SongQuery) ([]models.Song, error) {
	findOptions := options.Find().
		SetSort(sortSpec(query.Sort)).
		SetLimit(MaxListResults)

	cursor, err := s.collection.Find(ctx, searchFilter(query.Search), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var songs []models.Song
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func (s *MongoSongStore) FindByID(ctx context.Context, id string) (*models.Song, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSongNotFound
	}

	var song models.Song
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&song)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *MongoSongStore) UpdateByID(ctx context.Context, id string, update SongUpdate) (*models.Song, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSongNotFound
	}

	setFields := bson.M{"title": update.Title}
	if update.Artist != nil {
		artist := *update.Artist
		if artist == "" {
			artist = models.UnknownArtist
		}
		setFields["artist"] = artist
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var song models.Song
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": setFields},
		opts,
	).Decode(&song)

	if err == mongo.ErrNoDocuments {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *MongoSongStore) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSongNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrSongNotFound
	}
	return nil
}

// IncrementPlayCount bumps play_count by exactly one in a single $inc so
// concurrent plays on the same record never lose updates.
func (s *MongoSongStore) IncrementPlayCount(ctx context.Context, id string) (*models.Song, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSongNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var song models.Song
	err = s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"play_count": 1}},
		opts,
	).Decode(&song)

	if err == mongo.ErrNoDocuments {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *MongoSongStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// searchFilter matches the term case-insensitively against title and artist.
// Special regex characters in the term are treated literally.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}

	escaped := regexp.QuoteMeta(search)
	pattern := bson.M{"$regex": escaped, "$options": "i"}

	return bson.M{
		"$or": []bson.M{
			{"title": pattern},
			{"artist": pattern},
		},
	}
}

func sortSpec(sort string) bson.D {
	if sort == SortPopular {
		return bson.D{{Key: "play_count", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}
