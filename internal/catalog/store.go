// Package catalog provides the document-store gateway for stories, user
// progress records, and user voice fields, backed by MongoDB.
//
// All timestamps cross this package's boundary as time.Time in UTC;
// callers never see the store's native datetime representation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talesai/narration-service/internal/core"
)

// Fixed page sizes for the browse queries.
const (
	featuredPageSize = 5
	recentPageSize   = 5
	categoryPageSize = 10
)

// Collection names.
const (
	collStories     = "stories"
	collUserStories = "userStories"
	collUsers       = "users"
)

// Store is the catalog gateway. It is constructed with an explicit
// database handle so tests can inject their own deployment.
type Store struct {
	db *mongo.Database
}

// New creates a Store on the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// FeaturedStories returns the newest published stories, up to the fixed
// featured page size.
func (s *Store) FeaturedStories(ctx context.Context) ([]core.Story, error) {
	filter := bson.M{"isPublished": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(featuredPageSize)

	stories, err := s.findStories(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured stories: %w", err)
	}

	return stories, nil
}

// RecentStory pairs a user's progress record with the story it refers to.
type RecentStory struct {
	UserStory core.UserStory `json:"userStory"`
	Story     core.Story     `json:"story"`
}

// RecentlyPlayed returns a user's most recently played stories, newest
// first, up to the fixed recent page size. The referenced stories are
// resolved in a single batched query rather than one lookup per record.
func (s *Store) RecentlyPlayed(ctx context.Context, userID string) ([]RecentStory, error) {
	filter := bson.M{"userId": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "lastPlayed", Value: -1}}).
		SetLimit(recentPageSize)

	cursor, err := s.db.Collection(collUserStories).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recently played for user '%s': %w", userID, err)
	}

	var records []core.UserStory

	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recently played records: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	storyIDs := make([]string, 0, len(records))
	for _, record := range records {
		storyIDs = append(storyIDs, record.StoryID)
	}

	stories, err := s.findStories(ctx, bson.M{"_id": bson.M{"$in": storyIDs}}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recently played stories: %w", err)
	}

	byID := make(map[string]core.Story, len(stories))
	for _, story := range stories {
		byID[story.ID] = story
	}

	recent := make([]RecentStory, 0, len(records))

	for _, record := range records {
		story, ok := byID[record.StoryID]
		if !ok {
			// The story was unpublished or removed; skip the record.
			continue
		}

		record.LastPlayed = record.LastPlayed.UTC()
		recent = append(recent, RecentStory{UserStory: record, Story: story})
	}

	return recent, nil
}

// StoriesByCategory returns one page of published stories in a category,
// newest first. The cursor is the opaque token returned by the previous
// page; an empty cursor starts from the beginning. The returned cursor is
// empty when the page was not full.
func (s *Store) StoriesByCategory(
	ctx context.Context,
	category, cursor string,
) ([]core.Story, string, error) {
	filter := bson.M{
		"category":    category,
		"isPublished": true,
	}

	if cursor != "" {
		position, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}

		// Resume strictly after the previous page's last document,
		// breaking createdAt ties on _id.
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": position.CreatedAt}},
			bson.M{"createdAt": position.CreatedAt, "_id": bson.M{"$lt": position.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(categoryPageSize)

	stories, err := s.findStories(ctx, filter, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query stories in category '%s': %w", category, err)
	}

	next := ""
	if len(stories) == categoryPageSize {
		last := stories[len(stories)-1]
		next = encodeCursor(pagePosition{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return stories, next, nil
}

// StoryByID returns a story by id, or (nil, nil) when no story exists.
func (s *Store) StoryByID(ctx context.Context, storyID string) (*core.Story, error) {
	var story core.Story

	err := s.db.Collection(collStories).FindOne(ctx, bson.M{"_id": storyID}).Decode(&story)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to look up story '%s': %w", storyID, err)
	}

	normalizeStory(&story)

	return &story, nil
}

// UpdateProgress sets a user's playback position on an existing progress
// record and stamps lastPlayed. When no record matches the (user, story)
// pair this is a silent no-op; creation on first play happens in TouchPlay.
func (s *Store) UpdateProgress(ctx context.Context, userID, storyID string, progress int) error {
	filter := bson.M{"userId": userID, "storyId": storyID}
	update := bson.M{"$set": bson.M{
		"progress":   progress,
		"lastPlayed": time.Now().UTC(),
	}}

	_, err := s.db.Collection(collUserStories).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update progress for user '%s' story '%s': %w", userID, storyID, err)
	}

	return nil
}

// TouchPlay creates the user's progress record for a story on first play,
// or stamps lastPlayed on an existing one. Last write wins; concurrent
// players are not coordinated.
func (s *Store) TouchPlay(ctx context.Context, userID, storyID, voiceID string) error {
	filter := bson.M{"userId": userID, "storyId": storyID}
	update := bson.M{
		"$set": bson.M{"lastPlayed": time.Now().UTC()},
		"$setOnInsert": bson.M{
			"userId":     userID,
			"storyId":    storyID,
			"voiceId":    voiceID,
			"progress":   0,
			"isFavorite": false,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := s.db.Collection(collUserStories).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to touch play for user '%s' story '%s': %w", userID, storyID, err)
	}

	return nil
}

// SetFavorite toggles the favorite flag on an existing progress record.
// Like UpdateProgress, it is a silent no-op when no record exists.
func (s *Store) SetFavorite(ctx context.Context, userID, storyID string, favorite bool) error {
	filter := bson.M{"userId": userID, "storyId": storyID}
	update := bson.M{"$set": bson.M{"isFavorite": favorite}}

	_, err := s.db.Collection(collUserStories).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set favorite for user '%s' story '%s': %w", userID, storyID, err)
	}

	return nil
}

// UserVoice returns the user's current voice id and sample URL. Both are
// empty when the user has no voice clone yet.
func (s *Store) UserVoice(ctx context.Context, userID string) (voiceID, sampleURL string, err error) {
	var user core.User

	findErr := s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			return "", "", nil
		}

		return "", "", fmt.Errorf("failed to look up user '%s': %w", userID, findErr)
	}

	return user.VoiceID, user.VoiceSampleURL, nil
}

// SetUserVoice merge-upserts the voice fields onto the user document.
// Fields owned by other services survive the write.
func (s *Store) SetUserVoice(ctx context.Context, userID, voiceID, sampleURL string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"voiceId":        voiceID,
		"voiceSampleUrl": sampleURL,
		"updatedAt":      time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)

	_, err := s.db.Collection(collUsers).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set voice fields for user '%s': %w", userID, err)
	}

	return nil
}

// CreateStory inserts a story document. Used by the seeding utility.
func (s *Store) CreateStory(ctx context.Context, story core.Story) error {
	_, err := s.db.Collection(collStories).InsertOne(ctx, story)
	if err != nil {
		return fmt.Errorf("failed to insert story '%s': %w", story.ID, err)
	}

	return nil
}

func (s *Store) findStories(
	ctx context.Context,
	filter bson.M,
	opts *options.FindOptions,
) ([]core.Story, error) {
	cursor, err := s.db.Collection(collStories).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	var stories []core.Story

	err = cursor.All(ctx, &stories)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stories: %w", err)
	}

	for i := range stories {
		normalizeStory(&stories[i])
	}

	return stories, nil
}

// normalizeStory pins timestamps to UTC at the package boundary.
func normalizeStory(story *core.Story) {
	story.CreatedAt = story.CreatedAt.UTC()
	story.UpdatedAt = story.UpdatedAt.UTC()
}
