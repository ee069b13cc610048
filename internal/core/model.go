package core

import "time"

// Story is a published interactive story with its ordered narrative
// sections. Section order in Sections is the narrative order used for
// narration, which is not necessarily playback order (see NextSections).
type Story struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Duration    int       `bson:"duration" json:"duration"` // seconds
	Category    string    `bson:"category" json:"category"`
	Language    string    `bson:"language" json:"language"`
	AgeGroup    string    `bson:"ageGroup,omitempty" json:"ageGroup,omitempty"`
	Tags        []string  `bson:"tags" json:"tags"`
	CoverImage  string    `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	IsPublished bool      `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	Sections    []Section `bson:"sections" json:"sections"`
}

// Section is a narrative unit of a story. NextSections lists the ids of
// branch targets within the same story; the story graph is a directed
// graph, possibly cyclic, with any number of terminal nodes. Referential
// integrity of NextSections is trusted input, not enforced here.
type Section struct {
	ID           string   `bson:"id" json:"id"`
	Content      string   `bson:"content" json:"content"`
	VoiceID      string   `bson:"voiceId" json:"voiceId"`
	Duration     int      `bson:"duration" json:"duration"` // seconds
	NextSections []string `bson:"nextSections" json:"nextSections"`
	AudioURL     string   `bson:"audioUrl,omitempty" json:"audioUrl,omitempty"`
}

// Voice is a vendor-registered voice clone owned by a user. A user has at
// most one active voice at a time (the voiceId field on the user record),
// though historical Voice records may accumulate.
type Voice struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	UserID      string    `bson:"userId" json:"userId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	IsDefault   bool      `bson:"isDefault" json:"isDefault"`
	AudioSample string    `bson:"audioSample,omitempty" json:"audioSample,omitempty"`
}

// UserStory is a user's playback progress record for one story, keyed by
// the (UserID, StoryID) pair. It is created on first play and mutated on
// every progress update; it is never deleted.
type UserStory struct {
	UserID     string    `bson:"userId" json:"userId"`
	StoryID    string    `bson:"storyId" json:"storyId"`
	VoiceID    string    `bson:"voiceId" json:"voiceId"`
	Progress   int       `bson:"progress" json:"progress"` // seconds
	LastPlayed time.Time `bson:"lastPlayed" json:"lastPlayed"`
	IsFavorite bool      `bson:"isFavorite" json:"isFavorite"`
}

// User is the subset of the user document this service reads and writes.
// Voice fields are merged onto the document with upsert semantics so
// unrelated fields set by other services survive.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	VoiceID        string    `bson:"voiceId,omitempty" json:"voiceId,omitempty"`
	VoiceSampleURL string    `bson:"voiceSampleUrl,omitempty" json:"voiceSampleUrl,omitempty"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
