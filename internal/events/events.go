// Package events defines the NATS message payloads of the narration
// service.
package events

import "time"

// EventHeader carries the envelope fields common to every event.
type EventHeader struct {
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
}

// NarrationRequestedEvent asks the worker to narrate one story with the
// requesting user's voice.
type NarrationRequestedEvent struct {
	Header  EventHeader `json:"header"`
	StoryID string      `json:"storyId"`
}

// NarrationReadyEvent is the reply to a NarrationRequestedEvent: one
// playable URL per story section, in section order.
type NarrationReadyEvent struct {
	Header    EventHeader `json:"header"`
	StoryID   string      `json:"storyId"`
	AudioURLs []string    `json:"audioUrls"`
}
