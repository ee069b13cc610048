// Package core defines the domain model and gateway interfaces for the
// TalesAI narration service.
package core

import "context"

// ObjectStore defines the interface for interacting with a path-addressed
// blob store holding audio and image artifacts.
//
// Existence of an artifact at its deterministic path is the sole cache
// signal used by the narration workflow, so Exists must distinguish
// "not found" (false, nil) from any other failure (false, err).
type ObjectStore interface {
	// Upload stores data at path, overwriting any existing content, and
	// returns a playable URL for it.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// URL resolves a playable URL for an existing object.
	URL(ctx context.Context, path string) (string, error)

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)
}

// Synthesizer defines the interface to the external speech-synthesis
// vendor. Both operations are single-attempt request/response calls with
// no retry; callers serialize or throttle as needed.
type Synthesizer interface {
	// RegisterVoice creates a vendor voice from sample-audio references
	// and returns the vendor-assigned voice id.
	RegisterVoice(ctx context.Context, name string, sampleURLs []string) (string, error)

	// Synthesize converts text to raw audio bytes using the given voice.
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// VoiceResolver maps a user to their current synthesis voice id. An empty
// id with a nil error means the user has no voice clone yet.
type VoiceResolver interface {
	VoiceID(ctx context.Context, userID string) (string, error)
}

// Identity resolves a signed-in user's stable id from an opaque session
// token. The identity provider itself is an external collaborator; this
// service only consumes its result.
type Identity interface {
	UserID(ctx context.Context, token string) (string, error)
}
