package core

import "errors"

// Static errors shared across the service. Point lookups with no match
// are reported as explicit absent results (nil pointer, empty string or
// false), never as one of these sentinels.
var (
	// ErrVoiceMissing indicates narration was requested for a user who
	// has no voice clone yet. The narration workflow never auto-creates
	// one; the clone must exist before narration can proceed.
	ErrVoiceMissing = errors.New("user has no voice clone")

	// ErrInvalidAudio indicates an uploaded voice sample is not an
	// audio file.
	ErrInvalidAudio = errors.New("uploaded file is not audio")

	// ErrExternalService indicates a downstream store or vendor call
	// failed or returned a non-success response. Failures are never
	// retried or masked here; they propagate to the caller.
	ErrExternalService = errors.New("external service failure")
)
