// Package voice resolves and creates per-user voice clones.
package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/book-expert/logger"

	"github.com/talesai/narration-service/internal/core"
)

// Catalog is the slice of the catalog store the resolver needs: reading
// and merge-upserting the voice fields on a user document.
type Catalog interface {
	UserVoice(ctx context.Context, userID string) (voiceID, sampleURL string, err error)
	SetUserVoice(ctx context.Context, userID, voiceID, sampleURL string) error
}

// Resolver maps users to synthesis voice ids and creates new voice
// clones. A voice, once created, is reused for all subsequent synthesis
// until explicitly replaced by another CreateClone call.
type Resolver struct {
	catalog Catalog
	store   core.ObjectStore
	synth   core.Synthesizer
	log     *logger.Logger
}

// NewResolver creates a Resolver with explicit gateway handles.
func NewResolver(
	catalog Catalog,
	store core.ObjectStore,
	synth core.Synthesizer,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		catalog: catalog,
		store:   store,
		synth:   synth,
		log:     log,
	}
}

// VoiceID returns the user's current voice id, or an empty string when no
// voice clone exists yet.
func (r *Resolver) VoiceID(ctx context.Context, userID string) (string, error) {
	voiceID, _, err := r.catalog.UserVoice(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice for user '%s': %w", userID, err)
	}

	return voiceID, nil
}

// CreateClone registers a new voice clone from a raw audio sample:
// the sample is stored at the user's deterministic sample path
// (overwriting any previous sample, last write wins), registered with the
// synthesis vendor, and the resulting voice id is merge-upserted onto the
// user document.
func (r *Resolver) CreateClone(
	ctx context.Context,
	userID string,
	sample []byte,
	ext, contentType string,
) (string, error) {
	if !strings.HasPrefix(contentType, "audio/") {
		return "", fmt.Errorf("%w: got content type '%s'", core.ErrInvalidAudio, contentType)
	}

	samplePath := core.VoiceSamplePath(userID, ext)

	sampleURL, err := r.store.Upload(ctx, samplePath, sample, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload voice sample for user '%s': %w", userID, err)
	}

	voiceID, err := r.synth.RegisterVoice(ctx, "user-"+userID, []string{sampleURL})
	if err != nil {
		return "", fmt.Errorf("failed to register voice for user '%s': %w", userID, err)
	}

	err = r.catalog.SetUserVoice(ctx, userID, voiceID, sampleURL)
	if err != nil {
		return "", fmt.Errorf("failed to persist voice fields for user '%s': %w", userID, err)
	}

	r.log.Info("Created voice clone %s for user %s", voiceID, userID)

	return voiceID, nil
}

// SampleURL resolves the playable URL of the user's stored voice sample,
// or an empty string when none has been uploaded.
func (r *Resolver) SampleURL(ctx context.Context, userID, ext string) (string, error) {
	samplePath := core.VoiceSamplePath(userID, ext)

	exists, err := r.store.Exists(ctx, samplePath)
	if err != nil {
		return "", fmt.Errorf("failed to probe voice sample for user '%s': %w", userID, err)
	}

	if !exists {
		return "", nil
	}

	url, err := r.store.URL(ctx, samplePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice sample URL for user '%s': %w", userID, err)
	}

	return url, nil
}
