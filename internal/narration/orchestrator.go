// Package narration implements the voice-personalized narration workflow:
// for a story and a user, ensure every section has a stored audio
// artifact rendered with the user's voice, reusing existing artifacts,
// and return playable URLs in section order.
package narration

import (
	"context"
	"fmt"

	"github.com/book-expert/logger"

	"github.com/talesai/narration-service/internal/core"
)

const audioContentType = "audio/mpeg"

// Orchestrator is the composition point of the narration workflow. The
// object store is the cache index: an artifact present at its
// deterministic path is a hit and is never re-synthesized.
type Orchestrator struct {
	voices core.VoiceResolver
	store  core.ObjectStore
	synth  core.Synthesizer
	log    *logger.Logger
}

// NewOrchestrator creates an Orchestrator with explicit gateway handles.
func NewOrchestrator(
	voices core.VoiceResolver,
	store core.ObjectStore,
	synth core.Synthesizer,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		voices: voices,
		store:  store,
		synth:  synth,
		log:    log,
	}
}

// NarrateStory returns one playable audio URL per story section, in the
// story's section order, synthesizing and storing any section that has no
// artifact for this user yet.
//
// The section loop is strictly sequential. This caps vendor exposure at
// one outstanding synthesis call per invocation at the cost of
// O(sections) wall-clock latency on a full cache miss; do not parallelize
// it.
//
// Any single section's failure aborts the whole call with no partial
// result. Artifacts already stored for earlier sections stay in place, so
// a retried call re-hits the cache for them and only re-attempts the
// failed tail.
func (o *Orchestrator) NarrateStory(
	ctx context.Context,
	story *core.Story,
	userID string,
) ([]string, error) {
	voiceID, err := o.voices.VoiceID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve narration voice: %w", err)
	}

	if voiceID == "" {
		return nil, fmt.Errorf("%w: user '%s'", core.ErrVoiceMissing, userID)
	}

	audioURLs := make([]string, 0, len(story.Sections))
	synthesized := 0

	for _, section := range story.Sections {
		url, hit, sectionErr := o.resolveSection(ctx, story.ID, section, userID, voiceID)
		if sectionErr != nil {
			return nil, fmt.Errorf(
				"failed to narrate section '%s' of story '%s': %w",
				section.ID, story.ID, sectionErr,
			)
		}

		if !hit {
			synthesized++
		}

		audioURLs = append(audioURLs, url)
	}

	o.log.Info(
		"Narrated story %s for user %s: %d sections, %d synthesized",
		story.ID, userID, len(audioURLs), synthesized,
	)

	return audioURLs, nil
}

// resolveSection returns the playable URL for one section, reporting
// whether it was a cache hit.
func (o *Orchestrator) resolveSection(
	ctx context.Context,
	storyID string,
	section core.Section,
	userID, voiceID string,
) (string, bool, error) {
	artifactPath := core.SectionAudioPath(storyID, section.ID, userID)

	exists, err := o.store.Exists(ctx, artifactPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to probe artifact '%s': %w", artifactPath, err)
	}

	if exists {
		url, urlErr := o.store.URL(ctx, artifactPath)
		if urlErr != nil {
			return "", false, fmt.Errorf("failed to resolve artifact URL '%s': %w", artifactPath, urlErr)
		}

		return url, true, nil
	}

	audioData, err := o.synth.Synthesize(ctx, section.Content, voiceID)
	if err != nil {
		return "", false, fmt.Errorf("failed to synthesize audio: %w", err)
	}

	url, err := o.store.Upload(ctx, artifactPath, audioData, audioContentType)
	if err != nil {
		return "", false, fmt.Errorf("failed to upload artifact '%s': %w", artifactPath, err)
	}

	return url, false, nil
}
