// Package worker provides a NATS worker that processes narration requests.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/talesai/narration-service/internal/core"
	"github.com/talesai/narration-service/internal/events"
)

const handleMessageTimeout = 5 * time.Minute

var (
	// ErrUserIDEmpty indicates a narration request without a user id.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrStoryIDEmpty indicates a narration request without a story id.
	ErrStoryIDEmpty = errors.New("story id cannot be empty")
	// ErrStoryNotFound indicates a narration request for a story that
	// does not exist in the catalog.
	ErrStoryNotFound = errors.New("story not found")
)

// StoryLoader is the slice of the catalog store the worker needs.
type StoryLoader interface {
	StoryByID(ctx context.Context, storyID string) (*core.Story, error)
}

// Narrator runs the narration workflow for one story and user.
type Narrator interface {
	NarrateStory(ctx context.Context, story *core.Story, userID string) ([]string, error)
}

// NatsWorker listens for narration requests on a NATS subject, runs the
// orchestrator, and replies with the ordered audio URLs.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	stories        StoryLoader
	narrator       Narrator
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	stories StoryLoader,
	narrator Narrator,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		stories:        stories,
		narrator:       narrator,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	audioURLs, narrateErr := w.processNarrationJob(ctx, event)
	if narrateErr != nil {
		w.log.Error(
			"Failed to narrate story %s for event %s: %v",
			event.StoryID, event.Header.EventID, narrateErr,
		)

		return
	}

	replyEvent := &events.NarrationReadyEvent{
		Header:    event.Header,
		StoryID:   event.StoryID,
		AudioURLs: audioURLs,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event %s: %v", event.Header.EventID, err)
	}
}

// processNarrationJob loads the story and runs the narration workflow.
func (w *NatsWorker) processNarrationJob(
	ctx context.Context,
	event *events.NarrationRequestedEvent,
) ([]string, error) {
	story, err := w.stories.StoryByID(ctx, event.StoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load story '%s': %w", event.StoryID, err)
	}

	if story == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrStoryNotFound, event.StoryID)
	}

	audioURLs, err := w.narrator.NarrateStory(ctx, story, event.Header.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to narrate story '%s': %w", event.StoryID, err)
	}

	return audioURLs, nil
}

// publishReplyEvent marshals and responds with the NarrationReadyEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.NarrationReadyEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.NarrationRequestedEvent, error) {
	var event events.NarrationRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Header.UserID == "" {
		return nil, ErrUserIDEmpty
	}

	if event.StoryID == "" {
		return nil, ErrStoryIDEmpty
	}

	return &event, nil
}
