// Package worker_test tests the NATS worker for the narration service.
package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talesai/narration-service/internal/core"
	"github.com/talesai/narration-service/internal/events"
	"github.com/talesai/narration-service/internal/worker"
)

var errMockNarrate = errors.New("mock narrate error")

// mockStoryLoader is a mock implementation of the StoryLoader interface.
type mockStoryLoader struct {
	story     *core.Story
	loadedIDs []string
}

func (m *mockStoryLoader) StoryByID(_ context.Context, storyID string) (*core.Story, error) {
	m.loadedIDs = append(m.loadedIDs, storyID)

	if m.story != nil && m.story.ID == storyID {
		return m.story, nil
	}

	return nil, nil
}

// mockNarrator is a mock implementation of the Narrator interface.
type mockNarrator struct {
	narrateShouldFail bool
	narratedUserID    string
	narratedStoryID   string
}

func (m *mockNarrator) NarrateStory(
	_ context.Context,
	story *core.Story,
	userID string,
) ([]string, error) {
	if m.narrateShouldFail {
		return nil, errMockNarrate
	}

	m.narratedUserID = userID
	m.narratedStoryID = story.ID

	return []string{"url-a", "url-b"}, nil
}

func createTestNatsClient(t *testing.T) *nats.Conn {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		server.Shutdown()
		natsConnection.Close()
	})

	return natsConnection
}

func setupTest(t *testing.T) (*mockStoryLoader, *mockNarrator, *nats.Conn, context.CancelFunc, chan error) {
	t.Helper()

	mockLoader := &mockStoryLoader{
		story: &core.Story{
			ID: "S1",
			Sections: []core.Section{
				{ID: "A", Content: "Section A"},
				{ID: "B", Content: "Section B"},
			},
		},
	}
	mockNarr := &mockNarrator{}

	natsConnection := createTestNatsClient(t)

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	workerInstance, err := worker.NewNatsWorker(
		natsConnection, "narration.requested", mockLoader, mockNarr, testLogger,
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)

	go func() {
		errChan <- workerInstance.Run(ctx)
	}()

	// Wait until the worker's subscription is registered with the server
	// before returning, so requests sent by the test have a responder.
	require.Eventually(t, func() bool {
		return natsConnection.NumSubscriptions() > 0
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, natsConnection.Flush())

	return mockLoader, mockNarr, natsConnection, cancel, errChan
}

func TestMessageHandler_Success(t *testing.T) {
	t.Parallel()

	mockLoader, mockNarr, natsConnection, cancel, errChan := setupTest(t)
	defer cancel()

	testEvent := &events.NarrationRequestedEvent{
		Header: events.EventHeader{
			Timestamp: time.Now(),
			EventID:   uuid.NewString(),
			UserID:    "U1",
		},
		StoryID: "S1",
	}
	eventData, err := json.Marshal(testEvent)
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("narration.requested", eventData, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var replyEvent events.NarrationReadyEvent

	err = json.Unmarshal(replyMsg.Data, &replyEvent)
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, mockLoader.loadedIDs)
	assert.Equal(t, "U1", mockNarr.narratedUserID)
	assert.Equal(t, "S1", mockNarr.narratedStoryID)

	assert.Equal(t, "S1", replyEvent.StoryID)
	assert.Equal(t, []string{"url-a", "url-b"}, replyEvent.AudioURLs)
	assert.Equal(t, testEvent.Header.EventID, replyEvent.Header.EventID)

	cancel()

	shutdownErr := <-errChan
	assert.NoError(t, shutdownErr, "worker.Run should not error on graceful shutdown")
}

func TestMessageHandler_UnknownStoryGetsNoReply(t *testing.T) {
	t.Parallel()

	_, mockNarr, natsConnection, cancel, _ := setupTest(t)
	defer cancel()

	testEvent := &events.NarrationRequestedEvent{
		Header: events.EventHeader{
			Timestamp: time.Now(),
			EventID:   uuid.NewString(),
			UserID:    "U1",
		},
		StoryID: "missing-story",
	}
	eventData, err := json.Marshal(testEvent)
	require.NoError(t, err)

	_, err = natsConnection.Request("narration.requested", eventData, 500*time.Millisecond)
	require.Error(t, err, "a failed job must not produce a reply")
	assert.Empty(t, mockNarr.narratedStoryID)
}
