// Package voice_test tests the voice identity resolver.
package voice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talesai/narration-service/internal/core"
	"github.com/talesai/narration-service/internal/voice"
)

var (
	errMockUpload   = errors.New("mock upload error")
	errMockRegister = errors.New("mock register error")
)

// mockCatalog is a mock implementation of the voice.Catalog interface.
type mockCatalog struct {
	voiceID    string
	sampleURL  string
	setUserID  string
	setVoiceID string
	setSample  string
	setCalls   int
}

func (m *mockCatalog) UserVoice(_ context.Context, _ string) (string, string, error) {
	return m.voiceID, m.sampleURL, nil
}

func (m *mockCatalog) SetUserVoice(_ context.Context, userID, voiceID, sampleURL string) error {
	m.setCalls++
	m.setUserID = userID
	m.setVoiceID = voiceID
	m.setSample = sampleURL

	return nil
}

// mockObjectStore is a mock implementation of the core.ObjectStore interface.
type mockObjectStore struct {
	uploadShouldFail bool
	existing         map[string]bool
	uploadedPaths    []string
	uploadedData     []byte
	uploadedType     string
}

func (m *mockObjectStore) Upload(
	_ context.Context,
	path string,
	data []byte,
	contentType string,
) (string, error) {
	if m.uploadShouldFail {
		return "", errMockUpload
	}

	m.uploadedPaths = append(m.uploadedPaths, path)
	m.uploadedData = data
	m.uploadedType = contentType

	return "https://store.example/" + path, nil
}

func (m *mockObjectStore) URL(_ context.Context, path string) (string, error) {
	return "https://store.example/" + path, nil
}

func (m *mockObjectStore) Exists(_ context.Context, path string) (bool, error) {
	return m.existing[path], nil
}

// mockSynthesizer is a mock implementation of the core.Synthesizer interface.
type mockSynthesizer struct {
	registerShouldFail bool
	registeredName     string
	registeredSamples  []string
	registerCalls      int
}

func (m *mockSynthesizer) RegisterVoice(
	_ context.Context,
	name string,
	sampleURLs []string,
) (string, error) {
	m.registerCalls++

	if m.registerShouldFail {
		return "", errMockRegister
	}

	m.registeredName = name
	m.registeredSamples = sampleURLs

	return "vendor-voice-1", nil
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return []byte("audio"), nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	return testLogger
}

func TestCreateClone_Success(t *testing.T) {
	t.Parallel()

	mockStore := &mockObjectStore{existing: map[string]bool{}}
	mockSynth := &mockSynthesizer{}
	mockCat := &mockCatalog{}

	resolver := voice.NewResolver(mockCat, mockStore, mockSynth, newTestLogger(t))

	voiceID, err := resolver.CreateClone(
		context.Background(),
		"U1",
		[]byte("sample audio"),
		"mp3",
		"audio/mpeg",
	)
	require.NoError(t, err)

	assert.Equal(t, "vendor-voice-1", voiceID)
	assert.Equal(t, []string{"users/U1/voice-sample.mp3"}, mockStore.uploadedPaths)
	assert.Equal(t, "audio/mpeg", mockStore.uploadedType)
	assert.Equal(t, "user-U1", mockSynth.registeredName)
	assert.Equal(
		t,
		[]string{"https://store.example/users/U1/voice-sample.mp3"},
		mockSynth.registeredSamples,
	)
	assert.Equal(t, 1, mockCat.setCalls)
	assert.Equal(t, "U1", mockCat.setUserID)
	assert.Equal(t, "vendor-voice-1", mockCat.setVoiceID)
}

func TestCreateClone_RejectsNonAudio(t *testing.T) {
	t.Parallel()

	mockStore := &mockObjectStore{existing: map[string]bool{}}
	mockSynth := &mockSynthesizer{}
	mockCat := &mockCatalog{}

	resolver := voice.NewResolver(mockCat, mockStore, mockSynth, newTestLogger(t))

	_, err := resolver.CreateClone(
		context.Background(),
		"U1",
		[]byte("not audio"),
		"pdf",
		"application/pdf",
	)
	require.ErrorIs(t, err, core.ErrInvalidAudio)

	assert.Empty(t, mockStore.uploadedPaths, "no upload on rejected input")
	assert.Zero(t, mockSynth.registerCalls, "no vendor call on rejected input")
	assert.Zero(t, mockCat.setCalls)
}

func TestCreateClone_VendorFailureLeavesUserUntouched(t *testing.T) {
	t.Parallel()

	mockStore := &mockObjectStore{existing: map[string]bool{}}
	mockSynth := &mockSynthesizer{registerShouldFail: true}
	mockCat := &mockCatalog{}

	resolver := voice.NewResolver(mockCat, mockStore, mockSynth, newTestLogger(t))

	_, err := resolver.CreateClone(
		context.Background(),
		"U1",
		[]byte("sample audio"),
		"mp3",
		"audio/mpeg",
	)
	require.ErrorIs(t, err, errMockRegister)

	// The sample upload is not rolled back, but no voice id is persisted.
	assert.Len(t, mockStore.uploadedPaths, 1)
	assert.Zero(t, mockCat.setCalls)
}

func TestVoiceID_EmptyWhenAbsent(t *testing.T) {
	t.Parallel()

	resolver := voice.NewResolver(
		&mockCatalog{},
		&mockObjectStore{existing: map[string]bool{}},
		&mockSynthesizer{},
		newTestLogger(t),
	)

	voiceID, err := resolver.VoiceID(context.Background(), "U1")
	require.NoError(t, err)
	assert.Empty(t, voiceID)
}

func TestSampleURL(t *testing.T) {
	t.Parallel()

	mockStore := &mockObjectStore{existing: map[string]bool{
		"users/U1/voice-sample.mp3": true,
	}}

	resolver := voice.NewResolver(&mockCatalog{}, mockStore, &mockSynthesizer{}, newTestLogger(t))

	url, err := resolver.SampleURL(context.Background(), "U1", "mp3")
	require.NoError(t, err)
	assert.Equal(t, "https://store.example/users/U1/voice-sample.mp3", url)

	url, err = resolver.SampleURL(context.Background(), "U2", "mp3")
	require.NoError(t, err)
	assert.Empty(t, url)
}
