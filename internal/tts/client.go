// Package tts provides the HTTP client for the ElevenLabs speech-synthesis
// vendor: voice registration and text-to-speech generation.
//
// Both operations are stateless, single-attempt request/response calls.
// Any non-success response surfaces as an error wrapping
// core.ErrExternalService with no automatic retry; callers serialize or
// throttle if needed.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talesai/narration-service/internal/core"
)

// API endpoints and paths.
const (
	apiVoicesAdd    = "/voices/add"
	apiTextToSpeech = "/text-to-speech/"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAPIKey      = "xi-api-key"
	contentTypeJSON   = "application/json"
)

// Fixed synthesis parameters. These mirror the values every stored
// artifact was rendered with, so changing them silently invalidates the
// narration cache.
const (
	modelID         = "eleven_monolingual_v1"
	stability       = 0.5
	similarityBoost = 0.75
)

// Static errors.
var (
	ErrTextEmpty    = errors.New("text cannot be empty")
	ErrVoiceIDEmpty = errors.New("voice id cannot be empty")
	ErrNoSamples    = errors.New("at least one sample URL is required")
	ErrEmptyAudio   = errors.New("received empty audio data")
)

// Client is an HTTP client for the ElevenLabs API. It authenticates every
// request with a static API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates and configures an ElevenLabs client. The baseURL should
// include the API version prefix (e.g. "https://api.elevenlabs.io/v1").
// The timeout applies to every request made by this client.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// addVoiceRequest is the JSON payload for the voice-registration endpoint.
type addVoiceRequest struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

// addVoiceResponse is the JSON response from the voice-registration endpoint.
type addVoiceResponse struct {
	VoiceID string `json:"voice_id"`
}

// synthesizeRequest is the JSON payload for the text-to-speech endpoint.
type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// RegisterVoice creates a vendor voice clone from one or more sample-audio
// references and returns the vendor-assigned voice id.
func (c *Client) RegisterVoice(ctx context.Context, name string, sampleURLs []string) (string, error) {
	if len(sampleURLs) == 0 {
		return "", ErrNoSamples
	}

	payload := addVoiceRequest{
		Name:  name,
		Files: sampleURLs,
	}

	body, err := c.post(ctx, c.baseURL+apiVoicesAdd, payload)
	if err != nil {
		return "", fmt.Errorf("failed to register voice '%s': %w", name, err)
	}

	var parsed addVoiceResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", fmt.Errorf("failed to parse voice registration response: %w", err)
	}

	if parsed.VoiceID == "" {
		return "", fmt.Errorf("%w: voice registration returned no voice id", core.ErrExternalService)
	}

	return parsed.VoiceID, nil
}

// Synthesize converts text to raw audio bytes using the given voice. The
// model and voice settings are fixed (see the package constants).
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	if voiceID == "" {
		return nil, ErrVoiceIDEmpty
	}

	payload := synthesizeRequest{
		Text:    prepareText(text),
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
		},
	}

	audioData, err := c.post(ctx, c.baseURL+apiTextToSpeech+voiceID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize with voice '%s': %w", voiceID, err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// post sends a JSON POST request and returns the raw response body.
// Non-2xx statuses are reported as core.ErrExternalService.
func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request to %s failed: %w", core.ErrExternalService, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf(
			"%w: vendor returned %s: %s",
			core.ErrExternalService,
			resp.Status,
			string(body),
		)
	}

	return body, nil
}
