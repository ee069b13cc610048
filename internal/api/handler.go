// Package api provides the public HTTP surface of the narration service:
// catalog browsing, playback progress, and voice personalization.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/book-expert/logger"
	"github.com/go-chi/chi/v5"

	"github.com/talesai/narration-service/internal/catalog"
	"github.com/talesai/narration-service/internal/core"
)

// Reject absurd voice samples before they reach the object store.
const maxVoiceSampleBytes = 10 << 20

// Catalog is the slice of the catalog store the handlers need.
type Catalog interface {
	FeaturedStories(ctx context.Context) ([]core.Story, error)
	RecentlyPlayed(ctx context.Context, userID string) ([]catalog.RecentStory, error)
	StoriesByCategory(ctx context.Context, category, cursor string) ([]core.Story, string, error)
	StoryByID(ctx context.Context, storyID string) (*core.Story, error)
	UpdateProgress(ctx context.Context, userID, storyID string, progress int) error
	TouchPlay(ctx context.Context, userID, storyID, voiceID string) error
	SetFavorite(ctx context.Context, userID, storyID string, favorite bool) error
}

// Narrator runs the narration workflow for one story and user.
type Narrator interface {
	NarrateStory(ctx context.Context, story *core.Story, userID string) ([]string, error)
}

// Voices is the slice of the voice resolver the handlers need.
type Voices interface {
	VoiceID(ctx context.Context, userID string) (string, error)
	CreateClone(ctx context.Context, userID string, sample []byte, ext, contentType string) (string, error)
	SampleURL(ctx context.Context, userID, ext string) (string, error)
}

// Handler serves the public API routes.
type Handler struct {
	catalog  Catalog
	narrator Narrator
	voices   Voices
	log      *logger.Logger
}

// NewHandler creates a Handler with explicit collaborator handles.
func NewHandler(catalogStore Catalog, narrator Narrator, voices Voices, log *logger.Logger) *Handler {
	return &Handler{
		catalog:  catalogStore,
		narrator: narrator,
		voices:   voices,
		log:      log,
	}
}

// GetFeatured serves GET /api/stories/featured.
func (h *Handler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	stories, err := h.catalog.FeaturedStories(r.Context())
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

// GetByCategory serves GET /api/stories/category/{category}?cursor=.
func (h *Handler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	cursor := r.URL.Query().Get("cursor")

	stories, next, err := h.catalog.StoriesByCategory(r.Context(), category, cursor)
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"stories":    stories,
		"nextCursor": next,
	})
}

// GetStory serves GET /api/stories/{storyID}.
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")

	story, err := h.catalog.StoryByID(r.Context(), storyID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	if story == nil {
		http.Error(w, "story not found", http.StatusNotFound)

		return
	}

	h.writeJSON(w, http.StatusOK, story)
}

// GetRecent serves GET /api/library/recent.
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	recent, err := h.catalog.RecentlyPlayed(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"recent": recent})
}

// PostPlay serves POST /api/stories/{storyID}/play. It creates the
// user's progress record on first play and stamps lastPlayed on repeats.
func (h *Handler) PostPlay(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	storyID := chi.URLParam(r, "storyID")

	voiceID, err := h.voices.VoiceID(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	err = h.catalog.TouchPlay(r.Context(), userID, storyID, voiceID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PostProgress serves POST /api/stories/{storyID}/progress.
func (h *Handler) PostProgress(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	storyID := chi.URLParam(r, "storyID")

	var body struct {
		Progress int `json:"progress"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.Progress < 0 {
		http.Error(w, "progress must be a non-negative number of seconds", http.StatusBadRequest)

		return
	}

	err = h.catalog.UpdateProgress(r.Context(), userID, storyID, body.Progress)
	if err != nil {
		h.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PostFavorite serves POST /api/stories/{storyID}/favorite.
func (h *Handler) PostFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	storyID := chi.URLParam(r, "storyID")

	var body struct {
		Favorite bool `json:"favorite"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, "favorite must be a boolean", http.StatusBadRequest)

		return
	}

	err = h.catalog.SetFavorite(r.Context(), userID, storyID, body.Favorite)
	if err != nil {
		h.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PostNarrate serves POST /api/stories/{storyID}/narrate: it runs the
// narration workflow and returns one playable URL per section, in
// section order.
func (h *Handler) PostNarrate(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	storyID := chi.URLParam(r, "storyID")

	story, err := h.catalog.StoryByID(r.Context(), storyID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	if story == nil {
		http.Error(w, "story not found", http.StatusNotFound)

		return
	}

	audioURLs, err := h.narrator.NarrateStory(r.Context(), story, userID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"storyId":   storyID,
		"audioUrls": audioURLs,
	})
}

// GetVoice serves GET /api/voice.
func (h *Handler) GetVoice(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	voiceID, err := h.voices.VoiceID(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)

		return
	}

	sampleURL, err := h.voices.SampleURL(r.Context(), userID, "mp3")
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"voiceId":   voiceID,
		"sampleUrl": sampleURL,
	})
}

// PostVoice serves POST /api/voice: a multipart upload of a raw audio
// sample under the "sample" field, from which a voice clone is created.
func (h *Handler) PostVoice(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	file, header, err := r.FormFile("sample")
	if err != nil {
		http.Error(w, "multipart field 'sample' is required", http.StatusBadRequest)

		return
	}
	defer file.Close()

	sample, err := io.ReadAll(io.LimitReader(file, maxVoiceSampleBytes+1))
	if err != nil {
		h.writeError(w, err)

		return
	}

	if len(sample) > maxVoiceSampleBytes {
		http.Error(w, "voice sample is too large", http.StatusRequestEntityTooLarge)

		return
	}

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "mp3"
	}

	contentType := header.Header.Get("Content-Type")

	voiceID, err := h.voices.CreateClone(r.Context(), userID, sample, ext, contentType)
	if err != nil {
		h.writeError(w, err)

		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"voiceId": voiceID})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		h.log.Error("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP statuses. Downstream failures are
// never retried or masked here; the status is the caller's only signal.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrVoiceMissing):
		http.Error(w, "a voice clone is required before narration", http.StatusConflict)
	case errors.Is(err, core.ErrInvalidAudio):
		http.Error(w, "the uploaded file is not audio", http.StatusBadRequest)
	case errors.Is(err, catalog.ErrBadCursor):
		http.Error(w, "malformed pagination cursor", http.StatusBadRequest)
	case errors.Is(err, core.ErrExternalService):
		h.log.Error("Upstream failure: %v", err)
		http.Error(w, "upstream service failure", http.StatusBadGateway)
	default:
		h.log.Error("Internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
