package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/talesai/narration-service/internal/core"
)

// NewRouter builds the public API router: CORS, public browse routes,
// and the authenticated personalization routes.
func NewRouter(handler *Handler, identity core.Identity, allowedOrigins []string) chi.Router {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/stories/featured", handler.GetFeatured)
		r.Get("/stories/category/{category}", handler.GetByCategory)
		r.Get("/stories/{storyID}", handler.GetStory)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(identity))

			r.Get("/library/recent", handler.GetRecent)
			r.Post("/stories/{storyID}/play", handler.PostPlay)
			r.Post("/stories/{storyID}/progress", handler.PostProgress)
			r.Post("/stories/{storyID}/favorite", handler.PostFavorite)
			r.Post("/stories/{storyID}/narrate", handler.PostNarrate)
			r.Get("/voice", handler.GetVoice)
			r.Post("/voice", handler.PostVoice)
		})
	})

	return router
}
