package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lorehub/internal/handler"
	"lorehub/internal/httputil"
	authmw "lorehub/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	CommentHandler *handler.CommentHandler
	MessageHandler *handler.MessageHandler
	TargetHandler  *handler.TargetHandler
	UserHandler    *handler.UserHandler
	WSHandler      *handler.WSHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public browsing endpoints
	r.Get("/knowledge-bases", cfg.TargetHandler.ListKnowledgeBases)
	r.Get("/knowledge-bases/{id}", cfg.TargetHandler.GetKnowledgeBase)
	r.Get("/personas", cfg.TargetHandler.ListPersonaCards)
	r.Get("/personas/{id}", cfg.TargetHandler.GetPersonaCard)
	r.Get("/users/{id}", cfg.UserHandler.GetProfile)

	// Comment listing is public; an authenticated viewer gets my_reaction
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/comments", cfg.CommentHandler.List)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.UserHandler.Me)

		r.Post("/comments", cfg.CommentHandler.Create)
		r.Post("/comments/{id}/react", cfg.CommentHandler.React)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)
		r.Post("/comments/{id}/restore", cfg.CommentHandler.Restore)

		r.Route("/messages", func(r chi.Router) {
			r.Post("/send", cfg.MessageHandler.Send)
			r.Get("/", cfg.MessageHandler.List)
			r.Get("/unread-count", cfg.MessageHandler.UnreadCount)
			r.Post("/{id}/read", cfg.MessageHandler.MarkRead)
			r.Delete("/{id}", cfg.MessageHandler.Delete)
			r.Put("/{id}", cfg.MessageHandler.Update)
			r.Get("/{id}/stats", cfg.MessageHandler.Stats)
		})

		r.Get("/ws", cfg.WSHandler.Connect)
	})

	return r
}
