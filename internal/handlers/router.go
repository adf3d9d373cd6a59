package handlers

import (
	"context"
	"net/http"
	"time"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the services the HTTP layer calls
type Services struct {
	Users    *services.UserService
	Pins     *services.PinService
	Boards   *services.BoardService
	Comments *services.CommentService
	Follows  *services.FollowService
	Likes    *services.LikeService
	Saves    *services.SaveService
	Messages *services.MessageService
	Health   Pinger
}

// RouterConfig holds HTTP layer settings
type RouterConfig struct {
	CookieName    string
	TokenTTL      time.Duration
	AccessLogging bool
}

// NewRouter builds the HTTP routes
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	userHandler := NewUserHandler(svc.Users, cfg.CookieName, cfg.TokenTTL)
	pinHandler := NewPinHandler(svc.Pins)
	boardHandler := NewBoardHandler(svc.Boards)
	commentHandler := NewCommentHandler(svc.Comments)
	socialHandler := NewSocialHandler(svc.Follows, svc.Likes, svc.Saves)
	messageHandler := NewMessageHandler(svc.Messages)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if cfg.AccessLogging {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/healthz", healthHandler(svc.Health))
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{userID}", userHandler.GetUser)
		r.Get("/users/{userID}/pins", pinHandler.ListUserPins)
		r.Get("/users/{userID}/follows", socialHandler.ListFollows)
		r.Get("/pins", pinHandler.ListPins)
		r.Get("/pins/{pinID}", pinHandler.GetPin)
		r.Get("/pins/{pinID}/likes", socialHandler.ListLikes)
		r.Get("/comments", commentHandler.ListComments)
		r.Get("/boards", boardHandler.ListBoards)
		r.Get("/boards/{boardID}", boardHandler.GetBoard)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users, cfg.CookieName))

			r.Post("/auth/logout", userHandler.Logout)
			r.Get("/auth/me", userHandler.Me)
			r.Put("/users/{userID}", userHandler.UpdateUser)
			r.Delete("/users/{userID}", userHandler.DeleteUser)

			r.Post("/pins", pinHandler.CreatePin)
			r.Put("/pins/{pinID}", pinHandler.UpdatePin)
			r.Delete("/pins/{pinID}", pinHandler.DeletePin)
			r.Post("/pins/{pinID}/like", socialHandler.Like)
			r.Delete("/pins/{pinID}/like", socialHandler.Unlike)

			r.Post("/follows", socialHandler.Follow)
			r.Delete("/follows/{targetID}", socialHandler.Unfollow)

			r.Get("/saves", socialHandler.GetSaved)
			r.Post("/saves", socialHandler.Save)
			r.Delete("/saves/{pinID}", socialHandler.Unsave)

			r.Post("/comments", commentHandler.CreateComment)
			r.Put("/comments/{commentID}", commentHandler.UpdateComment)
			r.Delete("/comments/{commentID}", commentHandler.DeleteComment)

			r.Post("/boards", boardHandler.CreateBoard)
			r.Put("/boards/{boardID}", boardHandler.UpdateBoard)
			r.Delete("/boards/{boardID}", boardHandler.DeleteBoard)
			r.Post("/boards/{boardID}/pins", boardHandler.AddPin)
			r.Delete("/boards/{boardID}/pins/{pinID}", boardHandler.RemovePin)

			r.Get("/messages", messageHandler.ListMessages)
			r.Post("/messages", messageHandler.SendMessage)
			r.Get("/messages/{messageID}", messageHandler.GetMessage)
			r.Put("/messages/{messageID}", messageHandler.UpdateMessage)
			r.Delete("/messages/{messageID}", messageHandler.DeleteMessage)
		})
	})

	return r
}

// healthHandler handles GET /api/v1/healthz
func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if p != nil {
			if err := p.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
