/*
Package handler provides the HTTP handlers and routing setup for the inkwell server.

This file defines the main Router, applying middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers
(REST API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"inkwell/internal/pkg/limiter"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/resp"
)

const (
	AuthRate     = 0.2
	AuthBurst    = 5
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "inkwell",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/signup", HandleSignup(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Get("/books", HandleSearchBooks(deps))
		api.Get("/books/{key}", HandleGetBook(deps))

		api.Group(func(authed chi.Router) {
			authed.Use(RequireAuth(deps))

			authed.Route("/user", func(user chi.Router) {
				user.Get("/profile", HandleGetProfile(deps))
				user.Post("/update", HandleUpdateProfile(deps))
				user.Post("/avatar/presign", HandlePresignAvatar(deps))
				user.Post("/avatar/upload", HandleUploadAvatar(deps))
				user.Get("/avatar/download", HandleAvatarDownloadURL(deps))
				user.Get("/{username}", HandleGetUserByUsername(deps))
			})

			authed.Route("/reviews", func(reviews chi.Router) {
				reviews.Get("/", HandleListReviews(deps))
				reviews.Post("/", HandleCreateReview(deps))
				reviews.Get("/{id}", HandleGetReview(deps))
				reviews.Put("/{id}", HandleUpdateReview(deps))
				reviews.Delete("/{id}", HandleDeleteReview(deps))
				reviews.Post("/{id}/like", HandleLikeReview(deps))
			})

			authed.Route("/letters", func(letters chi.Router) {
				letters.Get("/", HandleListLetters(deps))
				letters.Post("/", HandleCreateLetter(deps))
				letters.Delete("/{id}", HandleDeleteLetter(deps))
				letters.Post("/{id}/like", HandleLikeLetter(deps))
			})

			authed.Route("/deep-dives", func(dives chi.Router) {
				dives.Get("/", HandleListBookPosts(deps, deps.DeepDives, "deepDives"))
				dives.Post("/", HandleCreateBookPost(deps, deps.DeepDives, deepDiveRules))
				dives.Get("/{id}", HandleGetBookPost(deps, deps.DeepDives))
				dives.Put("/{id}", HandleUpdateBookPost(deps, deps.DeepDives, deepDiveRules))
				dives.Delete("/{id}", HandleDeleteBookPost(deps, deps.DeepDives))
				dives.Post("/{id}/like", HandleLikeBookPost(deps, deps.DeepDives))
			})

			authed.Route("/excerpts", func(excerpts chi.Router) {
				excerpts.Get("/", HandleListBookPosts(deps, deps.Excerpts, "excerpts"))
				excerpts.Post("/", HandleCreateBookPost(deps, deps.Excerpts, excerptRules))
				excerpts.Delete("/{id}", HandleDeleteBookPost(deps, deps.Excerpts))
				excerpts.Post("/{id}/like", HandleLikeBookPost(deps, deps.Excerpts))
			})

			authed.Route("/favorites", func(favorites chi.Router) {
				favorites.Get("/", HandleListFavorites(deps))
				favorites.Post("/", HandleAddFavorite(deps))
				favorites.Delete("/", HandleRemoveFavorite(deps))
			})

			authed.Route("/follows", func(follows chi.Router) {
				follows.Post("/{username}", HandleToggleFollow(deps))
				follows.Get("/following", HandleListFollowing(deps))
				follows.Get("/followers", HandleListFollowers(deps))
			})

			authed.Route("/mail", func(mail chi.Router) {
				mail.Get("/", HandleListMail(deps))
				mail.Post("/", HandleCreateMail(deps))
			})

			authed.Route("/chat", func(chatRoutes chi.Router) {
				chatRoutes.Get("/conversations", HandleListConversations(deps))
				chatRoutes.Post("/conversations", HandleOpenConversation(deps))
				chatRoutes.Get("/conversations/{id}/messages", HandleListMessages(deps))
				chatRoutes.Post("/conversations/{id}/messages", HandleSendMessage(deps))
			})
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
