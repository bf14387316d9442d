package http

import (
	"net/http"

	"github.com/atinyakov/dishrank/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// AssetsPrefix is the URL path bundled dish images are served under.
const AssetsPrefix = "/assets/dishes"

// NewRouter constructs and returns an HTTP handler that serves the dish
// ranking API.
//
// Routes:
//
//	POST   /api/login                   → authHandler.Login
//	POST   /api/logout                  → authHandler.Logout
//	GET    /api/me                      → authHandler.Me
//	GET    /api/dishes                  → dishHandler.List          (signed in)
//	GET    /api/rankings                → dishHandler.Leaderboard   (signed in)
//	PUT    /api/votes/{dishID}          → voteHandler.Vote          (signed in)
//	DELETE /api/votes/{dishID}          → voteHandler.Clear         (signed in)
//	PUT    /api/dishes/{dishID}/image   → dishHandler.SetImage      (signed in)
//	DELETE /api/dishes/{dishID}/image   → dishHandler.RemoveImage   (signed in)
//	GET    /assets/dishes/*             → files from assetsDir, when set
//
// Middleware chain (applied in order):
//  1. Recoverer
//  2. WithRequestLogging(logger)
//  3. AllowContentType("application/json") on /api
//  4. RequireIdentity on the signed-in group
func NewRouter(
	authHandler *AuthHandler,
	voteHandler *VoteHandler,
	dishHandler *DishHandler,
	identity middleware.Identity,
	assetsDir string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Only allow bodies with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(identity))

			r.Get("/dishes", dishHandler.List)
			r.Get("/rankings", dishHandler.Leaderboard)
			r.Put("/votes/{dishID}", voteHandler.Vote)
			r.Delete("/votes/{dishID}", voteHandler.Clear)
			r.Put("/dishes/{dishID}/image", dishHandler.SetImage)
			r.Delete("/dishes/{dishID}/image", dishHandler.RemoveImage)
		})
	})

	if assetsDir != "" {
		fs := http.StripPrefix(AssetsPrefix+"/", http.FileServer(http.Dir(assetsDir)))
		r.Handle(AssetsPrefix+"/*", fs)
	}

	return r
}
