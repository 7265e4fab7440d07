package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"practica/internal/handlers"
	"practica/internal/middleware"
)

func New(
	sessionAuth *middleware.SessionAuth,
	authHandler *handlers.AuthHandler,
	pieceHandler *handlers.PieceHandler,
	practiceSessionHandler *handlers.PracticeSessionHandler,
	frontendURL string,
	authLimiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", authHandler.Login)
			r.Post("/create_user", authHandler.CreateUser)
		})
		r.Get("/logout", authHandler.Logout)

		// ──── Piece Routes ────
		r.Get("/get_pieces", pieceHandler.List)
		r.Delete("/delete_piece/{pieceID}", pieceHandler.Delete)
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Post("/create_piece", pieceHandler.Create)
		})

		// ──── Practice Session Routes ────
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Get("/get_practice_sessions", practiceSessionHandler.List)
			r.Post("/create_practice_session", practiceSessionHandler.Create)
			r.Delete("/delete_practice_session/{practiceSessionID}", practiceSessionHandler.Delete)
			r.Post("/create_piece_practiced", practiceSessionHandler.LinkPiece)
			r.Delete("/delete_piece_practiced/{practiceSessionID}/{pieceID}", practiceSessionHandler.UnlinkPiece)
		})
	})

	return r
}
