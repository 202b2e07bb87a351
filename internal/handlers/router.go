package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires every API route onto a ServeMux
func NewRouter(auth *AuthHandler, game *GameHandler, mw *Middleware, startup *StartupStatus, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	s := mw.RequireSession

	mux.HandleFunc("GET /healthz", startup.Health)

	mux.HandleFunc("POST /api/register", mw.RateLimit(auth.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(auth.Login))
	mux.HandleFunc("POST /api/guest", auth.Guest)
	mux.HandleFunc("POST /api/logout", s(auth.Logout))

	mux.HandleFunc("GET /api/profile", s(game.Profile))
	mux.HandleFunc("PATCH /api/profile", s(game.Customize))
	mux.HandleFunc("POST /api/profile/secret", s(game.UnlockSecret))

	mux.HandleFunc("GET /api/tracks", s(game.Tracks))
	mux.HandleFunc("GET /api/tracks/{track}/lessons", s(game.TrackLessons))
	mux.HandleFunc("GET /api/lessons/{id}", s(game.Lesson))
	mux.HandleFunc("GET /api/lessons/{id}/solution", s(game.Solution))
	mux.HandleFunc("POST /api/lessons/{id}/run", s(game.RunLesson))
	mux.HandleFunc("POST /api/lessons/{id}/submit", s(game.SubmitLesson))
	mux.HandleFunc("POST /api/lessons/{id}/skip", s(game.SkipLesson))

	mux.HandleFunc("GET /api/story", s(game.Story))
	mux.HandleFunc("GET /api/story/{chapter}", s(game.Chapter))
	mux.HandleFunc("POST /api/story/{chapter}/submit", s(game.SubmitChapter))

	mux.HandleFunc("POST /api/championship/start", s(game.StartMatch))
	mux.HandleFunc("GET /api/championship/{match}", s(game.Match))
	mux.HandleFunc("POST /api/championship/{match}/submit", s(game.SubmitMatch))

	mux.HandleFunc("GET /api/leaderboard", s(game.Leaderboard))
	mux.HandleFunc("GET /api/leaderboard/champions", s(game.Champions))
	mux.HandleFunc("GET /api/friends", s(game.Friends))
	mux.HandleFunc("POST /api/friends", s(game.AddFriend))
	mux.HandleFunc("POST /api/spin", s(game.Spin))
	mux.HandleFunc("GET /api/certificates", s(game.Certificates))

	return Logging(logger, mux)
}
