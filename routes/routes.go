package routes

import (
	"github.com/Dosada05/poker-league/handlers"
	"github.com/Dosada05/poker-league/middleware"
	"github.com/Dosada05/poker-league/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Season      *handlers.SeasonHandler
	Timer       *handlers.TimerHandler
	Removal     *handlers.RemovalHandler
	Leaderboard *handlers.LeaderboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	directorOnly := middleware.RequireRole(string(models.RoleDirector))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/seasons", func(r chi.Router) {
		// Публичные маршруты для просмотра сезонов и таблицы
		r.Get("/", h.Season.ListSeasons)
		r.Get("/{seasonID}", h.Season.GetSeason)
		r.Get("/{seasonID}/leaderboard", h.Leaderboard.GetLeaderboard)

		// Защищённые маршруты только для директоров
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(directorOnly)

			r.Post("/", h.Season.CreateSeason)
			r.Put("/{seasonID}", h.Season.UpdateSeason)
			r.Delete("/{seasonID}", h.Season.DeleteSeason)
			r.Post("/{seasonID}/recalculate", h.Leaderboard.RecalculateSeason)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListTournaments)
		r.Get("/{tournamentID}", h.Tournament.GetTournament)
		r.Get("/{tournamentID}/clock", h.Timer.Clock)
		r.Get("/{tournamentID}/ws", h.WebSocket.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(directorOnly)

			r.Post("/", h.Tournament.CreateTournament)
			r.Put("/{tournamentID}", h.Tournament.UpdateTournament)
			r.Delete("/{tournamentID}", h.Tournament.DeleteTournament)
			r.Put("/{tournamentID}/levels", h.Tournament.SetBlindLevels)
			r.Post("/{tournamentID}/players", h.Tournament.EnrollPlayer)

			r.Post("/{tournamentID}/timer/start", h.Timer.Start)
			r.Post("/{tournamentID}/timer/pause", h.Timer.Pause)
			r.Post("/{tournamentID}/timer/resume", h.Timer.Resume)
			r.Post("/{tournamentID}/timer/reset", h.Timer.Reset)

			r.Post("/{tournamentID}/busts", h.Removal.RecordBust)
			r.Delete("/{tournamentID}/busts/last", h.Removal.UndoLastBust)
			r.Post("/{tournamentID}/eliminations", h.Removal.RecordElimination)
			r.Delete("/{tournamentID}/eliminations/last", h.Removal.UndoLastElimination)
			r.Delete("/{tournamentID}/rebuys/last", h.Removal.UndoLastRebuy)
		})
	})

	return router
}
