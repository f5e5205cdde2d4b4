package routes

import (
	"github.com/Dosada05/tournament-draw/handlers"
	"github.com/Dosada05/tournament-draw/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/admins", authHandler.CreateAdminHandler)
	router.Post("/admins/login", authHandler.LoginHandler)

	// Публичная регистрация участников.
	router.Post("/players", playerHandler.RegisterHandler)
	router.Get("/players/payments/search", playerHandler.SearchPaymentsHandler)

	// Просмотр сетки и расписания открыт всем.
	router.Get("/matches", matchHandler.ListMatchesHandler)
	router.Get("/ws/{category}", webSocketHandler.ServeWS)

	// Административные операции за JWT.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Get("/players/unpaid", playerHandler.ListUnpaidHandler)
		r.Patch("/players/{playerID}/approve", playerHandler.ApproveHandler)
		r.Get("/players/groups/available", playerHandler.ListAvailableForGroupingHandler)
		r.Get("/players/groups", playerHandler.ListGroupedHandler)
		r.Post("/players/groups/assign", playerHandler.AssignGroupsHandler)

		r.Post("/tournaments/draw", tournamentHandler.CreateDrawHandler)
		r.Post("/tournaments/{category}/bracket", tournamentHandler.GenerateBracketHandler)

		r.Patch("/matches/{matchID}/score", matchHandler.UpdateScoreHandler)
	})
}
