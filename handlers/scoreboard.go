package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupScoreboardRoutes(app *fiber.App, scoreboardService *services.ScoreboardService, logger zerolog.Logger) {
	admin := []fiber.Handler{middleware.UserContextMiddleware(logger), middleware.RequireRoles("admin")}

	app.Get("/scoreboard/tournament/:tournamentId", scoreboardService.GetTournamentGames)
	app.Get("/scoreboard/:id", scoreboardService.GetGameByID)

	app.Post("/scoreboard", append(admin, scoreboardService.RecordGame)...)
	app.Put("/scoreboard/:id", append(admin, scoreboardService.UpdateGame)...)
	app.Delete("/scoreboard/:id", append(admin, scoreboardService.DeleteGame)...)
}
