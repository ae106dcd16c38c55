package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, logger zerolog.Logger) {
	// 🔐 Every team route needs a user
	secured := app.Group("/teams", middleware.UserContextMiddleware(logger))

	secured.Post("/registration", teamService.RegisterTeam)
	secured.Post("/tournament/register", teamService.RegisterForTournament)
	secured.Get("/", teamService.GetAllTeams)
	secured.Get("/user/:userId", teamService.GetTeamsByUser)
	secured.Get("/:id", teamService.GetTeamByID)
	secured.Put("/:id", teamService.UpdateTeam)
	secured.Delete("/:id", teamService.DeleteTeam)

	// Roster
	secured.Post("/:id/players", teamService.AddPlayer)
	secured.Delete("/:id/players/:playerId", teamService.RemovePlayer)
}
