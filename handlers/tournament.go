package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, logger zerolog.Logger) {
	admin := []fiber.Handler{middleware.UserContextMiddleware(logger), middleware.RequireRoles("admin")}

	// 🔓 Public
	app.Get("/tournament", tournamentService.GetAllTournaments)
	app.Get("/tournament/:id", tournamentService.GetTournamentByID) // id or slug

	// 🔐 Admin
	app.Post("/tournament", append(admin, tournamentService.CreateTournament)...)
	app.Put("/tournament/:id", append(admin, tournamentService.UpdateTournament)...)
	app.Patch("/tournament/:id/status", append(admin, tournamentService.UpdateTournamentStatus)...)
	app.Delete("/tournament/:id", append(admin, tournamentService.DeleteTournament)...)
}
