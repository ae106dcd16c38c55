package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, logger zerolog.Logger) {
	userCtx := middleware.UserContextMiddleware(logger)

	// 🔓 Public
	app.Get("/players", playerService.GetAllPlayers)
	app.Get("/players/mobile/:number", playerService.GetPlayerByMobile)
	app.Get("/players/:id", playerService.GetPlayerByID)

	// 🔐 Authenticated
	app.Post("/players/registration", userCtx, playerService.RegisterPlayer)
	app.Put("/players/:id", userCtx, playerService.UpdatePlayer)
	app.Delete("/players/:id", userCtx, middleware.RequireRoles("admin"), playerService.DeletePlayer)
}
