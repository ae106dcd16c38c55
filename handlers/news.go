package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupNewsRoutes(app *fiber.App, newsService *services.NewsService, logger zerolog.Logger) {
	admin := []fiber.Handler{middleware.UserContextMiddleware(logger), middleware.RequireRoles("admin")}

	viewer := middleware.OptionalUserContext(logger)
	app.Get("/news", viewer, newsService.GetAllNews)
	app.Get("/news/:slug", viewer, newsService.GetNewsBySlug)

	app.Post("/news", append(admin, newsService.CreateNews)...)
	app.Put("/news/:id", append(admin, newsService.UpdateNews)...)
	app.Delete("/news/:id", append(admin, newsService.DeleteNews)...)
}
