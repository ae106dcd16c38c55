package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/middleware"
	"tournament-platform/services"
)

func SetupGalleryRoutes(app *fiber.App, galleryService *services.GalleryService, logger zerolog.Logger) {
	userCtx := middleware.UserContextMiddleware(logger)

	app.Get("/gallery", galleryService.GetGallery)
	app.Post("/gallery", userCtx, galleryService.UploadPhoto)
	app.Delete("/gallery/:id", userCtx, middleware.RequireRoles("admin"), galleryService.DeletePhoto)
}

func SetupAssetRoutes(app *fiber.App, assetService *services.AssetService, logger zerolog.Logger) {
	app.Post("/assets/upload-auth", middleware.UserContextMiddleware(logger), assetService.UploadAuth)
}
