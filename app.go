package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/config"
	"tournament-platform/handlers"
	"tournament-platform/middleware"
	"tournament-platform/services"
	"tournament-platform/storage"
	"tournament-platform/utils"
)

// multipartOverhead leaves room for the JSON data field and part headers on
// top of the largest accepted image.
const multipartOverhead = 1 << 20

type server struct {
	app  *fiber.App
	news *services.NewsService
}

func newServer(cfg *config.Config, conn *gorm.DB, am *assets.Manager, presigner storage.Presigner, log zerolog.Logger) *server {
	app := fiber.New(fiber.Config{
		AppName:      "tournament-platform",
		BodyLimit:    int(cfg.MaxUploadBytes) + multipartOverhead,
		ErrorHandler: utils.ErrorHandler(log, assets.SizeLimitMessage(cfg.MaxUploadBytes)),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Liveness stays outside gateway auth so the orchestrator can reach it.
	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.Success(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed past this point
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken, log))

	playerService := services.NewPlayerService(conn, am, cfg.DefaultPlayerPhotoURL, log)
	teamService := services.NewTeamService(conn, am, cfg.DefaultTeamLogoURL, log)
	tournamentService := services.NewTournamentService(conn, am, log)
	scoreboardService := services.NewScoreboardService(conn, log)
	newsService := services.NewNewsService(conn, am, log)
	galleryService := services.NewGalleryService(conn, am, log)
	assetService := services.NewAssetService(am, presigner, log)

	handlers.SetupPlayerRoutes(app, playerService, log)
	handlers.SetupTeamRoutes(app, teamService, log)
	handlers.SetupTournamentRoutes(app, tournamentService, log)
	handlers.SetupScoreboardRoutes(app, scoreboardService, log)
	handlers.SetupNewsRoutes(app, newsService, log)
	handlers.SetupGalleryRoutes(app, galleryService, log)
	handlers.SetupAssetRoutes(app, assetService, log)

	return &server{app: app, news: newsService}
}
