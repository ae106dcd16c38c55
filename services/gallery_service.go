package services

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type GalleryService struct {
	DB     *gorm.DB
	Assets *assets.Manager
	Logger zerolog.Logger

	items       *repository.Repository[models.GalleryItem]
	tournaments *repository.Repository[models.Tournament]
}

func NewGalleryService(db *gorm.DB, am *assets.Manager, logger zerolog.Logger) *GalleryService {
	return &GalleryService{
		DB:          db,
		Assets:      am,
		Logger:      logger.With().Str("component", "gallery").Logger(),
		items:       repository.New[models.GalleryItem](db),
		tournaments: repository.New[models.Tournament](db),
	}
}

type galleryRequest struct {
	Caption      string `json:"caption"`
	TournamentID string `json:"tournament_id"`
}

// UploadPhoto adds a photo to the gallery. The photo part is required.
func (s *GalleryService) UploadPhoto(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req galleryRequest
	if err := parseData(c, &req, true); err != nil {
		return respondError(c, s.Logger, err)
	}
	file := formFile(c, "photo")
	if !file.Supplied() {
		return respondError(c, s.Logger, badInput("photo is required"))
	}

	item := models.GalleryItem{Caption: req.Caption}
	if req.TournamentID != "" {
		if _, err := s.tournaments.FindByID(ctx, req.TournamentID); err != nil {
			return respondError(c, s.Logger, lookup(err, "Tournament"))
		}
		item.TournamentID = &req.TournamentID
	}

	_, err := s.Assets.Create(ctx, file, assets.FolderGallery, "", func(a assets.Asset) error {
		item.PhotoURL, item.PhotoName = a.URL, a.Name
		return s.items.Create(ctx, &item)
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusCreated, item)
}

func (s *GalleryService) GetGallery(c *fiber.Ctx) error {
	page, offset := utils.PageParams(c)

	q := repository.ListQuery{
		OrderBy: []string{"created_at DESC"},
		Offset:  offset,
		Limit:   utils.PageSize,
	}
	if id := c.Query("tournament_id"); id != "" {
		q.Filters = map[string]any{"tournament_id": id}
	}

	items, total, err := s.items.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, utils.NewPage(items, page, total))
}

func (s *GalleryService) DeletePhoto(c *fiber.Ctx) error {
	ctx := c.UserContext()

	item, err := s.items.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Photo"))
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return respondError(c, s.Logger, lookup(err, "Photo"))
	}

	s.Assets.Cleanup(ctx, assets.Ref(item.PhotoURL, item.PhotoName))
	return utils.Success(c, fiber.StatusOK, item)
}
