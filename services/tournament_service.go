package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type TournamentService struct {
	DB     *gorm.DB
	Assets *assets.Manager
	Logger zerolog.Logger

	tournaments *repository.Repository[models.Tournament]
}

func NewTournamentService(db *gorm.DB, am *assets.Manager, logger zerolog.Logger) *TournamentService {
	return &TournamentService{
		DB:          db,
		Assets:      am,
		Logger:      logger.With().Str("component", "tournaments").Logger(),
		tournaments: repository.New[models.Tournament](db),
	}
}

type tournamentRequest struct {
	Name        *string `json:"tournament_name"`
	Venue       *string `json:"venue"`
	City        *string `json:"city"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	MaxTeams    *number `json:"max_teams"`
}

// tournamentSlug is unique even when two tournaments share a name.
func tournamentSlug(name string) string {
	return slug.Make(name) + "-" + uuid.NewString()[:8]
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req tournamentRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}

	// --- Validation ---
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.StartDate == nil {
		return respondError(c, s.Logger, badInput("tournament_name and start_date are required"))
	}
	start, err := parseDate(*req.StartDate)
	if err != nil || start == nil {
		return respondError(c, s.Logger, badInput("invalid start_date (use YYYY-MM-DD or RFC3339)"))
	}
	end := *start
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return respondError(c, s.Logger, badInput(err.Error()))
		}
		end = *parsed
	}
	if end.Before(*start) {
		return respondError(c, s.Logger, badInput("end_date must not be before start_date"))
	}
	status := models.TournamentUpcoming
	if req.Status != nil && *req.Status != "" {
		if !models.ValidTournamentStatus(*req.Status) {
			return respondError(c, s.Logger, badInput("status must be upcoming, ongoing or completed"))
		}
		status = *req.Status
	}
	maxTeams := 0
	if req.MaxTeams != nil {
		n, err := req.MaxTeams.Count("max_teams")
		if err != nil {
			return respondError(c, s.Logger, err)
		}
		maxTeams = n
	}

	name := strings.TrimSpace(*req.Name)
	tournament := models.Tournament{
		Name:        name,
		Slug:        tournamentSlug(name),
		Venue:       deref(req.Venue),
		City:        deref(req.City),
		Description: deref(req.Description),
		Status:      status,
		StartDate:   *start,
		EndDate:     end,
		MaxTeams:    maxTeams,
	}

	_, err = s.Assets.Create(ctx, formFile(c, "logo"), assets.FolderTournaments, "", func(a assets.Asset) error {
		tournament.LogoURL, tournament.LogoName = a.URL, a.Name
		return s.tournaments.Create(ctx, &tournament)
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	s.Logger.Info().Str("tournament_id", tournament.ID).Str("slug", tournament.Slug).Msg("tournament created")
	return utils.Success(c, fiber.StatusCreated, tournament)
}

func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	page, offset := utils.PageParams(c)

	q := repository.ListQuery{
		Search:        strings.TrimSpace(c.Query("name")),
		SearchColumns: []string{"name", "city"},
		OrderBy:       []string{"start_date DESC"},
		Offset:        offset,
		Limit:         utils.PageSize,
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidTournamentStatus(status) {
			return respondError(c, s.Logger, badInput("status must be upcoming, ongoing or completed"))
		}
		q.Filters = map[string]any{"status": status}
	}

	tournaments, total, err := s.tournaments.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, utils.NewPage(tournaments, page, total))
}

// GetTournamentByID accepts either the id or the slug.
func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := c.Params("id")

	field := "slug"
	if _, err := uuid.Parse(key); err == nil {
		field = "id"
	}
	tournament, err := s.tournaments.FindByField(ctx, field, key, "Registrations.Team")
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}
	return utils.Success(c, fiber.StatusOK, tournament)
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tournament, err := s.tournaments.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}

	var req tournamentRequest
	if err := parseData(c, &req, true); err != nil {
		return respondError(c, s.Logger, err)
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return respondError(c, s.Logger, badInput("tournament_name cannot be empty"))
		}
		if name != tournament.Name {
			fields["name"] = name
			fields["slug"] = tournamentSlug(name)
		}
	}
	if req.Venue != nil {
		fields["venue"] = deref(req.Venue)
	}
	if req.City != nil {
		fields["city"] = deref(req.City)
	}
	if req.Description != nil {
		fields["description"] = deref(req.Description)
	}
	if req.Status != nil {
		if !models.ValidTournamentStatus(*req.Status) {
			return respondError(c, s.Logger, badInput("status must be upcoming, ongoing or completed"))
		}
		fields["status"] = *req.Status
	}
	if req.MaxTeams != nil {
		n, err := req.MaxTeams.Count("max_teams")
		if err != nil {
			return respondError(c, s.Logger, err)
		}
		fields["max_teams"] = n
	}

	start, end := tournament.StartDate, tournament.EndDate
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil || parsed == nil {
			return respondError(c, s.Logger, badInput("invalid start_date (use YYYY-MM-DD or RFC3339)"))
		}
		start = *parsed
		fields["start_date"] = start
	}
	if req.EndDate != nil {
		parsed, err := parseDate(*req.EndDate)
		if err != nil || parsed == nil {
			return respondError(c, s.Logger, badInput("invalid end_date (use YYYY-MM-DD or RFC3339)"))
		}
		end = *parsed
		fields["end_date"] = end
	}
	if end.Before(start) {
		return respondError(c, s.Logger, badInput("end_date must not be before start_date"))
	}

	current := assets.Ref(tournament.LogoURL, tournament.LogoName)
	_, err = s.Assets.Swap(ctx, current, incomingFile(c, "logo", tournament.LogoURL), assets.FolderTournaments, func(a assets.Asset) error {
		if a != current {
			fields["logo_url"] = a.URL
			fields["logo_name"] = a.Name
		}
		return s.tournaments.Update(ctx, tournament.ID, fields)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}

	updated, err := s.tournaments.FindByID(ctx, tournament.ID)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *TournamentService) UpdateTournamentStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	if !models.ValidTournamentStatus(req.Status) {
		return respondError(c, s.Logger, badInput("status must be upcoming, ongoing or completed"))
	}

	ctx := c.UserContext()
	if err := s.tournaments.Update(ctx, c.Params("id"), map[string]any{"status": req.Status}); err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}
	tournament, err := s.tournaments.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, tournament)
}

// DeleteTournament removes the tournament with its registrations and games.
// Gallery photos are kept but detached.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tournament, err := s.tournaments.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var games []models.Scoreboard
		if err := tx.Where("tournament_id = ?", tournament.ID).Find(&games).Error; err != nil {
			return err
		}
		for i := range games {
			if err := removeGame(tx, &games[i]); err != nil {
				return err
			}
		}
		if err := tx.Where("tournament_id = ?", tournament.ID).Delete(&models.TournamentRegistration{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.GalleryItem{}).Where("tournament_id = ?", tournament.ID).
			Update("tournament_id", nil).Error; err != nil {
			return err
		}
		return s.tournaments.WithTx(tx).Delete(ctx, tournament.ID)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}

	s.Assets.Cleanup(ctx, assets.Ref(tournament.LogoURL, tournament.LogoName))
	s.Logger.Info().Str("tournament_id", tournament.ID).Msg("tournament deleted")
	return utils.Success(c, fiber.StatusOK, tournament)
}
