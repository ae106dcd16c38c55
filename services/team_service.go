package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type TeamService struct {
	DB     *gorm.DB
	Assets *assets.Manager
	Logger zerolog.Logger

	defaultLogoURL string
	teams          *repository.Repository[models.Team]
	players        *repository.Repository[models.Player]
	tournaments    *repository.Repository[models.Tournament]
}

func NewTeamService(db *gorm.DB, am *assets.Manager, defaultLogoURL string, logger zerolog.Logger) *TeamService {
	return &TeamService{
		DB:             db,
		Assets:         am,
		Logger:         logger.With().Str("component", "teams").Logger(),
		defaultLogoURL: defaultLogoURL,
		teams:          repository.New[models.Team](db),
		players:        repository.New[models.Player](db),
		tournaments:    repository.New[models.Tournament](db),
	}
}

type teamRequest struct {
	Name      *string  `json:"team_name"`
	UserID    *string  `json:"user_id"`
	CoachName *string  `json:"coach_name"`
	City      *string  `json:"city"`
	About     *string  `json:"about"`
	PlayerIDs []string `json:"player_ids"`
}

// RegisterTeam creates a team, optionally with an initial roster.
func (s *TeamService) RegisterTeam(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req teamRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return respondError(c, s.Logger, badInput("team_name is required"))
	}
	name := properName(*req.Name)

	taken, err := s.teams.Exists(ctx, "name", name)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	if taken {
		return respondError(c, s.Logger, duplicate("Team name already exists"))
	}
	for _, id := range req.PlayerIDs {
		if _, err := s.players.FindByID(ctx, id); err != nil {
			return respondError(c, s.Logger, lookup(err, "Player"))
		}
	}

	team := models.Team{
		Name:        name,
		OwnerUserID: currentUserID(c),
		CoachName:   deref(req.CoachName),
		City:        deref(req.City),
		About:       deref(req.About),
	}
	if req.UserID != nil && *req.UserID != "" {
		team.OwnerUserID = *req.UserID
	}

	_, err = s.Assets.Create(ctx, formFile(c, "logo"), assets.FolderTeams, s.defaultLogoURL, func(a assets.Asset) error {
		team.LogoURL, team.LogoName = a.URL, a.Name
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&team).Error; err != nil {
				return err
			}
			for _, id := range uniqueStrings(req.PlayerIDs) {
				if err := tx.Create(&models.TeamPlayer{TeamID: team.ID, PlayerID: id}).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	s.Logger.Info().Str("team_id", team.ID).Str("name", team.Name).Msg("team registered")
	return utils.Success(c, fiber.StatusCreated, team)
}

func (s *TeamService) GetAllTeams(c *fiber.Ctx) error {
	page, offset := utils.PageParams(c)

	teams, total, err := s.teams.List(c.UserContext(), repository.ListQuery{
		Search:        strings.TrimSpace(c.Query("name")),
		SearchColumns: []string{"name"},
		OrderBy:       []string{"created_at DESC"},
		Offset:        offset,
		Limit:         utils.PageSize,
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, utils.NewPage(teams, page, total))
}

// GetTeamsByUser lists every team owned by a user.
func (s *TeamService) GetTeamsByUser(c *fiber.Ctx) error {
	teams, _, err := s.teams.List(c.UserContext(), repository.ListQuery{
		Filters: map[string]any{"owner_user_id": c.Params("userId")},
		Preload: []string{"Players.Player"},
		OrderBy: []string{"created_at DESC"},
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return utils.Success(c, fiber.StatusOK, teams)
}

func (s *TeamService) GetTeamByID(c *fiber.Ctx) error {
	team, err := s.teams.FindByID(c.UserContext(), c.Params("id"), "Players.Player", "Players.Player.Statistics")
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}
	return utils.Success(c, fiber.StatusOK, team)
}

// UpdateTeam applies the sent fields and swaps the logo when a new one is
// supplied.
func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	ctx := c.UserContext()

	team, err := s.teams.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}

	var req teamRequest
	if err := parseData(c, &req, true); err != nil {
		return respondError(c, s.Logger, err)
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := properName(*req.Name)
		if name == "" {
			return respondError(c, s.Logger, badInput("team_name cannot be empty"))
		}
		if name != team.Name {
			taken, err := s.teams.Exists(ctx, "name", name)
			if err != nil {
				return respondError(c, s.Logger, err)
			}
			if taken {
				return respondError(c, s.Logger, duplicate("Team name already exists"))
			}
		}
		fields["name"] = name
	}
	if req.CoachName != nil {
		fields["coach_name"] = strings.TrimSpace(*req.CoachName)
	}
	if req.City != nil {
		fields["city"] = strings.TrimSpace(*req.City)
	}
	if req.About != nil {
		fields["about"] = *req.About
	}

	current := assets.Ref(team.LogoURL, team.LogoName)
	_, err = s.Assets.Swap(ctx, current, incomingFile(c, "logo", team.LogoURL), assets.FolderTeams, func(a assets.Asset) error {
		if a != current {
			fields["logo_url"] = a.URL
			fields["logo_name"] = a.Name
		}
		return s.teams.Update(ctx, team.ID, fields)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}

	updated, err := s.teams.FindByID(ctx, team.ID)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, updated)
}

// DeleteTeam removes a team that has no recorded games, then its logo.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	ctx := c.UserContext()

	team, err := s.teams.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}

	var games int64
	if err := s.DB.WithContext(ctx).Model(&models.Scoreboard{}).
		Where("home_team_id = ? OR away_team_id = ?", team.ID, team.ID).
		Count(&games).Error; err != nil {
		return respondError(c, s.Logger, err)
	}
	if games > 0 {
		return respondError(c, s.Logger, duplicate("Team has recorded games and cannot be deleted"))
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TournamentRegistration{}).Error; err != nil {
			return err
		}
		return s.teams.WithTx(tx).Delete(ctx, team.ID)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}

	s.Assets.Cleanup(ctx, assets.Ref(team.LogoURL, team.LogoName))
	return utils.Success(c, fiber.StatusOK, team)
}

type rosterRequest struct {
	PlayerID string `json:"player_id"`
}

// AddPlayer puts a player on the team roster.
func (s *TeamService) AddPlayer(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req rosterRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	if req.PlayerID == "" {
		return respondError(c, s.Logger, badInput("player_id is required"))
	}

	team, err := s.teams.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}
	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		return respondError(c, s.Logger, lookup(err, "Player"))
	}

	roster := repository.New[models.TeamPlayer](s.DB)
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.TeamPlayer{}).
		Where("team_id = ? AND player_id = ?", team.ID, req.PlayerID).
		Count(&count).Error; err != nil {
		return respondError(c, s.Logger, err)
	}
	if count > 0 {
		return respondError(c, s.Logger, duplicate("Player is already on this team"))
	}

	slot := models.TeamPlayer{TeamID: team.ID, PlayerID: req.PlayerID}
	if err := roster.Create(ctx, &slot); err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusCreated, slot)
}

// RemovePlayer takes a player off the roster.
func (s *TeamService) RemovePlayer(c *fiber.Ctx) error {
	res := s.DB.WithContext(c.UserContext()).
		Where("team_id = ? AND player_id = ?", c.Params("id"), c.Params("playerId")).
		Delete(&models.TeamPlayer{})
	if res.Error != nil {
		return respondError(c, s.Logger, res.Error)
	}
	if res.RowsAffected == 0 {
		return respondError(c, s.Logger, &NotFoundError{Entity: "Roster entry"})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"team_id": c.Params("id"), "player_id": c.Params("playerId")})
}

type tournamentEntryRequest struct {
	TeamID       string `json:"team_id"`
	TournamentID string `json:"tournament_id"`
}

// RegisterForTournament enters a team into a tournament that is not
// completed and still has room.
func (s *TeamService) RegisterForTournament(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req tournamentEntryRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	if req.TeamID == "" || req.TournamentID == "" {
		return respondError(c, s.Logger, badInput("team_id and tournament_id are required"))
	}

	if _, err := s.teams.FindByID(ctx, req.TeamID); err != nil {
		return respondError(c, s.Logger, lookup(err, "Team"))
	}
	tournament, err := s.tournaments.FindByID(ctx, req.TournamentID)
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Tournament"))
	}
	if tournament.Status == models.TournamentCompleted {
		return respondError(c, s.Logger, badInput("Tournament is already completed"))
	}

	var entry models.TournamentRegistration
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registered int64
		if err := tx.Model(&models.TournamentRegistration{}).
			Where("tournament_id = ?", tournament.ID).
			Count(&registered).Error; err != nil {
			return err
		}

		var exists int64
		if err := tx.Model(&models.TournamentRegistration{}).
			Where("tournament_id = ? AND team_id = ?", tournament.ID, req.TeamID).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return duplicate("Team is already registered for this tournament")
		}
		if tournament.MaxTeams > 0 && registered >= int64(tournament.MaxTeams) {
			return badInput("Tournament is full")
		}

		entry = models.TournamentRegistration{TournamentID: tournament.ID, TeamID: req.TeamID}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusCreated, entry)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
