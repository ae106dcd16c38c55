package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type ScoreboardService struct {
	DB     *gorm.DB
	Logger zerolog.Logger

	games *repository.Repository[models.Scoreboard]
}

func NewScoreboardService(db *gorm.DB, logger zerolog.Logger) *ScoreboardService {
	return &ScoreboardService{
		DB:     db,
		Logger: logger.With().Str("component", "scoreboard").Logger(),
		games:  repository.New[models.Scoreboard](db),
	}
}

type scoreLineRequest struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
	Points   number `json:"points"`
	Rebounds number `json:"rebounds"`
	Assists  number `json:"assists"`
	Steals   number `json:"steals"`
	Blocks   number `json:"blocks"`
}

type scoreboardRequest struct {
	TournamentID string             `json:"tournament_id"`
	HomeTeamID   string             `json:"home_team_id"`
	AwayTeamID   string             `json:"away_team_id"`
	HomeScore    *number            `json:"home_score"`
	AwayScore    *number            `json:"away_score"`
	Status       *string            `json:"status"`
	Round        *string            `json:"round"`
	PlayedAt     *string            `json:"played_at"`
	Lines        []scoreLineRequest `json:"lines"`
}

// RecordGame stores a game between two registered teams. Final games add
// their lines to player statistics in the same transaction.
func (s *ScoreboardService) RecordGame(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req scoreboardRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}

	// --- Validation ---
	if req.TournamentID == "" || req.HomeTeamID == "" || req.AwayTeamID == "" {
		return respondError(c, s.Logger, badInput("tournament_id, home_team_id and away_team_id are required"))
	}
	if req.HomeTeamID == req.AwayTeamID {
		return respondError(c, s.Logger, badInput("a team cannot play itself"))
	}

	game := models.Scoreboard{
		TournamentID: req.TournamentID,
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		Status:       models.GameScheduled,
		Round:        deref(req.Round),
	}
	if err := applyScoreFields(&game, req.HomeScore, req.AwayScore, req.Status, req.PlayedAt); err != nil {
		return respondError(c, s.Logger, err)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tournament models.Tournament
		if err := tx.First(&tournament, "id = ?", req.TournamentID).Error; err != nil {
			return lookup(notFoundFromGorm(err), "Tournament")
		}
		for _, teamID := range []string{req.HomeTeamID, req.AwayTeamID} {
			var n int64
			if err := tx.Model(&models.TournamentRegistration{}).
				Where("tournament_id = ? AND team_id = ?", req.TournamentID, teamID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return badInput(fmt.Sprintf("team %s is not registered for this tournament", teamID))
			}
		}

		for _, l := range req.Lines {
			if l.TeamID != req.HomeTeamID && l.TeamID != req.AwayTeamID {
				return badInput(fmt.Sprintf("player %s is not on either team of this game", l.PlayerID))
			}
			var n int64
			if err := tx.Model(&models.TeamPlayer{}).
				Where("team_id = ? AND player_id = ?", l.TeamID, l.PlayerID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return badInput(fmt.Sprintf("player %s is not on the roster of team %s", l.PlayerID, l.TeamID))
			}
			var lineErr error
			count := func(field string, n number) int {
				v, err := n.Count(field)
				if err != nil && lineErr == nil {
					lineErr = err
				}
				return v
			}
			line := models.ScoreLine{
				PlayerID: l.PlayerID,
				TeamID:   l.TeamID,
				Points:   count("points", l.Points),
				Rebounds: count("rebounds", l.Rebounds),
				Assists:  count("assists", l.Assists),
				Steals:   count("steals", l.Steals),
				Blocks:   count("blocks", l.Blocks),
			}
			if lineErr != nil {
				return lineErr
			}
			game.Lines = append(game.Lines, line)
		}

		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		if game.Status == models.GameFinal {
			return applyStats(tx, &game, 1)
		}
		return nil
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	s.Logger.Info().Str("game_id", game.ID).Str("status", game.Status).Msg("game recorded")
	return utils.Success(c, fiber.StatusCreated, game)
}

// GetTournamentGames lists every game of a tournament in playing order.
func (s *ScoreboardService) GetTournamentGames(c *fiber.Ctx) error {
	games, _, err := s.games.List(c.UserContext(), repository.ListQuery{
		Filters: map[string]any{"tournament_id": c.Params("tournamentId")},
		Preload: []string{"HomeTeam", "AwayTeam"},
		OrderBy: []string{"played_at ASC", "created_at ASC"},
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	if games == nil {
		games = []models.Scoreboard{}
	}
	return utils.Success(c, fiber.StatusOK, games)
}

func (s *ScoreboardService) GetGameByID(c *fiber.Ctx) error {
	game, err := s.games.FindByID(c.UserContext(), c.Params("id"), "HomeTeam", "AwayTeam", "Lines")
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Game"))
	}
	return utils.Success(c, fiber.StatusOK, game)
}

// UpdateGame changes the score or status. Moving a game to final applies
// its lines to player statistics; a final game cannot be reopened.
func (s *ScoreboardService) UpdateGame(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req scoreboardRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}

	var game models.Scoreboard
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&game, "id = ?", c.Params("id")).Error; err != nil {
			return lookup(notFoundFromGorm(err), "Game")
		}
		if game.Status == models.GameFinal && req.Status != nil && *req.Status != models.GameFinal {
			return badInput("a final game cannot be reopened")
		}
		if err := applyScoreFields(&game, req.HomeScore, req.AwayScore, req.Status, req.PlayedAt); err != nil {
			return err
		}
		if req.Round != nil {
			game.Round = deref(req.Round)
		}

		if err := tx.Model(&models.Scoreboard{}).Where("id = ?", game.ID).Updates(map[string]any{
			"home_score":     game.HomeScore,
			"away_score":     game.AwayScore,
			"status":         game.Status,
			"round":          game.Round,
			"played_at":      game.PlayedAt,
			"winner_team_id": game.WinnerTeamID,
		}).Error; err != nil {
			return err
		}
		if game.Status == models.GameFinal && !game.StatsApplied {
			return applyStats(tx, &game, 1)
		}
		return nil
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, game)
}

// DeleteGame removes a game and reverts any statistics it contributed.
func (s *ScoreboardService) DeleteGame(c *fiber.Ctx) error {
	var game models.Scoreboard
	err := s.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&game, "id = ?", c.Params("id")).Error; err != nil {
			return lookup(notFoundFromGorm(err), "Game")
		}
		return removeGame(tx, &game)
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, game)
}

// removeGame reverts applied statistics and deletes the game with its lines.
func removeGame(tx *gorm.DB, game *models.Scoreboard) error {
	if game.StatsApplied {
		if game.Lines == nil {
			if err := tx.Where("scoreboard_id = ?", game.ID).Find(&game.Lines).Error; err != nil {
				return err
			}
		}
		if err := applyStats(tx, game, -1); err != nil {
			return err
		}
	}
	if err := tx.Where("scoreboard_id = ?", game.ID).Delete(&models.ScoreLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Scoreboard{}, "id = ?", game.ID).Error
}

// applyStats adds (sign 1) or removes (sign -1) the game's lines from the
// players' career totals.
func applyStats(tx *gorm.DB, game *models.Scoreboard, sign int) error {
	for _, l := range game.Lines {
		stats := models.PlayerStatistics{PlayerID: l.PlayerID}
		if err := tx.Where("player_id = ?", l.PlayerID).FirstOrCreate(&stats).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PlayerStatistics{}).Where("player_id = ?", l.PlayerID).Updates(map[string]any{
			"games_played": gorm.Expr("games_played + ?", sign),
			"points":       gorm.Expr("points + ?", sign*l.Points),
			"rebounds":     gorm.Expr("rebounds + ?", sign*l.Rebounds),
			"assists":      gorm.Expr("assists + ?", sign*l.Assists),
			"steals":       gorm.Expr("steals + ?", sign*l.Steals),
			"blocks":       gorm.Expr("blocks + ?", sign*l.Blocks),
		}).Error; err != nil {
			return err
		}
	}

	game.StatsApplied = sign > 0
	return tx.Model(&models.Scoreboard{}).Where("id = ?", game.ID).Update("stats_applied", game.StatsApplied).Error
}

func applyScoreFields(game *models.Scoreboard, home, away *number, status, playedAt *string) error {
	if home != nil {
		score, err := home.Count("home_score")
		if err != nil {
			return err
		}
		game.HomeScore = score
	}
	if away != nil {
		score, err := away.Count("away_score")
		if err != nil {
			return err
		}
		game.AwayScore = score
	}
	if status != nil && *status != "" {
		st := strings.ToLower(*status)
		if !models.ValidGameStatus(st) {
			return badInput("status must be scheduled, live or final")
		}
		game.Status = st
	}
	if playedAt != nil {
		t, err := parseDate(*playedAt)
		if err != nil {
			return badInput(err.Error())
		}
		game.PlayedAt = t
	}

	game.WinnerTeamID = nil
	if game.Status == models.GameFinal {
		if game.PlayedAt == nil {
			now := time.Now().UTC()
			game.PlayedAt = &now
		}
		switch {
		case game.HomeScore > game.AwayScore:
			game.WinnerTeamID = &game.HomeTeamID
		case game.AwayScore > game.HomeScore:
			game.WinnerTeamID = &game.AwayTeamID
		}
	}
	return nil
}

func notFoundFromGorm(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
