package models

import "time"

const (
	GameScheduled = "scheduled"
	GameLive      = "live"
	GameFinal     = "final"
)

// Scoreboard is the result sheet of one game inside a tournament.
type Scoreboard struct {
	Base
	TournamentID string     `json:"tournament_id" gorm:"not null;index"`
	HomeTeamID   string     `json:"home_team_id" gorm:"not null"`
	AwayTeamID   string     `json:"away_team_id" gorm:"not null"`
	HomeScore    int        `json:"home_score"`
	AwayScore    int        `json:"away_score"`
	Status       string     `json:"status" gorm:"default:'scheduled'"`
	Round        string     `json:"round"`
	PlayedAt     *time.Time `json:"played_at,omitempty"`
	WinnerTeamID *string    `json:"winner_team_id,omitempty"`
	// StatsApplied is set once the lines were added to player statistics.
	StatsApplied bool `json:"stats_applied" gorm:"default:false"`

	HomeTeam *Team       `json:"home_team,omitempty" gorm:"foreignKey:HomeTeamID"`
	AwayTeam *Team       `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID"`
	Lines    []ScoreLine `json:"lines,omitempty" gorm:"foreignKey:ScoreboardID;constraint:OnDelete:CASCADE"`
}

// ValidGameStatus reports whether s is a known game status.
func ValidGameStatus(s string) bool {
	switch s {
	case GameScheduled, GameLive, GameFinal:
		return true
	}
	return false
}

// ScoreLine is one player's box score for a game.
type ScoreLine struct {
	Base
	ScoreboardID string `json:"scoreboard_id" gorm:"not null;index"`
	PlayerID     string `json:"player_id" gorm:"not null;index"`
	TeamID       string `json:"team_id" gorm:"not null"`
	Points       int    `json:"points"`
	Rebounds     int    `json:"rebounds"`
	Assists      int    `json:"assists"`
	Steals       int    `json:"steals"`
	Blocks       int    `json:"blocks"`
}
