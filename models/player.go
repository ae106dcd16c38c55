package models

import "time"

// Player is a registered basketball player.
type Player struct {
	Base
	UserID          string     `json:"user_id" gorm:"index"`
	FirstName       string     `json:"first_name" gorm:"not null;index"`
	MiddleName      string     `json:"middle_name"`
	LastName        string     `json:"last_name"`
	Mobile          string     `json:"mobile" gorm:"uniqueIndex;not null"`
	AlternateMobile string     `json:"alternate_mobile"`
	Gender          string     `json:"gender"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Height          float64    `json:"height"`
	Weight          float64    `json:"weight"`
	Pincode         string     `json:"pincode"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Country         string     `json:"country"`
	PlayingPosition string     `json:"playing_position"`
	JerseyNo        int        `json:"jersey_no"`
	About           string     `json:"about" gorm:"type:text"`

	// 🖼️ Photo: URL for clients, Name for store cleanup
	PhotoURL  string `json:"photo"`
	PhotoName string `json:"-"`

	Statistics *PlayerStatistics `json:"player_statistics,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	Teams      []TeamPlayer      `json:"team_players,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}

// PlayerStatistics accumulates career totals; one row per player.
type PlayerStatistics struct {
	Base
	PlayerID    string `json:"player_id" gorm:"uniqueIndex;not null"`
	GamesPlayed int    `json:"games_played" gorm:"default:0"`
	Points      int    `json:"points" gorm:"default:0;index"`
	Rebounds    int    `json:"rebounds" gorm:"default:0"`
	Assists     int    `json:"assists" gorm:"default:0"`
	Steals      int    `json:"steals" gorm:"default:0"`
	Blocks      int    `json:"blocks" gorm:"default:0"`
}

// StatisticColumns are the columns a player list may be sorted by (descending).
var StatisticColumns = map[string]string{
	"points":   "points",
	"rebounds": "rebounds",
	"assists":  "assists",
	"steals":   "steals",
	"blocks":   "blocks",
}
