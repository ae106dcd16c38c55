package models

import "time"

const (
	TournamentUpcoming  = "upcoming"
	TournamentOngoing   = "ongoing"
	TournamentCompleted = "completed"
)

// Tournament is a competition teams register for.
type Tournament struct {
	Base
	Name        string    `json:"tournament_name" gorm:"not null;index"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"default:'upcoming';index"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MaxTeams    int       `json:"max_teams" gorm:"default:0"`

	LogoURL  string `json:"logo"`
	LogoName string `json:"-"`

	Registrations []TournamentRegistration `json:"tournament_teams,omitempty" gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE"`
}

// ValidTournamentStatus reports whether s is a known tournament status.
func ValidTournamentStatus(s string) bool {
	switch s {
	case TournamentUpcoming, TournamentOngoing, TournamentCompleted:
		return true
	}
	return false
}

// TournamentRegistration links a team to a tournament.
type TournamentRegistration struct {
	Base
	TournamentID string `json:"tournament_id" gorm:"not null;uniqueIndex:idx_tournament_team"`
	TeamID       string `json:"team_id" gorm:"not null;uniqueIndex:idx_tournament_team"`

	Team *Team `json:"teams,omitempty" gorm:"foreignKey:TeamID"`
}
