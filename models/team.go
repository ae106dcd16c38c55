package models

// Team is a club registered by a user.
type Team struct {
	Base
	Name        string `json:"team_name" gorm:"uniqueIndex;not null"`
	OwnerUserID string `json:"user_id" gorm:"index"`
	CoachName   string `json:"coach_name"`
	City        string `json:"city"`
	About       string `json:"about" gorm:"type:text"`

	LogoURL  string `json:"logo"`
	LogoName string `json:"-"`

	Players []TeamPlayer `json:"team_players,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TeamPlayer is one roster slot.
type TeamPlayer struct {
	Base
	TeamID   string `json:"team_id" gorm:"not null;uniqueIndex:idx_team_player"`
	PlayerID string `json:"player_id" gorm:"not null;uniqueIndex:idx_team_player"`

	Team   *Team   `json:"teams,omitempty" gorm:"foreignKey:TeamID"`
	Player *Player `json:"players,omitempty" gorm:"foreignKey:PlayerID"`
}
