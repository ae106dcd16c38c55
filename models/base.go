package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the primary key and GORM auto-times shared by every table.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Player{},
		&PlayerStatistics{},
		&Team{},
		&TeamPlayer{},
		&Tournament{},
		&TournamentRegistration{},
		&Scoreboard{},
		&ScoreLine{},
		&News{},
		&GalleryItem{},
		&OrphanedAsset{},
	}
}
