package models

import "time"

const (
	NewsDraft     = "draft"
	NewsScheduled = "scheduled"
	NewsPublished = "published"
)

// News is an article shown on the public site.
type News struct {
	Base
	Title       string     `json:"title" gorm:"not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null"`
	Content     string     `json:"content" gorm:"type:text"`
	Status      string     `json:"status" gorm:"default:'draft';index"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty" gorm:"index"`

	ImageURL  string `json:"image"`
	ImageName string `json:"-"`
}

// GalleryItem is a photo in the public gallery.
type GalleryItem struct {
	Base
	TournamentID *string `json:"tournament_id,omitempty" gorm:"index"`
	Caption      string  `json:"caption"`

	PhotoURL  string `json:"photo"`
	PhotoName string `json:"-"`
}
