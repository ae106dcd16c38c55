package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tournament-platform/assets"
	"tournament-platform/models"
)

// OrphanStore keeps assets whose cleanup failed until the sweeper removes them.
type OrphanStore struct {
	db *gorm.DB
}

func NewOrphanStore(db *gorm.DB) *OrphanStore {
	return &OrphanStore{db: db}
}

// RecordOrphan satisfies assets.OrphanRecorder. Recording the same folder and name
// twice refreshes the existing row.
func (s *OrphanStore) RecordOrphan(ctx context.Context, a assets.Asset, cause error) error {
	row := models.OrphanedAsset{
		Name:   a.Name,
		Folder: a.Folder,
		URL:    a.URL,
	}
	if cause != nil {
		row.LastError = cause.Error()
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "folder"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "last_error", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("record orphan %s: %w", a.Name, err)
	}
	return nil
}

// Pending returns the least recently tried orphans first.
func (s *OrphanStore) Pending(ctx context.Context, limit int) ([]models.OrphanedAsset, error) {
	var rows []models.OrphanedAsset
	q := s.db.WithContext(ctx).Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}
	return rows, nil
}

// Resolve forgets an orphan once its file is gone.
func (s *OrphanStore) Resolve(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrphanedAsset{}).Error; err != nil {
		return fmt.Errorf("resolve orphan %s: %w", id, err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and keeps the latest error.
func (s *OrphanStore) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := s.db.WithContext(ctx).Model(&models.OrphanedAsset{}).Where("id = ?", id).Updates(map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": msg,
	}).Error
	if err != nil {
		return fmt.Errorf("mark orphan %s: %w", id, err)
	}
	return nil
}
