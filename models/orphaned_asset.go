package models

// OrphanedAsset remembers a stored file whose cleanup failed so the sweeper
// can retry it later.
type OrphanedAsset struct {
	Base
	Name      string `json:"name" gorm:"uniqueIndex:idx_orphan_key;not null"`
	Folder    string `json:"folder" gorm:"uniqueIndex:idx_orphan_key"`
	URL       string `json:"url"`
	Attempts  int    `json:"attempts" gorm:"default:0"`
	LastError string `json:"last_error" gorm:"type:text"`
}
