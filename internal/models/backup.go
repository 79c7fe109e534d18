package models

import "time"

// Backup records one snapshot file written to the backup directory.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	FileName  string `gorm:"size:128;not null"`
	FilePath  string `gorm:"size:255;not null"`
	Size      int64
	Uploaded  bool   `gorm:"default:false"` // copied to the cloud bucket
	CreatedBy string `gorm:"size:64"`
	CreatedAt time.Time
}
