package models

import "time"

// TimeEntry is one block of hours a team member logged against an
// engagement phase. Entries are appended over the engagement's life and
// only removed when the engagement itself is deleted.
type TimeEntry struct {
	ID           uint      `gorm:"primaryKey"`
	EngagementID uint      `gorm:"index;not null"`
	Member       string    `gorm:"size:64;index;not null"`
	Phase        string    `gorm:"size:32;not null"` // planning / fieldwork / managerReview / partnerReview
	Date         time.Time `gorm:"index;not null"`
	Hours        float64   `gorm:"not null"`
	Description  string    `gorm:"size:255"`
	CreatedAt    time.Time
}
