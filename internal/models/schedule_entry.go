package models

import "time"

// ScheduleEntry books a team member on an engagement for a date range.
type ScheduleEntry struct {
	ID           uint      `gorm:"primaryKey"`
	EngagementID uint      `gorm:"index;not null"`
	TeamMemberID uint      `gorm:"index;not null"`
	StartDate    time.Time `gorm:"not null"`
	EndDate      time.Time `gorm:"not null"`
	HoursPerDay  float64   `gorm:"default:8"`
	Phase        string    `gorm:"size:32;not null"`
	Status       string    `gorm:"size:16;default:scheduled"` // scheduled / in_progress / completed
	Notes        string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
