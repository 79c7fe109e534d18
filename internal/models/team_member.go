package models

import "time"

// TeamMember is a member of the audit team.
type TeamMember struct {
	ID                uint    `gorm:"primaryKey"`
	Name              string  `gorm:"size:64;uniqueIndex;not null"`
	Role              string  `gorm:"size:16;not null"` // partner / manager / senior / staff
	Skills            string  `gorm:"size:255"`         // comma separated
	AvailabilityHours float64 `gorm:"default:40"`       // hours per week
	HourlyRate        float64 `gorm:"default:0"`
	Notes             string  `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
