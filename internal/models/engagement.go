package models

import "time"

// Engagement represents one statutory audit assignment for a client.
// SizeCategory and the hour figures are derived from turnover, sector and
// the risk ratings; they are stored for listing but recomputed on every
// write so they never drift from their inputs.
type Engagement struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:128;uniqueIndex;not null"`
	ClientName string  `gorm:"size:128"`
	Sector     string  `gorm:"size:16;index;not null"` // sector code, e.g. MFG
	Turnover   float64 `gorm:"not null"`

	SizeCategory string `gorm:"size:16;not null"`

	ControlRisk    string `gorm:"size:16;not null"`
	InherentRisk   string `gorm:"size:16;not null"`
	ComplexityRisk string `gorm:"size:16;not null"`
	InfoDelayRisk  string `gorm:"size:16;not null"`

	BaselineHours int `gorm:"not null"`
	AdjustedHours int `gorm:"not null"`

	// adjusted hours split across audit phases
	PlanningHours      int
	FieldworkHours     int
	ManagerReviewHours int
	PartnerReviewHours int

	// adjusted hours split across roles
	PartnerHours int
	ManagerHours int
	SeniorHours  int
	StaffHours   int

	TotalBudget float64 // fee budget in currency units
	StartDate   *time.Time
	EndDate     *time.Time
	Status      string `gorm:"size:16;index;default:planned"` // planned / in_progress / completed

	CreatedAt time.Time
	UpdatedAt time.Time

	TimeEntries []TimeEntry `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
