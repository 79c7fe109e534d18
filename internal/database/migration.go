package database

import (
	"fmt"

	"github.com/nysh-work/audit-management/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Engagement{},
		&models.TimeEntry{},
		&models.TeamMember{},
		&models.ScheduleEntry{},
		&models.Backup{},
		&models.OperationLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
