package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nysh-work/audit-management/internal/models"
)

// ---------- team members ----------

func validateTeamMember(m *models.TeamMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: team member name is required", ErrValidation)
	}
	if !models.ValidRole(m.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, m.Role)
	}
	if m.AvailabilityHours < 0 || m.AvailabilityHours > 168 {
		return fmt.Errorf("%w: availability must be 0-168 hours per week, got %v", ErrValidation, m.AvailabilityHours)
	}
	if m.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate must be non-negative, got %v", ErrValidation, m.HourlyRate)
	}
	return nil
}

// CreateTeamMember adds a member to the team roster.
func (s *Store) CreateTeamMember(m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateTeamMember(m); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&models.TeamMember{}).Where("name = ?", m.Name).Count(&count).Error; err != nil {
		return storageErr("check member name", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: team member %q already exists", ErrValidation, m.Name)
	}
	if err := s.db.Create(m).Error; err != nil {
		return storageErr("create team member", err)
	}
	return nil
}

// GetTeamMember returns one member by id.
func (s *Store) GetTeamMember(id uint) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m models.TeamMember
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: team member %d", ErrNotFound, id)
		}
		return nil, storageErr("get team member", err)
	}
	return &m, nil
}

// ListTeamMembers returns the roster ordered by name.
func (s *Store) ListTeamMembers() ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.TeamMember
	if err := s.db.Order("name ASC").Find(&list).Error; err != nil {
		return nil, storageErr("list team members", err)
	}
	return list, nil
}

// UpdateTeamMember saves changed member fields.
func (s *Store) UpdateTeamMember(m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateTeamMember(m); err != nil {
		return err
	}
	var existing models.TeamMember
	if err := s.db.First(&existing, m.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: team member %d", ErrNotFound, m.ID)
		}
		return storageErr("get team member", err)
	}
	if err := s.db.Save(m).Error; err != nil {
		return storageErr("update team member", err)
	}
	return nil
}

// DeleteTeamMember removes a member and their schedule entries.
func (s *Store) DeleteTeamMember(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.TeamMember
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: team member %d", ErrNotFound, id)
		}
		return storageErr("get team member", err)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_member_id = ?", id).Delete(&models.ScheduleEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TeamMember{}, id).Error
	})
	if err != nil {
		return storageErr("delete team member", err)
	}
	return nil
}

// ---------- schedule entries ----------

func validateScheduleEntry(e *models.ScheduleEntry) error {
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if e.HoursPerDay < 0 || e.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours per day must be 0-24, got %v", ErrValidation, e.HoursPerDay)
	}
	if !models.ValidPhase(e.Phase) {
		return fmt.Errorf("%w: unknown phase %q", ErrValidation, e.Phase)
	}
	if e.Status != "" && !models.ValidScheduleStatus(e.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, e.Status)
	}
	return nil
}

// CreateScheduleEntry books a member on an engagement.
func (s *Store) CreateScheduleEntry(e *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateScheduleEntry(e); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&models.Engagement{}).Where("id = ?", e.EngagementID).Count(&count).Error; err != nil {
		return storageErr("check engagement", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: engagement %d", ErrNotFound, e.EngagementID)
	}
	if err := s.db.Model(&models.TeamMember{}).Where("id = ?", e.TeamMemberID).Count(&count).Error; err != nil {
		return storageErr("check team member", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: team member %d", ErrNotFound, e.TeamMemberID)
	}
	if err := s.db.Create(e).Error; err != nil {
		return storageErr("create schedule entry", err)
	}
	return nil
}

// ListScheduleEntries returns schedule entries, optionally filtered by
// engagement (engagementID 0 lists all).
func (s *Store) ListScheduleEntries(engagementID uint) ([]models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.db.Order("start_date ASC, id ASC")
	if engagementID != 0 {
		q = q.Where("engagement_id = ?", engagementID)
	}
	var list []models.ScheduleEntry
	if err := q.Find(&list).Error; err != nil {
		return nil, storageErr("list schedule entries", err)
	}
	return list, nil
}

// UpdateScheduleEntry saves changed booking fields.
func (s *Store) UpdateScheduleEntry(e *models.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateScheduleEntry(e); err != nil {
		return err
	}
	var existing models.ScheduleEntry
	if err := s.db.First(&existing, e.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: schedule entry %d", ErrNotFound, e.ID)
		}
		return storageErr("get schedule entry", err)
	}
	if err := s.db.Save(e).Error; err != nil {
		return storageErr("update schedule entry", err)
	}
	return nil
}

// DeleteScheduleEntry removes one booking.
func (s *Store) DeleteScheduleEntry(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Delete(&models.ScheduleEntry{}, id)
	if res.Error != nil {
		return storageErr("delete schedule entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: schedule entry %d", ErrNotFound, id)
	}
	return nil
}
