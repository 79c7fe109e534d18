// Package store is the repository over the single SQLite file: CRUD for
// engagements, time entries, team members and schedule entries, the
// aggregate queries reporting reads from, and snapshot export/import.
//
// Concurrency model: the deployment is single-instance with at most a few
// interactive sessions, so a single RWMutex serializes all mutating calls
// and lets reads run concurrently. Snapshot import holds the write lock for
// its whole duration, so no caller ever observes a partially restored store.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/util"
)

type Store struct {
	db     *gorm.DB
	tables estimate.Tables
	mu     sync.RWMutex
}

// New wraps an open database. The estimation tables supply the sector and
// risk catalogs that engagement writes are validated against.
func New(db *gorm.DB, tables estimate.Tables) *Store {
	return &Store{db: db, tables: tables}
}

// DB exposes the underlying handle for collaborators outside the domain
// tables (users, backups, operation logs).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// ---------- engagements ----------

func (s *Store) validateEngagement(e *models.Engagement) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: engagement name is required", ErrValidation)
	}
	if e.Turnover < 0 {
		return fmt.Errorf("%w: turnover must be non-negative, got %v", ErrValidation, e.Turnover)
	}
	if _, ok := s.tables.Sectors[e.Sector]; !ok {
		return fmt.Errorf("%w: unknown sector %q", ErrValidation, e.Sector)
	}
	for _, level := range []string{e.ControlRisk, e.InherentRisk, e.ComplexityRisk, e.InfoDelayRisk} {
		if !estimate.ValidRiskLevel(estimate.RiskLevel(level)) {
			return fmt.Errorf("%w: unknown risk level %q", ErrValidation, level)
		}
	}
	if e.Status != "" && !models.ValidEngagementStatus(e.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, e.Status)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	return nil
}

// CreateEngagement persists a new engagement. The caller fills the derived
// hour fields from the estimation engine before calling.
func (s *Store) CreateEngagement(e *models.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateEngagement(e); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&models.Engagement{}).Where("name = ?", e.Name).Count(&count).Error; err != nil {
		return storageErr("check engagement name", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: engagement %q already exists", ErrValidation, e.Name)
	}
	if err := s.db.Create(e).Error; err != nil {
		return storageErr("create engagement", err)
	}
	return nil
}

// GetEngagement returns one engagement by id.
func (s *Store) GetEngagement(id uint) (*models.Engagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e models.Engagement
	if err := s.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: engagement %d", ErrNotFound, id)
		}
		return nil, storageErr("get engagement", err)
	}
	return &e, nil
}

// ListEngagements returns all engagements, most recently created first.
func (s *Store) ListEngagements() ([]models.Engagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Engagement
	if err := s.db.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, storageErr("list engagements", err)
	}
	return list, nil
}

// UpdateEngagement saves changed attributes. The caller recomputes the
// derived hour fields whenever the driving attributes changed.
func (s *Store) UpdateEngagement(e *models.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateEngagement(e); err != nil {
		return err
	}
	var existing models.Engagement
	if err := s.db.First(&existing, e.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: engagement %d", ErrNotFound, e.ID)
		}
		return storageErr("get engagement", err)
	}
	var count int64
	if err := s.db.Model(&models.Engagement{}).
		Where("name = ? AND id <> ?", e.Name, e.ID).
		Count(&count).Error; err != nil {
		return storageErr("check engagement name", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: engagement %q already exists", ErrValidation, e.Name)
	}
	if err := s.db.Save(e).Error; err != nil {
		return storageErr("update engagement", err)
	}
	return nil
}

// DeleteEngagement removes an engagement together with its time entries and
// schedule entries, in one transaction.
func (s *Store) DeleteEngagement(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e models.Engagement
	if err := s.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: engagement %d", ErrNotFound, id)
		}
		return storageErr("get engagement", err)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("engagement_id = ?", id).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("engagement_id = ?", id).Delete(&models.ScheduleEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Engagement{}, id).Error
	})
	if err != nil {
		return storageErr("delete engagement", err)
	}
	return nil
}

// ---------- time entries ----------

func (s *Store) validateTimeEntry(entry *models.TimeEntry, engagement *models.Engagement) error {
	if err := util.ValidateHours(entry.Hours); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if strings.TrimSpace(entry.Member) == "" {
		return fmt.Errorf("%w: team member is required", ErrValidation)
	}
	if !models.ValidPhase(entry.Phase) {
		return fmt.Errorf("%w: unknown phase %q", ErrValidation, entry.Phase)
	}
	if entry.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	today := time.Now().Format("2006-01-02")
	if entry.Date.Format("2006-01-02") > today {
		return fmt.Errorf("%w: date must not be in the future", ErrValidation)
	}
	if engagement.StartDate != nil && entry.Date.Before(*engagement.StartDate) {
		return fmt.Errorf("%w: date predates engagement start", ErrValidation)
	}
	return nil
}

// AddTimeEntry appends a logged block of hours to an engagement.
func (s *Store) AddTimeEntry(entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e models.Engagement
	if err := s.db.First(&e, entry.EngagementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: engagement %d", ErrNotFound, entry.EngagementID)
		}
		return storageErr("get engagement", err)
	}
	if err := s.validateTimeEntry(entry, &e); err != nil {
		return err
	}
	if err := s.db.Create(entry).Error; err != nil {
		return storageErr("add time entry", err)
	}
	return nil
}

// GetTimeEntry returns one time entry by id.
func (s *Store) GetTimeEntry(id uint) (*models.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry models.TimeEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: time entry %d", ErrNotFound, id)
		}
		return nil, storageErr("get time entry", err)
	}
	return &entry, nil
}

// ListTimeEntries returns an engagement's entries ordered by date.
func (s *Store) ListTimeEntries(engagementID uint) ([]models.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.db.Model(&models.Engagement{}).Where("id = ?", engagementID).Count(&count).Error; err != nil {
		return nil, storageErr("check engagement", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: engagement %d", ErrNotFound, engagementID)
	}
	var entries []models.TimeEntry
	if err := s.db.Where("engagement_id = ?", engagementID).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, storageErr("list time entries", err)
	}
	return entries, nil
}

// UpdateTimeEntry saves changed fields of an existing entry.
func (s *Store) UpdateTimeEntry(entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing models.TimeEntry
	if err := s.db.First(&existing, entry.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: time entry %d", ErrNotFound, entry.ID)
		}
		return storageErr("get time entry", err)
	}
	var e models.Engagement
	if err := s.db.First(&e, entry.EngagementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: engagement %d", ErrNotFound, entry.EngagementID)
		}
		return storageErr("get engagement", err)
	}
	if err := s.validateTimeEntry(entry, &e); err != nil {
		return err
	}
	if err := s.db.Save(entry).Error; err != nil {
		return storageErr("update time entry", err)
	}
	return nil
}

// DeleteTimeEntry removes one entry.
func (s *Store) DeleteTimeEntry(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.Delete(&models.TimeEntry{}, id)
	if res.Error != nil {
		return storageErr("delete time entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: time entry %d", ErrNotFound, id)
	}
	return nil
}
