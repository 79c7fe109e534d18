package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nysh-work/audit-management/internal/models"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

// snapshotData is the on-disk backup format: a versioned JSON document
// holding every domain table. Record IDs are preserved so foreign keys
// survive the round trip.
type snapshotData struct {
	Version         int                    `json:"version"`
	ExportedAt      time.Time              `json:"exported_at"`
	Engagements     []models.Engagement    `json:"engagements"`
	TimeEntries     []models.TimeEntry     `json:"time_entries"`
	TeamMembers     []models.TeamMember    `json:"team_members"`
	ScheduleEntries []models.ScheduleEntry `json:"schedule_entries"`
}

// ExportSnapshot serializes all domain tables into one blob.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := snapshotData{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC(),
	}
	if err := s.db.Order("id ASC").Find(&data.Engagements).Error; err != nil {
		return nil, storageErr("export engagements", err)
	}
	if err := s.db.Order("id ASC").Find(&data.TimeEntries).Error; err != nil {
		return nil, storageErr("export time entries", err)
	}
	if err := s.db.Order("id ASC").Find(&data.TeamMembers).Error; err != nil {
		return nil, storageErr("export team members", err)
	}
	if err := s.db.Order("id ASC").Find(&data.ScheduleEntries).Error; err != nil {
		return nil, storageErr("export schedule entries", err)
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return raw, nil
}

// validateSnapshot checks structural integrity before anything touches the
// live store.
func validateSnapshot(data *snapshotData) error {
	if data.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrRestoreIntegrity, data.Version)
	}
	engagementIDs := make(map[uint]bool, len(data.Engagements))
	for i := range data.Engagements {
		e := &data.Engagements[i]
		if e.ID == 0 {
			return fmt.Errorf("%w: engagement with zero id", ErrRestoreIntegrity)
		}
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%w: engagement %d has no name", ErrRestoreIntegrity, e.ID)
		}
		if e.Sector == "" {
			return fmt.Errorf("%w: engagement %d has no sector", ErrRestoreIntegrity, e.ID)
		}
		if engagementIDs[e.ID] {
			return fmt.Errorf("%w: duplicate engagement id %d", ErrRestoreIntegrity, e.ID)
		}
		engagementIDs[e.ID] = true
	}
	memberIDs := make(map[uint]bool, len(data.TeamMembers))
	for i := range data.TeamMembers {
		m := &data.TeamMembers[i]
		if m.ID == 0 || strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: team member with missing id or name", ErrRestoreIntegrity)
		}
		memberIDs[m.ID] = true
	}
	for i := range data.TimeEntries {
		te := &data.TimeEntries[i]
		if !engagementIDs[te.EngagementID] {
			return fmt.Errorf("%w: time entry %d references missing engagement %d", ErrRestoreIntegrity, te.ID, te.EngagementID)
		}
		if te.Hours < 0 {
			return fmt.Errorf("%w: time entry %d has negative hours", ErrRestoreIntegrity, te.ID)
		}
	}
	for i := range data.ScheduleEntries {
		se := &data.ScheduleEntries[i]
		if !engagementIDs[se.EngagementID] {
			return fmt.Errorf("%w: schedule entry %d references missing engagement %d", ErrRestoreIntegrity, se.ID, se.EngagementID)
		}
		if !memberIDs[se.TeamMemberID] {
			return fmt.Errorf("%w: schedule entry %d references missing team member %d", ErrRestoreIntegrity, se.ID, se.TeamMemberID)
		}
	}
	return nil
}

// ImportSnapshot validates a blob and replaces every domain table with its
// contents. The store's write lock is held for the whole swap, and the swap
// itself runs in a transaction: a malformed blob or a failed insert leaves
// the live store untouched.
func (s *Store) ImportSnapshot(raw []byte) error {
	var data snapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", ErrRestoreIntegrity, err)
	}
	if err := validateSnapshot(&data); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.ScheduleEntry{}, &models.TimeEntry{}, &models.Engagement{}, &models.TeamMember{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		for i := range data.Engagements {
			if err := tx.Create(&data.Engagements[i]).Error; err != nil {
				return err
			}
		}
		for i := range data.TeamMembers {
			if err := tx.Create(&data.TeamMembers[i]).Error; err != nil {
				return err
			}
		}
		for i := range data.TimeEntries {
			if err := tx.Create(&data.TimeEntries[i]).Error; err != nil {
				return err
			}
		}
		for i := range data.ScheduleEntries {
			if err := tx.Create(&data.ScheduleEntries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("import snapshot", err)
	}
	return nil
}
