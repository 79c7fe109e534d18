package store

import (
	"fmt"
	"time"

	"github.com/nysh-work/audit-management/internal/models"
)

// MemberHours aggregates one team member's logged time over a date range.
type MemberHours struct {
	Member       string             `json:"member"`
	TotalHours   float64            `json:"total_hours"`
	ByEngagement map[uint]float64   `json:"by_engagement"`
	ByPhase      map[string]float64 `json:"by_phase"`
}

// HoursByPhase sums an engagement's logged hours per phase. Phases with no
// entries are present with zero, so callers always see the full catalog.
func (s *Store) HoursByPhase(engagementID uint) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.db.Model(&models.Engagement{}).Where("id = ?", engagementID).Count(&count).Error; err != nil {
		return nil, storageErr("check engagement", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: engagement %d", ErrNotFound, engagementID)
	}

	type row struct {
		Phase string
		Total float64
	}
	var rows []row
	if err := s.db.Model(&models.TimeEntry{}).
		Select("phase, SUM(hours) AS total").
		Where("engagement_id = ?", engagementID).
		Group("phase").
		Scan(&rows).Error; err != nil {
		return nil, storageErr("sum hours by phase", err)
	}

	byPhase := make(map[string]float64, len(models.Phases))
	for _, phase := range models.Phases {
		byPhase[phase] = 0
	}
	for _, r := range rows {
		byPhase[r.Phase] = r.Total
	}
	return byPhase, nil
}

// HoursByMember sums logged hours per team member across engagements within
// [from, to] (dates compared by day). A range with no entries returns an
// empty, non-nil map.
func (s *Store) HoursByMember(from, to time.Time) (map[string]*MemberHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.db.Model(&models.TimeEntry{})
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		// make the end bound inclusive of the whole day
		q = q.Where("date < ?", to.AddDate(0, 0, 1))
	}
	var entries []models.TimeEntry
	if err := q.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, storageErr("list time entries", err)
	}

	result := make(map[string]*MemberHours)
	for i := range entries {
		e := &entries[i]
		mh, ok := result[e.Member]
		if !ok {
			mh = &MemberHours{
				Member:       e.Member,
				ByEngagement: make(map[uint]float64),
				ByPhase:      make(map[string]float64),
			}
			result[e.Member] = mh
		}
		mh.TotalHours += e.Hours
		mh.ByEngagement[e.EngagementID] += e.Hours
		mh.ByPhase[e.Phase] += e.Hours
	}
	return result, nil
}
