// Package report computes read-only progress summaries over the store:
// per-engagement budget vs logged hours and per-member utilization.
package report

import (
	"time"

	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
)

type Aggregator struct {
	store *store.Store
}

func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// ProjectReport compares an engagement's allocated budget against the time
// logged so far.
type ProjectReport struct {
	EngagementID     uint               `json:"engagement_id"`
	Name             string             `json:"name"`
	AllocatedHours   int                `json:"allocated_hours"`
	AllocatedByPhase map[string]int     `json:"allocated_by_phase"`
	LoggedHours      float64            `json:"logged_hours"`
	LoggedByPhase    map[string]float64 `json:"logged_by_phase"`
	VarianceHours    float64            `json:"variance_hours"` // allocated - logged
	PercentComplete  float64            `json:"percent_complete"`
	ActualCost       float64            `json:"actual_cost"` // logged hours x member rate
	TotalBudget      float64            `json:"total_budget"`
}

// Project builds the report for one engagement. An engagement with no time
// entries yields zero-filled aggregates; only a missing id fails.
func (a *Aggregator) Project(engagementID uint) (*ProjectReport, error) {
	e, err := a.store.GetEngagement(engagementID)
	if err != nil {
		return nil, err
	}
	logged, err := a.store.HoursByPhase(engagementID)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.ListTimeEntries(engagementID)
	if err != nil {
		return nil, err
	}
	members, err := a.store.ListTeamMembers()
	if err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(members))
	for i := range members {
		rates[members[i].Name] = members[i].HourlyRate
	}

	var totalLogged, cost float64
	for _, h := range logged {
		totalLogged += h
	}
	for i := range entries {
		cost += entries[i].Hours * rates[entries[i].Member]
	}

	r := &ProjectReport{
		EngagementID:   e.ID,
		Name:           e.Name,
		AllocatedHours: e.AdjustedHours,
		AllocatedByPhase: map[string]int{
			models.PhasePlanning:      e.PlanningHours,
			models.PhaseFieldwork:     e.FieldworkHours,
			models.PhaseManagerReview: e.ManagerReviewHours,
			models.PhasePartnerReview: e.PartnerReviewHours,
		},
		LoggedHours:   totalLogged,
		LoggedByPhase: logged,
		VarianceHours: float64(e.AdjustedHours) - totalLogged,
		ActualCost:    cost,
		TotalBudget:   e.TotalBudget,
	}
	if e.AdjustedHours > 0 {
		r.PercentComplete = totalLogged / float64(e.AdjustedHours) * 100
	}
	return r, nil
}

// Team aggregates logged hours per team member over [from, to]. A range
// containing no entries returns an empty, non-nil map, never an error.
func (a *Aggregator) Team(from, to time.Time) (map[string]*store.MemberHours, error) {
	return a.store.HoursByMember(from, to)
}
