package report

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
)

func newTestAggregator(t *testing.T) (*Aggregator, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Engagement{}, &models.TimeEntry{},
		&models.TeamMember{}, &models.ScheduleEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := store.New(db, estimate.Default())
	return New(s), s
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func seedEngagement(t *testing.T, s *store.Store, name string) *models.Engagement {
	t.Helper()
	e := &models.Engagement{
		Name:           name,
		Sector:         "MFG",
		Turnover:       20_000_000,
		SizeCategory:   "medium",
		ControlRisk:    "medium",
		InherentRisk:   "medium",
		ComplexityRisk: "medium",
		InfoDelayRisk:  "medium",
		BaselineHours:  300,
		AdjustedHours:  300,
		PlanningHours:  60, FieldworkHours: 180,
		ManagerReviewHours: 36, PartnerReviewHours: 24,
		TotalBudget: 500000,
		Status:      models.StatusPlanned,
	}
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	return e
}

func TestProjectReport_NoEntries(t *testing.T) {
	a, s := newTestAggregator(t)
	e := seedEngagement(t, s, "FY26 Acme audit")

	r, err := a.Project(e.ID)
	if err != nil {
		t.Fatalf("project report: %v", err)
	}
	if r.LoggedHours != 0 {
		t.Errorf("logged = %v, want 0", r.LoggedHours)
	}
	if r.VarianceHours != 300 {
		t.Errorf("variance = %v, want 300", r.VarianceHours)
	}
	if r.PercentComplete != 0 {
		t.Errorf("percent = %v, want 0", r.PercentComplete)
	}
	if r.ActualCost != 0 {
		t.Errorf("cost = %v, want 0", r.ActualCost)
	}
	if len(r.LoggedByPhase) != len(models.Phases) {
		t.Errorf("expected zero-filled phases, got %v", r.LoggedByPhase)
	}
	for phase, hours := range r.LoggedByPhase {
		if hours != 0 {
			t.Errorf("%s = %v, want 0", phase, hours)
		}
	}
	if r.AllocatedByPhase[models.PhaseFieldwork] != 180 {
		t.Errorf("allocated fieldwork = %d, want 180", r.AllocatedByPhase[models.PhaseFieldwork])
	}
}

func TestProjectReport_Math(t *testing.T) {
	a, s := newTestAggregator(t)
	e := seedEngagement(t, s, "FY26 Acme audit")

	if err := s.CreateTeamMember(&models.TeamMember{
		Name: "Priya", Role: "senior", AvailabilityHours: 40, HourlyRate: 100,
	}); err != nil {
		t.Fatalf("create member: %v", err)
	}
	entries := []models.TimeEntry{
		{EngagementID: e.ID, Member: "Priya", Phase: models.PhasePlanning, Date: mustDate(t, "2026-02-10"), Hours: 10},
		{EngagementID: e.ID, Member: "Priya", Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-03-05"), Hours: 20},
	}
	for i := range entries {
		if err := s.AddTimeEntry(&entries[i]); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}

	r, err := a.Project(e.ID)
	if err != nil {
		t.Fatalf("project report: %v", err)
	}
	if r.LoggedHours != 30 {
		t.Errorf("logged = %v, want 30", r.LoggedHours)
	}
	if r.VarianceHours != 270 {
		t.Errorf("variance = %v, want 270", r.VarianceHours)
	}
	if r.PercentComplete != 10 {
		t.Errorf("percent = %v, want 10", r.PercentComplete)
	}
	if r.ActualCost != 3000 {
		t.Errorf("cost = %v, want 3000", r.ActualCost)
	}
	if r.LoggedByPhase[models.PhasePlanning] != 10 {
		t.Errorf("planning = %v, want 10", r.LoggedByPhase[models.PhasePlanning])
	}
}

// Hours logged by someone missing from the roster still count toward
// progress, just at zero cost.
func TestProjectReport_UnknownMemberCostsNothing(t *testing.T) {
	a, s := newTestAggregator(t)
	e := seedEngagement(t, s, "FY26 Acme audit")

	if err := s.AddTimeEntry(&models.TimeEntry{
		EngagementID: e.ID, Member: "Contractor",
		Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-03-05"), Hours: 12,
	}); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	r, err := a.Project(e.ID)
	if err != nil {
		t.Fatalf("project report: %v", err)
	}
	if r.LoggedHours != 12 {
		t.Errorf("logged = %v, want 12", r.LoggedHours)
	}
	if r.ActualCost != 0 {
		t.Errorf("cost = %v, want 0", r.ActualCost)
	}
}

func TestProjectReport_NotFound(t *testing.T) {
	a, _ := newTestAggregator(t)
	if _, err := a.Project(999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamReport_EmptyRange(t *testing.T) {
	a, _ := newTestAggregator(t)

	got, err := a.Team(mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"))
	if err != nil {
		t.Fatalf("team report: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil map")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %d members", len(got))
	}
}

func TestTeamReport_Aggregates(t *testing.T) {
	a, s := newTestAggregator(t)
	e1 := seedEngagement(t, s, "FY26 Acme audit")
	e2 := seedEngagement(t, s, "FY26 Globex audit")

	entries := []models.TimeEntry{
		{EngagementID: e1.ID, Member: "Priya", Phase: models.PhasePlanning, Date: mustDate(t, "2026-02-10"), Hours: 4},
		{EngagementID: e2.ID, Member: "Priya", Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-02-12"), Hours: 6},
		{EngagementID: e1.ID, Member: "Arun", Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-02-11"), Hours: 8},
		// outside the queried range
		{EngagementID: e1.ID, Member: "Priya", Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-04-01"), Hours: 9},
	}
	for i := range entries {
		if err := s.AddTimeEntry(&entries[i]); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}

	got, err := a.Team(mustDate(t, "2026-02-01"), mustDate(t, "2026-02-28"))
	if err != nil {
		t.Fatalf("team report: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	priya := got["Priya"]
	if priya == nil || priya.TotalHours != 10 {
		t.Errorf("priya total = %+v, want 10", priya)
	}
	if priya.ByEngagement[e1.ID] != 4 || priya.ByEngagement[e2.ID] != 6 {
		t.Errorf("priya by engagement = %v", priya.ByEngagement)
	}
	if priya.ByPhase[models.PhaseFieldwork] != 6 {
		t.Errorf("priya fieldwork = %v, want 6", priya.ByPhase[models.PhaseFieldwork])
	}
	arun := got["Arun"]
	if arun == nil || arun.TotalHours != 8 {
		t.Errorf("arun total = %+v, want 8", arun)
	}
}
