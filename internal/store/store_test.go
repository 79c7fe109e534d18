package store

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
)

func newTestStore(t *testing.T) *Store {
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
	return New(db, estimate.Default())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func testEngagement(name string) *models.Engagement {
	return &models.Engagement{
		Name:           name,
		ClientName:     "Acme Ltd",
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
		PartnerHours: 30, ManagerHours: 60, SeniorHours: 90, StaffHours: 120,
		TotalBudget: 500000,
		Status:      models.StatusPlanned,
	}
}

func TestCreateAndGetEngagement(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := s.GetEngagement(e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != e.Name || got.Sector != e.Sector || got.AdjustedHours != 300 {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestCreateEngagement_Validation(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name   string
		mutate func(*models.Engagement)
	}{
		{"empty name", func(e *models.Engagement) { e.Name = "  " }},
		{"unknown sector", func(e *models.Engagement) { e.Sector = "XXX" }},
		{"negative turnover", func(e *models.Engagement) { e.Turnover = -1 }},
		{"bad risk level", func(e *models.Engagement) { e.ControlRisk = "extreme" }},
		{"bad status", func(e *models.Engagement) { e.Status = "archived" }},
	}
	for _, tc := range cases {
		e := testEngagement("validation case")
		tc.mutate(e)
		if err := s.CreateEngagement(e); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestCreateEngagement_DuplicateName(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateEngagement(testEngagement("dup")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateEngagement(testEngagement("dup")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate name, got %v", err)
	}
}

func TestGetEngagement_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetEngagement(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTimeEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}

	entry := &models.TimeEntry{
		EngagementID: e.ID,
		Member:       "Priya",
		Phase:        models.PhaseFieldwork,
		Date:         mustDate(t, "2026-03-10"),
		Hours:        7.5,
		Description:  "inventory counts",
	}
	if err := s.AddTimeEntry(entry); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := s.ListTimeEntries(e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Member != "Priya" || got.Phase != models.PhaseFieldwork ||
		got.Hours != 7.5 || got.Description != "inventory counts" ||
		got.Date.Format("2006-01-02") != "2026-03-10" {
		t.Errorf("entry fields changed: %+v", got)
	}
}

func TestAddTimeEntry_Validation(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}

	base := func() *models.TimeEntry {
		return &models.TimeEntry{
			EngagementID: e.ID,
			Member:       "Priya",
			Phase:        models.PhaseFieldwork,
			Date:         mustDate(t, "2026-03-10"),
			Hours:        8,
		}
	}

	cases := []struct {
		name   string
		mutate func(*models.TimeEntry)
	}{
		{"negative hours", func(te *models.TimeEntry) { te.Hours = -1 }},
		{"too many hours", func(te *models.TimeEntry) { te.Hours = 25 }},
		{"empty member", func(te *models.TimeEntry) { te.Member = "" }},
		{"unknown phase", func(te *models.TimeEntry) { te.Phase = "wrapup" }},
		{"zero date", func(te *models.TimeEntry) { te.Date = time.Time{} }},
		{"future date", func(te *models.TimeEntry) { te.Date = time.Now().AddDate(0, 0, 2) }},
	}
	for _, tc := range cases {
		te := base()
		tc.mutate(te)
		if err := s.AddTimeEntry(te); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}

	te := base()
	te.EngagementID = 999
	if err := s.AddTimeEntry(te); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing engagement: expected ErrNotFound, got %v", err)
	}
}

func TestAddTimeEntry_BeforeEngagementStart(t *testing.T) {
	s := newTestStore(t)

	start := mustDate(t, "2026-02-01")
	e := testEngagement("FY26 Acme audit")
	e.StartDate = &start
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}

	te := &models.TimeEntry{
		EngagementID: e.ID,
		Member:       "Priya",
		Phase:        models.PhasePlanning,
		Date:         mustDate(t, "2026-01-15"),
		Hours:        4,
	}
	if err := s.AddTimeEntry(te); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for entry before start, got %v", err)
	}
}

func TestDeleteEngagement_Cascades(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	member := &models.TeamMember{Name: "Priya", Role: "senior", AvailabilityHours: 40}
	if err := s.CreateTeamMember(member); err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := s.AddTimeEntry(&models.TimeEntry{
		EngagementID: e.ID, Member: "Priya",
		Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-03-10"), Hours: 8,
	}); err != nil {
		t.Fatalf("add time entry: %v", err)
	}
	if err := s.CreateScheduleEntry(&models.ScheduleEntry{
		EngagementID: e.ID, TeamMemberID: member.ID,
		StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-14"),
		HoursPerDay: 8, Phase: models.PhaseFieldwork, Status: "scheduled",
	}); err != nil {
		t.Fatalf("create schedule entry: %v", err)
	}

	if err := s.DeleteEngagement(e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetEngagement(e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected engagement gone, got %v", err)
	}
	if _, err := s.ListTimeEntries(e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound listing entries, got %v", err)
	}
	schedules, err := s.ListScheduleEntries(0)
	if err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	if len(schedules) != 0 {
		t.Fatalf("expected schedule entries removed, got %d", len(schedules))
	}
}

func TestHoursByPhase_ZeroFilled(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	if err := s.AddTimeEntry(&models.TimeEntry{
		EngagementID: e.ID, Member: "Priya",
		Phase: models.PhasePlanning, Date: mustDate(t, "2026-02-10"), Hours: 5,
	}); err != nil {
		t.Fatalf("add time entry: %v", err)
	}

	byPhase, err := s.HoursByPhase(e.ID)
	if err != nil {
		t.Fatalf("hours by phase: %v", err)
	}
	if len(byPhase) != len(models.Phases) {
		t.Fatalf("expected %d phases, got %d", len(models.Phases), len(byPhase))
	}
	if byPhase[models.PhasePlanning] != 5 {
		t.Errorf("planning = %v, want 5", byPhase[models.PhasePlanning])
	}
	for _, phase := range []string{models.PhaseFieldwork, models.PhaseManagerReview, models.PhasePartnerReview} {
		if byPhase[phase] != 0 {
			t.Errorf("%s = %v, want 0", phase, byPhase[phase])
		}
	}
}

func TestHoursByMember_EmptyRange(t *testing.T) {
	s := newTestStore(t)

	got, err := s.HoursByMember(mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"))
	if err != nil {
		t.Fatalf("hours by member: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil map")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %d members", len(got))
	}
}

func TestHoursByMember_InclusiveEndDate(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	if err := s.AddTimeEntry(&models.TimeEntry{
		EngagementID: e.ID, Member: "Priya",
		Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-03-31"), Hours: 6,
	}); err != nil {
		t.Fatalf("add time entry: %v", err)
	}

	got, err := s.HoursByMember(mustDate(t, "2026-03-01"), mustDate(t, "2026-03-31"))
	if err != nil {
		t.Fatalf("hours by member: %v", err)
	}
	mh, ok := got["Priya"]
	if !ok {
		t.Fatal("expected entry on the end date to count")
	}
	if mh.TotalHours != 6 {
		t.Errorf("total = %v, want 6", mh.TotalHours)
	}
	if mh.ByEngagement[e.ID] != 6 {
		t.Errorf("by engagement = %v, want 6", mh.ByEngagement[e.ID])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	member := &models.TeamMember{Name: "Priya", Role: "senior", AvailabilityHours: 40, HourlyRate: 120}
	if err := s.CreateTeamMember(member); err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := s.AddTimeEntry(&models.TimeEntry{
		EngagementID: e.ID, Member: "Priya",
		Phase: models.PhaseFieldwork, Date: mustDate(t, "2026-03-10"), Hours: 8,
	}); err != nil {
		t.Fatalf("add time entry: %v", err)
	}

	raw, err := s.ExportSnapshot()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	// mutate the live store, then restore
	if err := s.CreateEngagement(testEngagement("scratch work")); err != nil {
		t.Fatalf("create second engagement: %v", err)
	}
	if err := s.ImportSnapshot(raw); err != nil {
		t.Fatalf("import: %v", err)
	}

	list, err := s.ListEngagements()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 engagement after restore, got %d", len(list))
	}
	if list[0].ID != e.ID || list[0].Name != e.Name {
		t.Errorf("restored engagement mismatch: %+v", list[0])
	}
	entries, err := s.ListTimeEntries(e.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Hours != 8 {
		t.Errorf("restored entries mismatch: %+v", entries)
	}

	// exporting again yields the same data
	raw2, err := s.ExportSnapshot()
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if err := s.ImportSnapshot(raw2); err != nil {
		t.Fatalf("re-import: %v", err)
	}
}

func TestImportSnapshot_MalformedLeavesStoreUntouched(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}

	blobs := map[string][]byte{
		"not json":       []byte("{nope"),
		"wrong version":  []byte(`{"version": 99}`),
		"zero id":        []byte(`{"version": 1, "engagements": [{"id": 0, "name": "x", "sector": "MFG"}]}`),
		"dangling fk":    []byte(`{"version": 1, "time_entries": [{"id": 1, "engagement_id": 42, "hours": 1}]}`),
		"negative hours": []byte(`{"version": 1, "engagements": [{"id": 1, "name": "x", "sector": "MFG"}], "time_entries": [{"id": 1, "engagement_id": 1, "hours": -3}]}`),
		"duplicate ids":  []byte(`{"version": 1, "engagements": [{"id": 1, "name": "a", "sector": "MFG"}, {"id": 1, "name": "b", "sector": "RET"}]}`),
	}
	for name, blob := range blobs {
		if err := s.ImportSnapshot(blob); !errors.Is(err, ErrRestoreIntegrity) {
			t.Errorf("%s: expected ErrRestoreIntegrity, got %v", name, err)
		}
	}

	list, err := s.ListEngagements()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != e.Name {
		t.Fatalf("store changed by rejected snapshots: %+v", list)
	}
}

func TestTeamMember_Validation(t *testing.T) {
	s := newTestStore(t)

	cases := []*models.TeamMember{
		{Name: "", Role: "senior"},
		{Name: "Priya", Role: "intern"},
		{Name: "Priya", Role: "senior", AvailabilityHours: 200},
		{Name: "Priya", Role: "senior", HourlyRate: -5},
	}
	for i, m := range cases {
		if err := s.CreateTeamMember(m); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestScheduleEntry_ReferencesChecked(t *testing.T) {
	s := newTestStore(t)

	e := testEngagement("FY26 Acme audit")
	if err := s.CreateEngagement(e); err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	member := &models.TeamMember{Name: "Priya", Role: "senior", AvailabilityHours: 40}
	if err := s.CreateTeamMember(member); err != nil {
		t.Fatalf("create member: %v", err)
	}

	entry := &models.ScheduleEntry{
		EngagementID: e.ID, TeamMemberID: 999,
		StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-14"),
		HoursPerDay: 8, Phase: models.PhaseFieldwork, Status: "scheduled",
	}
	if err := s.CreateScheduleEntry(entry); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing member: expected ErrNotFound, got %v", err)
	}

	entry.TeamMemberID = member.ID
	entry.EngagementID = 999
	if err := s.CreateScheduleEntry(entry); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing engagement: expected ErrNotFound, got %v", err)
	}

	entry.EngagementID = e.ID
	if err := s.CreateScheduleEntry(entry); err != nil {
		t.Fatalf("create schedule entry: %v", err)
	}
}
