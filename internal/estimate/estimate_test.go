package estimate

import (
	"errors"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Default())
	if err != nil {
		t.Fatalf("NewEngine(Default()) error = %v", err)
	}
	return e
}

func mediumRisks() RiskInputs {
	return RiskInputs{Control: RiskMedium, Inherent: RiskMedium, Complexity: RiskMedium, InfoDelay: RiskMedium}
}

// TestDefaultTablesValidate proves the compiled-in tables are complete.
func TestDefaultTablesValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v, want nil", err)
	}
}

// TestSizeFromTurnover_Boundaries checks every documented bracket boundary.
func TestSizeFromTurnover_Boundaries(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		turnover float64
		want     SizeCategory
	}{
		{0, SizeSmall},
		{9_999_999, SizeSmall},
		{10_000_000, SizeMedium}, // lower boundary of medium is inclusive
		{49_999_999, SizeMedium},
		{50_000_000, SizeMedium}, // upper boundary stays in the lower bracket
		{50_000_001, SizeLarge},
		{250_000_000, SizeLarge},
		{250_000_001, SizeVeryLarge},
		{1e12, SizeVeryLarge},
	}
	for _, tc := range cases {
		got, err := e.SizeFromTurnover(tc.turnover)
		if err != nil {
			t.Errorf("SizeFromTurnover(%v) error = %v, want nil", tc.turnover, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SizeFromTurnover(%v) = %s, want %s", tc.turnover, got, tc.want)
		}
	}
}

// TestSizeFromTurnover_Negative rejects negative turnover.
func TestSizeFromTurnover_Negative(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SizeFromTurnover(-1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SizeFromTurnover(-1) error = %v, want ErrInvalidInput", err)
	}
}

// TestEstimate_Deterministic: identical inputs give identical results.
func TestEstimate_Deterministic(t *testing.T) {
	e := newTestEngine(t)

	in := Input{Sector: "TECH", Size: SizeLarge, Risks: RiskInputs{
		Control: RiskHigh, Inherent: RiskLow, Complexity: RiskMedium, InfoDelay: RiskHigh,
	}}
	first, err := e.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := e.Estimate(in)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if again != first {
			t.Fatalf("Estimate() not deterministic: %+v != %+v", again, first)
		}
	}
}

// TestEstimate_MediumRisksIdentity: all-medium ratings leave the baseline
// unchanged (multiplier 1.0).
func TestEstimate_MediumRisksIdentity(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Estimate(Input{Sector: "MFG", Size: SizeMedium, Risks: mediumRisks()})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if res.BaselineHours != 300 {
		t.Errorf("BaselineHours = %d, want 300", res.BaselineHours)
	}
	if res.AdjustedHours != res.BaselineHours {
		t.Errorf("AdjustedHours = %d, want baseline %d", res.AdjustedHours, res.BaselineHours)
	}
	if res.Multiplier != 1.0 {
		t.Errorf("Multiplier = %v, want 1.0", res.Multiplier)
	}
	// medium role split 10/20/30/40 of 300
	want := RoleHours{Partner: 30, Manager: 60, Senior: 90, Staff: 120}
	if res.ByRole != want {
		t.Errorf("ByRole = %+v, want %+v", res.ByRole, want)
	}
	// phase split 20/60/12/8 of 300
	wantPhase := PhaseHours{Planning: 60, Fieldwork: 180, ManagerReview: 36, PartnerReview: 24}
	if res.ByPhase != wantPhase {
		t.Errorf("ByPhase = %+v, want %+v", res.ByPhase, wantPhase)
	}
}

// TestEstimate_LowRiskDiscount: low ratings reduce adjusted hours below the
// baseline.
func TestEstimate_LowRiskDiscount(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Estimate(Input{Sector: "MFG", Size: SizeMedium, Risks: RiskInputs{
		Control: RiskLow, Inherent: RiskLow, Complexity: RiskLow, InfoDelay: RiskLow,
	}})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if res.AdjustedHours >= res.BaselineHours {
		t.Errorf("AdjustedHours = %d, want below baseline %d", res.AdjustedHours, res.BaselineHours)
	}
	// 300 * 0.9^4 = 196.83 -> 197
	if res.AdjustedHours != 197 {
		t.Errorf("AdjustedHours = %d, want 197", res.AdjustedHours)
	}
}

// TestEstimate_HighRiskLoading: high ratings raise adjusted hours.
func TestEstimate_HighRiskLoading(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Estimate(Input{Sector: "MFG", Size: SizeMedium, Risks: RiskInputs{
		Control: RiskHigh, Inherent: RiskHigh, Complexity: RiskHigh, InfoDelay: RiskHigh,
	}})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	// 300 * 1.2^4 = 622.08 -> 622
	if res.AdjustedHours != 622 {
		t.Errorf("AdjustedHours = %d, want 622", res.AdjustedHours)
	}
}

// TestEstimate_AllCatalogPairs: every sector x size pair resolves to a
// non-negative baseline, and the role breakdown sums to the adjusted total.
func TestEstimate_AllCatalogPairs(t *testing.T) {
	e := newTestEngine(t)

	for sector := range e.Tables().Sectors {
		for _, size := range SizeCategories {
			res, err := e.Estimate(Input{Sector: sector, Size: size, Risks: mediumRisks()})
			if err != nil {
				t.Errorf("Estimate(%s, %s) error = %v, want nil", sector, size, err)
				continue
			}
			if res.BaselineHours < 0 {
				t.Errorf("Estimate(%s, %s) baseline = %d, want >= 0", sector, size, res.BaselineHours)
			}
			if got := res.ByRole.Total(); got != res.AdjustedHours {
				t.Errorf("Estimate(%s, %s) role total = %d, want adjusted %d", sector, size, got, res.AdjustedHours)
			}
			if got := res.ByPhase.Total(); got != res.AdjustedHours {
				t.Errorf("Estimate(%s, %s) phase total = %d, want adjusted %d", sector, size, got, res.AdjustedHours)
			}
			if got := res.BaselineByPhase.Total(); got != res.BaselineHours {
				t.Errorf("Estimate(%s, %s) baseline phase total = %d, want %d", sector, size, got, res.BaselineHours)
			}
		}
	}
}

// TestEstimate_InvalidInput: out-of-catalog values fail, never default.
func TestEstimate_InvalidInput(t *testing.T) {
	e := newTestEngine(t)

	cases := []Input{
		{Sector: "BANANA", Size: SizeMedium, Risks: mediumRisks()},
		{Sector: "", Size: SizeMedium, Risks: mediumRisks()},
		{Sector: "MFG", Size: "gigantic", Risks: mediumRisks()},
		{Sector: "MFG", Size: SizeMedium, Risks: RiskInputs{Control: "extreme", Inherent: RiskMedium, Complexity: RiskMedium, InfoDelay: RiskMedium}},
		{Sector: "MFG", Size: SizeMedium, Risks: RiskInputs{Control: RiskMedium, Inherent: RiskMedium, Complexity: RiskMedium, InfoDelay: ""}},
	}
	for _, in := range cases {
		if _, err := e.Estimate(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Estimate(%+v) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

// TestNewEngine_RejectsBrokenTables: an incomplete table set never becomes
// an engine.
func TestNewEngine_RejectsBrokenTables(t *testing.T) {
	tables := Default()
	delete(tables.Baselines["MFG"], SizeLarge)

	if _, err := NewEngine(tables); err == nil {
		t.Error("NewEngine() with missing baseline error = nil, want error")
	}

	tables = Default()
	tables.RoleSplits[SizeSmall] = RoleSplit{Partner: 50, Manager: 50, Senior: 50, Staff: 50}
	if _, err := NewEngine(tables); err == nil {
		t.Error("NewEngine() with bad role split error = nil, want error")
	}
}

// TestEstimate_SubstituteTables: the engine works over injected tables, not
// globals.
func TestEstimate_SubstituteTables(t *testing.T) {
	tables := Tables{
		Sectors:    map[string]SectorInfo{"X": {Name: "Test", Weight: 1}},
		Thresholds: SizeThresholds{MediumFrom: 10, LargeAbove: 20, VeryLargeAbove: 30},
		Baselines: map[string]map[SizeCategory]PhaseHours{
			"X": {
				SizeSmall:     {Planning: 2, Fieldwork: 6, ManagerReview: 1, PartnerReview: 1},
				SizeMedium:    {Planning: 4, Fieldwork: 12, ManagerReview: 2, PartnerReview: 2},
				SizeLarge:     {Planning: 8, Fieldwork: 24, ManagerReview: 4, PartnerReview: 4},
				SizeVeryLarge: {Planning: 16, Fieldwork: 48, ManagerReview: 8, PartnerReview: 8},
			},
		},
		RiskMultipliers: map[RiskLevel]float64{RiskLow: 0.5, RiskMedium: 1, RiskHigh: 2},
		RoleSplits: map[SizeCategory]RoleSplit{
			SizeSmall:     {Partner: 25, Manager: 25, Senior: 25, Staff: 25},
			SizeMedium:    {Partner: 25, Manager: 25, Senior: 25, Staff: 25},
			SizeLarge:     {Partner: 25, Manager: 25, Senior: 25, Staff: 25},
			SizeVeryLarge: {Partner: 25, Manager: 25, Senior: 25, Staff: 25},
		},
		PhaseSplit: PhaseSplit{Planning: 0.2, Fieldwork: 0.6, ManagerReview: 0.12, PartnerReview: 0.08},
	}
	e, err := NewEngine(tables)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	res, err := e.Estimate(Input{Sector: "X", Size: SizeMedium, Risks: RiskInputs{
		Control: RiskHigh, Inherent: RiskMedium, Complexity: RiskMedium, InfoDelay: RiskMedium,
	}})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if res.BaselineHours != 20 || res.AdjustedHours != 40 {
		t.Errorf("got baseline %d adjusted %d, want 20 and 40", res.BaselineHours, res.AdjustedHours)
	}
}
