package estimate

import "fmt"

// Catalog values. Anything outside these catalogs is rejected with
// ErrInvalidInput, never silently defaulted.

type SizeCategory string

const (
	SizeSmall     SizeCategory = "small"
	SizeMedium    SizeCategory = "medium"
	SizeLarge     SizeCategory = "large"
	SizeVeryLarge SizeCategory = "very_large"
)

// SizeCategories lists the catalog in ascending turnover order.
var SizeCategories = []SizeCategory{SizeSmall, SizeMedium, SizeLarge, SizeVeryLarge}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// SectorInfo describes one industry sector. Weight scales the per-size base
// hours into that sector's baseline.
type SectorInfo struct {
	Name   string
	Weight float64
}

// PhaseHours is an hour figure broken down by audit phase.
type PhaseHours struct {
	Planning      int `json:"planning"`
	Fieldwork     int `json:"fieldwork"`
	ManagerReview int `json:"manager_review"`
	PartnerReview int `json:"partner_review"`
}

// Total returns the sum over all phases.
func (p PhaseHours) Total() int {
	return p.Planning + p.Fieldwork + p.ManagerReview + p.PartnerReview
}

// RoleHours is an hour figure broken down by role.
type RoleHours struct {
	Partner int `json:"partner"`
	Manager int `json:"manager"`
	Senior  int `json:"senior"`
	Staff   int `json:"staff"`
}

// Total returns the sum over all roles.
func (r RoleHours) Total() int {
	return r.Partner + r.Manager + r.Senior + r.Staff
}

// RoleSplit holds whole-number percentages that must sum to 100.
type RoleSplit struct {
	Partner int
	Manager int
	Senior  int
	Staff   int
}

// PhaseSplit holds the fractions of total hours spent per phase.
type PhaseSplit struct {
	Planning      float64
	Fieldwork     float64
	ManagerReview float64
	PartnerReview float64
}

// SizeThresholds are the turnover boundaries between size categories.
// A turnover exactly equal to MediumFrom plans as medium; a turnover exactly
// equal to LargeAbove or VeryLargeAbove stays in the lower bracket, so e.g.
// with the defaults 10M is medium, 50M is medium and 250M is large.
type SizeThresholds struct {
	MediumFrom     float64 // small below this, inclusive lower bound of medium
	LargeAbove     float64 // large strictly above this
	VeryLargeAbove float64 // very large strictly above this
}

// Tables is the full static configuration of the estimation engine. It is
// built once (usually via Default) and passed into NewEngine, never mutated.
type Tables struct {
	Sectors         map[string]SectorInfo
	Thresholds      SizeThresholds
	Baselines       map[string]map[SizeCategory]PhaseHours
	RiskMultipliers map[RiskLevel]float64
	RoleSplits      map[SizeCategory]RoleSplit
	PhaseSplit      PhaseSplit
}

// sector catalog with per-sector effort weights
var defaultSectors = map[string]SectorInfo{
	"MFG":   {Name: "Manufacturing", Weight: 1.0},
	"RET":   {Name: "Retail", Weight: 0.9},
	"TECH":  {Name: "Technology", Weight: 1.2},
	"FIN":   {Name: "Financial Services", Weight: 1.3},
	"HLTH":  {Name: "Healthcare", Weight: 1.1},
	"CONS":  {Name: "Construction", Weight: 1.0},
	"REAL":  {Name: "Real Estate", Weight: 0.9},
	"HOSP":  {Name: "Hospitality", Weight: 0.8},
	"TRAN":  {Name: "Transportation", Weight: 1.0},
	"ENER":  {Name: "Energy", Weight: 1.2},
	"TELE":  {Name: "Telecommunications", Weight: 1.1},
	"AGRI":  {Name: "Agriculture", Weight: 0.9},
	"PHAR":  {Name: "Pharmaceuticals", Weight: 1.3},
	"MEDIA": {Name: "Media & Entertainment", Weight: 1.0},
	"EDU":   {Name: "Education", Weight: 0.8},
	"NPO":   {Name: "Non-Profit", Weight: 0.7},
}

// base total hours per size category, before the sector weight
var defaultSizeBase = map[SizeCategory]int{
	SizeSmall:     200,
	SizeMedium:    300,
	SizeLarge:     400,
	SizeVeryLarge: 600,
}

// Default returns the compiled-in tables. The baseline table is expanded
// here so that every sector x size pair resolves without a fallback.
func Default() Tables {
	t := Tables{
		Sectors: defaultSectors,
		Thresholds: SizeThresholds{
			MediumFrom:     10_000_000,
			LargeAbove:     50_000_000,
			VeryLargeAbove: 250_000_000,
		},
		Baselines: make(map[string]map[SizeCategory]PhaseHours, len(defaultSectors)),
		RiskMultipliers: map[RiskLevel]float64{
			RiskLow:    0.90,
			RiskMedium: 1.00,
			RiskHigh:   1.20,
		},
		RoleSplits: map[SizeCategory]RoleSplit{
			SizeSmall:     {Partner: 8, Manager: 15, Senior: 32, Staff: 45},
			SizeMedium:    {Partner: 10, Manager: 20, Senior: 30, Staff: 40},
			SizeLarge:     {Partner: 12, Manager: 22, Senior: 30, Staff: 36},
			SizeVeryLarge: {Partner: 14, Manager: 24, Senior: 30, Staff: 32},
		},
		PhaseSplit: PhaseSplit{
			Planning:      0.20,
			Fieldwork:     0.60,
			ManagerReview: 0.12,
			PartnerReview: 0.08,
		},
	}

	for code, info := range defaultSectors {
		bySize := make(map[SizeCategory]PhaseHours, len(SizeCategories))
		for _, size := range SizeCategories {
			total := roundHalfUp(float64(defaultSizeBase[size]) * info.Weight)
			bySize[size] = splitPhases(total, t.PhaseSplit)
		}
		t.Baselines[code] = bySize
	}
	return t
}

// Validate checks the tables are complete and internally consistent, so the
// engine can assume every in-catalog lookup resolves.
func (t Tables) Validate() error {
	if len(t.Sectors) == 0 {
		return fmt.Errorf("tables: no sectors")
	}
	if !(t.Thresholds.MediumFrom < t.Thresholds.LargeAbove && t.Thresholds.LargeAbove < t.Thresholds.VeryLargeAbove) {
		return fmt.Errorf("tables: size thresholds not strictly increasing")
	}
	for code := range t.Sectors {
		bySize, ok := t.Baselines[code]
		if !ok {
			return fmt.Errorf("tables: sector %s has no baseline row", code)
		}
		for _, size := range SizeCategories {
			ph, ok := bySize[size]
			if !ok {
				return fmt.Errorf("tables: sector %s missing baseline for size %s", code, size)
			}
			if ph.Total() < 0 {
				return fmt.Errorf("tables: sector %s size %s has negative baseline", code, size)
			}
		}
	}
	for _, level := range RiskLevels {
		if _, ok := t.RiskMultipliers[level]; !ok {
			return fmt.Errorf("tables: missing risk multiplier for %s", level)
		}
	}
	for _, size := range SizeCategories {
		split, ok := t.RoleSplits[size]
		if !ok {
			return fmt.Errorf("tables: missing role split for size %s", size)
		}
		if sum := split.Partner + split.Manager + split.Senior + split.Staff; sum != 100 {
			return fmt.Errorf("tables: role split for size %s sums to %d, want 100", size, sum)
		}
	}
	if s := t.PhaseSplit.Planning + t.PhaseSplit.Fieldwork + t.PhaseSplit.ManagerReview + t.PhaseSplit.PartnerReview; s < 0.999 || s > 1.001 {
		return fmt.Errorf("tables: phase split sums to %.3f, want 1.0", s)
	}
	return nil
}
