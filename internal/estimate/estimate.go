// Package estimate computes recommended audit budgets from engagement
// attributes. The computation is a pure lookup-table function: sector and
// size category select a baseline, four risk ratings scale it, and fixed
// percentage tables split the result across phases and roles.
package estimate

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks estimation calls with out-of-catalog values.
var ErrInvalidInput = errors.New("invalid estimation input")

// RiskInputs are the four ordinal risk ratings of an engagement.
type RiskInputs struct {
	Control    RiskLevel `json:"control"`
	Inherent   RiskLevel `json:"inherent"`
	Complexity RiskLevel `json:"complexity"`
	InfoDelay  RiskLevel `json:"info_delay"`
}

// levels returns the ratings in the fixed composition order.
func (r RiskInputs) levels() [4]RiskLevel {
	return [4]RiskLevel{r.Control, r.Inherent, r.Complexity, r.InfoDelay}
}

// Input identifies one engagement for estimation.
type Input struct {
	Sector string       `json:"sector"`
	Size   SizeCategory `json:"size"`
	Risks  RiskInputs   `json:"risks"`
}

// Result is the recommended budget for an Input.
type Result struct {
	Size            SizeCategory `json:"size"`
	BaselineHours   int          `json:"baseline_hours"`
	AdjustedHours   int          `json:"adjusted_hours"`
	Multiplier      float64      `json:"multiplier"`
	BaselineByPhase PhaseHours   `json:"baseline_by_phase"`
	ByPhase         PhaseHours   `json:"by_phase"`
	ByRole          RoleHours    `json:"by_role"`
}

// Engine estimates budgets from a fixed set of tables. It holds no other
// state; identical inputs always produce identical results.
type Engine struct {
	tables Tables
}

// NewEngine validates the tables once and returns an engine over them.
func NewEngine(tables Tables) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: tables}, nil
}

// Tables returns the engine's configuration.
func (e *Engine) Tables() Tables {
	return e.tables
}

// SizeFromTurnover derives the size category from a turnover magnitude.
// A turnover exactly at the small/medium threshold plans as medium; one
// exactly at an upper threshold stays in the lower bracket.
func (e *Engine) SizeFromTurnover(turnover float64) (SizeCategory, error) {
	if turnover < 0 || math.IsNaN(turnover) || math.IsInf(turnover, 0) {
		return "", fmt.Errorf("%w: turnover must be a non-negative number, got %v", ErrInvalidInput, turnover)
	}
	th := e.tables.Thresholds
	switch {
	case turnover < th.MediumFrom:
		return SizeSmall, nil
	case turnover <= th.LargeAbove:
		return SizeMedium, nil
	case turnover <= th.VeryLargeAbove:
		return SizeLarge, nil
	default:
		return SizeVeryLarge, nil
	}
}

// Estimate maps sector, size and risk ratings to a budget recommendation.
//
// The four risk multipliers compose by multiplication in the fixed order
// control, inherent, complexity, information delay. The product is applied
// to the baseline total and rounded half-up to a whole hour exactly once;
// phase and role figures are then carved out of that rounded total, with
// the split remainder landing on fieldwork and staff respectively, so the
// breakdowns always sum back to the adjusted total.
func (e *Engine) Estimate(in Input) (Result, error) {
	bySize, ok := e.tables.Baselines[in.Sector]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown sector %q", ErrInvalidInput, in.Sector)
	}
	baseline, ok := bySize[in.Size]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown size category %q", ErrInvalidInput, in.Size)
	}

	multiplier := 1.0
	for _, level := range in.Risks.levels() {
		m, ok := e.tables.RiskMultipliers[level]
		if !ok {
			return Result{}, fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, level)
		}
		multiplier *= m
	}

	baseTotal := baseline.Total()
	adjusted := roundHalfUp(float64(baseTotal) * multiplier)

	split, ok := e.tables.RoleSplits[in.Size]
	if !ok {
		return Result{}, fmt.Errorf("%w: no role split for size %q", ErrInvalidInput, in.Size)
	}

	return Result{
		Size:            in.Size,
		BaselineHours:   baseTotal,
		AdjustedHours:   adjusted,
		Multiplier:      multiplier,
		BaselineByPhase: baseline,
		ByPhase:         splitPhases(adjusted, e.tables.PhaseSplit),
		ByRole:          splitRoles(adjusted, split),
	}, nil
}

// roundHalfUp rounds to the nearest whole hour, halves away from zero
// toward the larger figure.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// splitPhases carves total hours into phases; the rounding remainder goes
// to fieldwork, the largest share.
func splitPhases(total int, s PhaseSplit) PhaseHours {
	ph := PhaseHours{
		Planning:      roundHalfUp(float64(total) * s.Planning),
		ManagerReview: roundHalfUp(float64(total) * s.ManagerReview),
		PartnerReview: roundHalfUp(float64(total) * s.PartnerReview),
	}
	ph.Fieldwork = total - ph.Planning - ph.ManagerReview - ph.PartnerReview
	return ph
}

// splitRoles carves total hours into roles; the rounding remainder goes to
// staff, the largest share.
func splitRoles(total int, s RoleSplit) RoleHours {
	rh := RoleHours{
		Partner: roundHalfUp(float64(total) * float64(s.Partner) / 100),
		Manager: roundHalfUp(float64(total) * float64(s.Manager) / 100),
		Senior:  roundHalfUp(float64(total) * float64(s.Senior) / 100),
	}
	rh.Staff = total - rh.Partner - rh.Manager - rh.Senior
	return rh
}

// ValidRiskLevel reports whether level is in the catalog.
func ValidRiskLevel(level RiskLevel) bool {
	for _, l := range RiskLevels {
		if l == level {
			return true
		}
	}
	return false
}
