// Package materiality implements the ISA 320 planning-materiality helper:
// pick a benchmark for the entity type, apply a percentage bounded by the
// risk-level matrix, then derive performance materiality and the clearly
// trivial threshold from overall materiality.
package materiality

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks calls with out-of-catalog values or percentages
// outside their allowed band.
var ErrInvalidInput = errors.New("invalid materiality input")

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// EntityType classifies the audited entity for benchmark selection.
type EntityType string

const (
	EntityProfitOriented EntityType = "profit_oriented"
	EntityNotForProfit   EntityType = "not_for_profit"
	EntityDebtFinanced   EntityType = "debt_financed"
	EntityVolatileProfit EntityType = "volatile_profit"
	EntityLiquidityIssue EntityType = "liquidity_issues"
	EntityPublicUtility  EntityType = "public_utility"
)

// Benchmark is the financial figure materiality is computed from.
type Benchmark string

const (
	BenchmarkTotalRevenue    Benchmark = "total_revenue"
	BenchmarkTotalAssets     Benchmark = "total_assets"
	BenchmarkProfitBeforeTax Benchmark = "net_profit_before_tax"
	BenchmarkTotalExpenses   Benchmark = "total_expenses"
	BenchmarkTotalEquity     Benchmark = "total_equity"
	BenchmarkGrossProfit     Benchmark = "gross_profit"
	BenchmarkNetAssetValue   Benchmark = "net_asset_value"
	BenchmarkTotalCost       Benchmark = "total_cost"
	BenchmarkNetCost         Benchmark = "net_cost"
)

// RecommendedBenchmarks maps each entity type to the benchmarks ISA 320
// guidance suggests for it.
var RecommendedBenchmarks = map[EntityType][]Benchmark{
	EntityProfitOriented: {BenchmarkProfitBeforeTax},
	EntityNotForProfit:   {BenchmarkTotalRevenue, BenchmarkTotalExpenses},
	EntityDebtFinanced:   {BenchmarkNetAssetValue},
	EntityVolatileProfit: {BenchmarkTotalRevenue, BenchmarkGrossProfit},
	EntityLiquidityIssue: {BenchmarkTotalEquity},
	EntityPublicUtility:  {BenchmarkTotalCost, BenchmarkNetCost, BenchmarkTotalAssets},
}

// category groups benchmarks that share a row in the range matrix.
type category string

const (
	categoryLiquidity    category = "liquidity"
	categoryProfit       category = "profit"
	categoryNotForProfit category = "not_for_profit"
	categoryGrossProfit  category = "gross_profit"
	categoryTotalRevenue category = "total_revenue"
)

var benchmarkCategory = map[Benchmark]category{
	BenchmarkTotalRevenue:    categoryTotalRevenue,
	BenchmarkProfitBeforeTax: categoryProfit,
	BenchmarkTotalExpenses:   categoryNotForProfit,
	BenchmarkTotalCost:       categoryNotForProfit,
	BenchmarkNetCost:         categoryNotForProfit,
	BenchmarkGrossProfit:     categoryGrossProfit,
	BenchmarkTotalEquity:     categoryLiquidity,
	BenchmarkNetAssetValue:   categoryLiquidity,
	BenchmarkTotalAssets:     categoryLiquidity,
}

// Range is a percentage band, Min..Max inclusive.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether pct lies within the band.
func (r Range) Contains(pct float64) bool {
	return pct >= r.Min && pct <= r.Max
}

// rangeMatrix is the materiality range matrix: higher risk of material
// misstatement pushes toward the lower end of each band.
var rangeMatrix = map[category]map[RiskLevel]Range{
	categoryLiquidity: {
		RiskHigh:   {Min: 2.0, Max: 3.15},
		RiskMedium: {Min: 3.15, Max: 3.85},
		RiskLow:    {Min: 3.85, Max: 5.0},
	},
	categoryProfit: {
		RiskHigh:   {Min: 3.0, Max: 4.0},
		RiskMedium: {Min: 4.0, Max: 5.0},
		RiskLow:    {Min: 5.0, Max: 7.0},
	},
	categoryNotForProfit: {
		RiskHigh:   {Min: 0.5, Max: 0.7},
		RiskMedium: {Min: 0.7, Max: 0.8},
		RiskLow:    {Min: 0.8, Max: 1.0},
	},
	categoryGrossProfit: {
		RiskHigh:   {Min: 1.0, Max: 1.3},
		RiskMedium: {Min: 1.3, Max: 1.6},
		RiskLow:    {Min: 1.6, Max: 2.0},
	},
	categoryTotalRevenue: {
		RiskHigh:   {Min: 0.5, Max: 0.7},
		RiskMedium: {Min: 0.7, Max: 0.8},
		RiskLow:    {Min: 0.8, Max: 1.0},
	},
}

// PercentageRange returns the allowed percentage band for a benchmark at a
// given risk level.
func PercentageRange(benchmark Benchmark, risk RiskLevel) (Range, error) {
	cat, ok := benchmarkCategory[benchmark]
	if !ok {
		return Range{}, fmt.Errorf("%w: unknown benchmark %q", ErrInvalidInput, benchmark)
	}
	byRisk, ok := rangeMatrix[cat]
	if !ok {
		return Range{}, fmt.Errorf("%w: benchmark %q has no matrix row", ErrInvalidInput, benchmark)
	}
	r, ok := byRisk[risk]
	if !ok {
		return Range{}, fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, risk)
	}
	return r, nil
}

// Input is one materiality determination.
type Input struct {
	RiskLevel      RiskLevel  `json:"risk_level"`
	EntityType     EntityType `json:"entity_type"`
	Benchmark      Benchmark  `json:"benchmark"`
	BenchmarkValue float64    `json:"benchmark_value"`

	// Percentage of the benchmark used for overall materiality. Must fall
	// inside the matrix band for the benchmark and risk level.
	Percentage float64 `json:"percentage"`
	// PerformancePercentage of overall materiality, 50..90.
	PerformancePercentage float64 `json:"performance_percentage"`
	// ClearlyTrivialPercentage of overall materiality, 1..5.
	ClearlyTrivialPercentage float64 `json:"clearly_trivial_percentage"`
}

// Result holds the three derived thresholds.
type Result struct {
	OverallMateriality     float64 `json:"overall_materiality"`
	PerformanceMateriality float64 `json:"performance_materiality"`
	ClearlyTrivial         float64 `json:"clearly_trivial"`
	AppliedRange           Range   `json:"applied_range"`
}

// Compute derives overall materiality, performance materiality and the
// clearly trivial threshold. Pure; identical inputs give identical results.
func Compute(in Input) (Result, error) {
	if _, ok := RecommendedBenchmarks[in.EntityType]; !ok {
		return Result{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, in.EntityType)
	}
	if in.BenchmarkValue < 0 {
		return Result{}, fmt.Errorf("%w: benchmark value must be non-negative, got %v", ErrInvalidInput, in.BenchmarkValue)
	}
	band, err := PercentageRange(in.Benchmark, in.RiskLevel)
	if err != nil {
		return Result{}, err
	}
	if !band.Contains(in.Percentage) {
		return Result{}, fmt.Errorf("%w: percentage %.2f outside range %.2f-%.2f for %s at %s risk",
			ErrInvalidInput, in.Percentage, band.Min, band.Max, in.Benchmark, in.RiskLevel)
	}
	if in.PerformancePercentage < 50 || in.PerformancePercentage > 90 {
		return Result{}, fmt.Errorf("%w: performance percentage %.2f outside 50-90", ErrInvalidInput, in.PerformancePercentage)
	}
	if in.ClearlyTrivialPercentage < 1 || in.ClearlyTrivialPercentage > 5 {
		return Result{}, fmt.Errorf("%w: clearly trivial percentage %.2f outside 1-5", ErrInvalidInput, in.ClearlyTrivialPercentage)
	}

	overall := in.BenchmarkValue * in.Percentage / 100
	return Result{
		OverallMateriality:     overall,
		PerformanceMateriality: overall * in.PerformancePercentage / 100,
		ClearlyTrivial:         overall * in.ClearlyTrivialPercentage / 100,
		AppliedRange:           band,
	}, nil
}

// SuggestRiskLevel maps a count of applicable risk factors to a suggested
// overall risk level: ten or more factors suggest high, five or more medium.
func SuggestRiskLevel(selectedFactors int) RiskLevel {
	switch {
	case selectedFactors >= 10:
		return RiskHigh
	case selectedFactors >= 5:
		return RiskMedium
	default:
		return RiskLow
	}
}
