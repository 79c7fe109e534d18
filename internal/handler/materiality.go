package handler

import (
	"errors"
	"net/http"

	"github.com/nysh-work/audit-management/internal/materiality"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// MaterialityHandler serves the ISA 320 planning-materiality helper.
type MaterialityHandler struct{}

func NewMaterialityHandler() *MaterialityHandler {
	return &MaterialityHandler{}
}

// Compute derives the three materiality thresholds from a benchmark value.
func (h *MaterialityHandler) Compute(c *gin.Context) {
	var in materiality.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	result, err := materiality.Compute(in)
	if err != nil {
		if errors.Is(err, materiality.ErrInvalidInput) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
		}
		return
	}

	util.Success(c, util.Response{"materiality": result})
}

// Catalog exposes entity types, their recommended benchmarks, and the
// percentage band for each benchmark/risk pair.
func (h *MaterialityHandler) Catalog(c *gin.Context) {
	ranges := make(map[materiality.Benchmark]map[materiality.RiskLevel]materiality.Range)
	for _, benchmarks := range materiality.RecommendedBenchmarks {
		for _, b := range benchmarks {
			if _, ok := ranges[b]; ok {
				continue
			}
			byRisk := make(map[materiality.RiskLevel]materiality.Range, 3)
			for _, risk := range []materiality.RiskLevel{materiality.RiskLow, materiality.RiskMedium, materiality.RiskHigh} {
				r, err := materiality.PercentageRange(b, risk)
				if err != nil {
					continue
				}
				byRisk[risk] = r
			}
			ranges[b] = byRisk
		}
	}

	util.Success(c, util.Response{
		"entity_types": materiality.RecommendedBenchmarks,
		"ranges":       ranges,
	})
}

type suggestRiskReq struct {
	SelectedFactors int `json:"selected_factors"`
}

// SuggestRisk maps a count of ticked risk factors to a risk level.
func (h *MaterialityHandler) SuggestRisk(c *gin.Context) {
	var req suggestRiskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.SelectedFactors < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "selected_factors must be non-negative")
		return
	}

	util.Success(c, util.Response{
		"risk_level": materiality.SuggestRiskLevel(req.SelectedFactors),
	})
}
