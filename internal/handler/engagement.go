package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// EngagementHandler serves engagement CRUD. Every write runs the
// estimation engine so the stored hour breakdowns never drift from
// turnover, sector and the risk ratings.
type EngagementHandler struct {
	Store  *store.Store
	Engine *estimate.Engine
}

func NewEngagementHandler(s *store.Store, engine *estimate.Engine) *EngagementHandler {
	return &EngagementHandler{Store: s, Engine: engine}
}

type engagementReq struct {
	Name           string  `json:"name" binding:"required,max=128"`
	ClientName     string  `json:"client_name" binding:"max=128"`
	Sector         string  `json:"sector" binding:"required"`
	Turnover       float64 `json:"turnover"`
	ControlRisk    string  `json:"control_risk" binding:"required"`
	InherentRisk   string  `json:"inherent_risk" binding:"required"`
	ComplexityRisk string  `json:"complexity_risk" binding:"required"`
	InfoDelayRisk  string  `json:"info_delay_risk" binding:"required"`
	TotalBudget    float64 `json:"total_budget"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Status         string  `json:"status"`
}

// apply copies request fields into the model and fills the derived hour
// fields from a fresh estimation.
func (h *EngagementHandler) apply(e *models.Engagement, req engagementReq) error {
	if err := util.ValidateTurnover(req.Turnover); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	size, err := h.Engine.SizeFromTurnover(req.Turnover)
	if err != nil {
		return err
	}
	result, err := h.Engine.Estimate(estimate.Input{
		Sector: req.Sector,
		Size:   size,
		Risks: estimate.RiskInputs{
			Control:    estimate.RiskLevel(req.ControlRisk),
			Inherent:   estimate.RiskLevel(req.InherentRisk),
			Complexity: estimate.RiskLevel(req.ComplexityRisk),
			InfoDelay:  estimate.RiskLevel(req.InfoDelayRisk),
		},
	})
	if err != nil {
		return err
	}

	var start, end *time.Time
	if req.StartDate != "" {
		t, err := util.ParseDate(req.StartDate)
		if err != nil {
			return fmt.Errorf("%w: start_date: %v", store.ErrValidation, err)
		}
		start = &t
	}
	if req.EndDate != "" {
		t, err := util.ParseDate(req.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date: %v", store.ErrValidation, err)
		}
		end = &t
	}

	e.Name = req.Name
	e.ClientName = req.ClientName
	e.Sector = req.Sector
	e.Turnover = req.Turnover
	e.SizeCategory = string(size)
	e.ControlRisk = req.ControlRisk
	e.InherentRisk = req.InherentRisk
	e.ComplexityRisk = req.ComplexityRisk
	e.InfoDelayRisk = req.InfoDelayRisk
	e.BaselineHours = result.BaselineHours
	e.AdjustedHours = result.AdjustedHours
	e.PlanningHours = result.ByPhase.Planning
	e.FieldworkHours = result.ByPhase.Fieldwork
	e.ManagerReviewHours = result.ByPhase.ManagerReview
	e.PartnerReviewHours = result.ByPhase.PartnerReview
	e.PartnerHours = result.ByRole.Partner
	e.ManagerHours = result.ByRole.Manager
	e.SeniorHours = result.ByRole.Senior
	e.StaffHours = result.ByRole.Staff
	e.TotalBudget = req.TotalBudget
	e.StartDate = start
	e.EndDate = end
	if req.Status != "" {
		e.Status = req.Status
	} else if e.Status == "" {
		e.Status = models.StatusPlanned
	}
	return nil
}

func (h *EngagementHandler) Create(c *gin.Context) {
	var req engagementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var e models.Engagement
	if err := h.apply(&e, req); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.CreateEngagement(&e); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"engagement": e})
}

func (h *EngagementHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.Store.GetEngagement(id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{"engagement": e})
}

func (h *EngagementHandler) List(c *gin.Context) {
	list, err := h.Store.ListEngagements()
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"engagements": list,
		"total":       len(list),
	})
}

func (h *EngagementHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req engagementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	e, err := h.Store.GetEngagement(id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.apply(e, req); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.UpdateEngagement(e); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"engagement": e})
}

func (h *EngagementHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteEngagement(id); err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, nil)
}

type estimateReq struct {
	Sector         string  `json:"sector" binding:"required"`
	Turnover       float64 `json:"turnover"`
	ControlRisk    string  `json:"control_risk" binding:"required"`
	InherentRisk   string  `json:"inherent_risk" binding:"required"`
	ComplexityRisk string  `json:"complexity_risk" binding:"required"`
	InfoDelayRisk  string  `json:"info_delay_risk" binding:"required"`
}

// Estimate runs the engine without persisting anything, for previewing a
// budget while the engagement form is still being filled in.
func (h *EngagementHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateTurnover(req.Turnover); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	size, err := h.Engine.SizeFromTurnover(req.Turnover)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	result, err := h.Engine.Estimate(estimate.Input{
		Sector: req.Sector,
		Size:   size,
		Risks: estimate.RiskInputs{
			Control:    estimate.RiskLevel(req.ControlRisk),
			Inherent:   estimate.RiskLevel(req.InherentRisk),
			Complexity: estimate.RiskLevel(req.ComplexityRisk),
			InfoDelay:  estimate.RiskLevel(req.InfoDelayRisk),
		},
	})
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"estimate": result})
}

// Catalog exposes the sector, size, risk and phase catalogs so clients can
// build selection lists without hard-coding them.
func (h *EngagementHandler) Catalog(c *gin.Context) {
	tables := h.Engine.Tables()
	util.Success(c, util.Response{
		"sectors":     tables.Sectors,
		"sizes":       estimate.SizeCategories,
		"risk_levels": estimate.RiskLevels,
		"phases":      models.Phases,
		"statuses":    models.EngagementStatuses,
	})
}
