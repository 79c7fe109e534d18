package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves schedule bookings of team members on engagements.
type ScheduleHandler struct {
	Store *store.Store
}

func NewScheduleHandler(s *store.Store) *ScheduleHandler {
	return &ScheduleHandler{Store: s}
}

type scheduleReq struct {
	EngagementID uint    `json:"engagement_id" binding:"required"`
	TeamMemberID uint    `json:"team_member_id" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	HoursPerDay  float64 `json:"hours_per_day"`
	Phase        string  `json:"phase" binding:"required"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
}

func (req scheduleReq) apply(e *models.ScheduleEntry) error {
	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date: %v", store.ErrValidation, err)
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end_date: %v", store.ErrValidation, err)
	}
	e.EngagementID = req.EngagementID
	e.TeamMemberID = req.TeamMemberID
	e.StartDate = start
	e.EndDate = end
	e.HoursPerDay = req.HoursPerDay
	if e.HoursPerDay == 0 {
		e.HoursPerDay = 8
	}
	e.Phase = req.Phase
	if req.Status != "" {
		e.Status = req.Status
	} else if e.Status == "" {
		e.Status = "scheduled"
	}
	e.Notes = req.Notes
	return nil
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var e models.ScheduleEntry
	if err := req.apply(&e); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.CreateScheduleEntry(&e); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"schedule_entry": e})
}

// List returns schedule entries, optionally filtered to one engagement via
// the engagement_id query parameter.
func (h *ScheduleHandler) List(c *gin.Context) {
	var engagementID uint
	if raw := c.Query("engagement_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid engagement_id")
			return
		}
		engagementID = uint(id)
	}
	list, err := h.Store.ListScheduleEntries(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"schedule_entries": list,
		"total":            len(list),
	})
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	e := models.ScheduleEntry{ID: id}
	if err := req.apply(&e); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.UpdateScheduleEntry(&e); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"schedule_entry": e})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteScheduleEntry(id); err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, nil)
}
