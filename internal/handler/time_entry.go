package handler

import (
	"fmt"
	"net/http"

	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// TimeEntryHandler serves logged-hours CRUD under an engagement.
type TimeEntryHandler struct {
	Store *store.Store
}

func NewTimeEntryHandler(s *store.Store) *TimeEntryHandler {
	return &TimeEntryHandler{Store: s}
}

type timeEntryReq struct {
	Member      string  `json:"member" binding:"required,max=64"`
	Phase       string  `json:"phase" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description" binding:"max=255"`
}

func (req timeEntryReq) apply(entry *models.TimeEntry) error {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	entry.Member = req.Member
	entry.Phase = req.Phase
	entry.Date = date
	entry.Hours = req.Hours
	entry.Description = req.Description
	return nil
}

func (h *TimeEntryHandler) Create(c *gin.Context) {
	engagementID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req timeEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	entry := models.TimeEntry{EngagementID: engagementID}
	if err := req.apply(&entry); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.AddTimeEntry(&entry); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"time_entry": entry})
}

func (h *TimeEntryHandler) List(c *gin.Context) {
	engagementID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.Store.ListTimeEntries(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	util.Success(c, util.Response{
		"time_entries": entries,
		"total":        len(entries),
		"total_hours":  total,
	})
}

func (h *TimeEntryHandler) Update(c *gin.Context) {
	entryID, ok := parseID(c, "entryId")
	if !ok {
		return
	}
	var req timeEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	entry, err := h.Store.GetTimeEntry(entryID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := req.apply(entry); err != nil {
		respondStoreErr(c, err)
		return
	}
	if err := h.Store.UpdateTimeEntry(entry); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"time_entry": entry})
}

func (h *TimeEntryHandler) Delete(c *gin.Context) {
	entryID, ok := parseID(c, "entryId")
	if !ok {
		return
	}
	if err := h.Store.DeleteTimeEntry(entryID); err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, nil)
}
