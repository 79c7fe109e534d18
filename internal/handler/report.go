package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nysh-work/audit-management/internal/report"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the per-project and per-team aggregate reports.
type ReportHandler struct {
	Reports *report.Aggregator
}

func NewReportHandler(a *report.Aggregator) *ReportHandler {
	return &ReportHandler{Reports: a}
}

// Project returns allocated versus logged hours for one engagement.
func (h *ReportHandler) Project(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rep, err := h.Reports.Project(id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{"report": rep})
}

// Team returns per-member logged hours over a date range. The range
// defaults to the last 30 days when from/to are omitted.
func (h *ReportHandler) Team(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		t, err := util.ParseDate(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid from date")
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := util.ParseDate(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid to date")
			return
		}
		to = t
	}
	if to.Before(from) {
		respondStoreErr(c, fmt.Errorf("%w: to date before from date", store.ErrValidation))
		return
	}

	rep, err := h.Reports.Team(from, to)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"members": rep,
	})
}
