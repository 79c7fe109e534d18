package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams engagement budgets and time entries as CSV or XLSX.
type ExportHandler struct {
	Store *store.Store
}

func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{Store: s}
}

var engagementHeaders = []string{
	"Name", "Client", "Sector", "Turnover", "Size",
	"Control Risk", "Inherent Risk", "Complexity Risk", "Info Delay Risk",
	"Baseline Hours", "Adjusted Hours",
	"Planning", "Fieldwork", "Manager Review", "Partner Review",
	"Partner", "Manager", "Senior", "Staff",
	"Fee Budget", "Status",
}

func engagementRow(e models.Engagement) []string {
	return []string{
		e.Name,
		e.ClientName,
		e.Sector,
		strconv.FormatFloat(e.Turnover, 'f', 2, 64),
		e.SizeCategory,
		e.ControlRisk,
		e.InherentRisk,
		e.ComplexityRisk,
		e.InfoDelayRisk,
		strconv.Itoa(e.BaselineHours),
		strconv.Itoa(e.AdjustedHours),
		strconv.Itoa(e.PlanningHours),
		strconv.Itoa(e.FieldworkHours),
		strconv.Itoa(e.ManagerReviewHours),
		strconv.Itoa(e.PartnerReviewHours),
		strconv.Itoa(e.PartnerHours),
		strconv.Itoa(e.ManagerHours),
		strconv.Itoa(e.SeniorHours),
		strconv.Itoa(e.StaffHours),
		strconv.FormatFloat(e.TotalBudget, 'f', 2, 64),
		e.Status,
	}
}

// EngagementsCSV exports all engagement budgets as CSV.
func (h *ExportHandler) EngagementsCSV(c *gin.Context) {
	list, err := h.Store.ListEngagements()
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"engagements_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(engagementHeaders)
	for _, e := range list {
		writer.Write(engagementRow(e))
	}
}

// EngagementsXLSX exports all engagement budgets as a spreadsheet.
func (h *ExportHandler) EngagementsXLSX(c *gin.Context) {
	list, err := h.Store.ListEngagements()
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Engagements"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range engagementHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for idx, e := range list {
		for col, value := range engagementRow(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "C", "U", 14)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"engagements_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write spreadsheet")
	}
}

var timeEntryHeaders = []string{"Member", "Phase", "Date", "Hours", "Description"}

// TimeEntriesCSV exports one engagement's logged hours as CSV.
func (h *ExportHandler) TimeEntriesCSV(c *gin.Context) {
	engagementID, ok := parseID(c, "id")
	if !ok {
		return
	}
	engagement, err := h.Store.GetEngagement(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	entries, err := h.Store.ListTimeEntries(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"time_%d_%s.csv\"",
		engagement.ID, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(timeEntryHeaders)
	for _, e := range entries {
		writer.Write([]string{
			e.Member,
			e.Phase,
			e.Date.Format("2006-01-02"),
			strconv.FormatFloat(e.Hours, 'f', 2, 64),
			e.Description,
		})
	}
}

// TimeEntriesXLSX exports one engagement's logged hours as a spreadsheet.
func (h *ExportHandler) TimeEntriesXLSX(c *gin.Context) {
	engagementID, ok := parseID(c, "id")
	if !ok {
		return
	}
	engagement, err := h.Store.GetEngagement(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	entries, err := h.Store.ListTimeEntries(engagementID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Time Entries"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range timeEntryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for idx, e := range entries {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Member)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Phase)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Hours)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Description)
	}
	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 36)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"time_%d_%s.xlsx\"",
		engagement.ID, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write spreadsheet")
	}
}
