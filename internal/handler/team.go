package handler

import (
	"net/http"

	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// TeamHandler serves team member CRUD.
type TeamHandler struct {
	Store *store.Store
}

func NewTeamHandler(s *store.Store) *TeamHandler {
	return &TeamHandler{Store: s}
}

type teamMemberReq struct {
	Name              string  `json:"name" binding:"required,max=64"`
	Role              string  `json:"role" binding:"required"`
	Skills            string  `json:"skills" binding:"max=255"`
	AvailabilityHours float64 `json:"availability_hours"`
	HourlyRate        float64 `json:"hourly_rate"`
	Notes             string  `json:"notes"`
}

func (req teamMemberReq) apply(m *models.TeamMember) {
	m.Name = req.Name
	m.Role = req.Role
	m.Skills = req.Skills
	m.AvailabilityHours = req.AvailabilityHours
	m.HourlyRate = req.HourlyRate
	m.Notes = req.Notes
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req teamMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var m models.TeamMember
	req.apply(&m)
	if err := h.Store.CreateTeamMember(&m); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"team_member": m})
}

func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.Store.GetTeamMember(id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{"team_member": m})
}

func (h *TeamHandler) List(c *gin.Context) {
	list, err := h.Store.ListTeamMembers()
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"team_members": list,
		"total":        len(list),
	})
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req teamMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	m, err := h.Store.GetTeamMember(id)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	req.apply(m)
	if err := h.Store.UpdateTeamMember(m); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"team_member": m})
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteTeamMember(id); err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, nil)
}
