package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter, responding 400 itself
// when the value is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondStoreErr maps repository and engine errors onto the response
// envelope: validation and bad input become 400, missing rows 404, and
// anything else a 500.
func respondStoreErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation), errors.Is(err, estimate.ErrInvalidInput):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, store.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, store.ErrRestoreIntegrity):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}
