package middleware

import (
	"bytes"
	"io"

	"github.com/nysh-work/audit-management/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OperationLogMiddleware records mutating requests of logged-in users to
// the operation_logs table. Reads are not logged.
func OperationLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// read the body so it can be logged, then hand it back
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			return
		}

		var userID *uint
		if user := CurrentUser(c); user != nil {
			id := user.ID
			userID = &id
		}
		if userID == nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			action += " " + string(bodyBytes)
		}

		entry := models.OperationLog{
			UserID:    userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		_ = db.Create(&entry).Error
	}
}
