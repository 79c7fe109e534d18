package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nysh-work/audit-management/internal/cloud"
	"github.com/nysh-work/audit-management/internal/middleware"
	"github.com/nysh-work/audit-management/internal/models"
	"github.com/nysh-work/audit-management/internal/store"
	"github.com/nysh-work/audit-management/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler writes snapshot files to the backup directory and restores
// from them. Cloud is nil when no bucket is configured; backups then stay
// local only.
type BackupHandler struct {
	Store *store.Store
	Dir   string
	Cloud *cloud.Manager
}

func NewBackupHandler(s *store.Store, dir string, cm *cloud.Manager) *BackupHandler {
	return &BackupHandler{Store: s, Dir: dir, Cloud: cm}
}

// Create exports a snapshot to a new file and records it. When a bucket is
// configured the file is also copied there; a failed copy does not fail the
// backup, it just leaves the uploaded flag unset.
func (h *BackupHandler) Create(c *gin.Context) {
	data, err := h.Store.ExportSnapshot()
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	name := fmt.Sprintf("backup_%s_%s.json",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	fullPath := filepath.Join(h.Dir, name)

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create backup directory")
		return
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write backup file")
		return
	}

	backup := models.Backup{
		FileName: name,
		FilePath: fullPath,
		Size:     int64(len(data)),
	}
	if user := middleware.CurrentUser(c); user != nil {
		backup.CreatedBy = user.Username
	}

	if h.Cloud != nil {
		if err := h.Cloud.UploadFile(c.Request.Context(), fullPath, name); err == nil {
			backup.Uploaded = true
		}
	}

	if err := h.Store.DB().Create(&backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to record backup")
		return
	}

	util.Success(c, util.Response{"backup": backup})
}

// List returns recorded backups, newest first.
func (h *BackupHandler) List(c *gin.Context) {
	var backups []models.Backup
	if err := h.Store.DB().Order("created_at DESC, id DESC").Find(&backups).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list backups")
		return
	}
	util.Success(c, util.Response{
		"backups": backups,
		"total":   len(backups),
	})
}

func (h *BackupHandler) getBackup(c *gin.Context) (*models.Backup, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var backup models.Backup
	if err := h.Store.DB().First(&backup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load backup")
		}
		return nil, false
	}
	return &backup, true
}

// ensureLocal makes sure the backup file is on disk, fetching it back from
// the bucket when it was uploaded there. On failure it writes the error
// response and returns false.
func (h *BackupHandler) ensureLocal(c *gin.Context, backup *models.Backup) bool {
	if _, err := os.Stat(backup.FilePath); err == nil {
		return true
	}
	if !backup.Uploaded || h.Cloud == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup file missing")
		return false
	}
	ctx := c.Request.Context()
	found, err := h.Cloud.Exists(ctx, backup.FileName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check bucket")
		return false
	}
	if !found {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup file missing from bucket")
		return false
	}
	if err := h.Cloud.DownloadFile(ctx, backup.FileName, backup.FilePath); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch backup from bucket")
		return false
	}
	return true
}

// Download streams one backup file. A file missing locally but marked
// uploaded is fetched back from the bucket first.
func (h *BackupHandler) Download(c *gin.Context) {
	backup, ok := h.getBackup(c)
	if !ok {
		return
	}
	if !h.ensureLocal(c, backup) {
		return
	}
	c.FileAttachment(backup.FilePath, backup.FileName)
}

// Restore replaces all project data with the contents of one backup file.
func (h *BackupHandler) Restore(c *gin.Context) {
	backup, ok := h.getBackup(c)
	if !ok {
		return
	}
	if !h.ensureLocal(c, backup) {
		return
	}

	data, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to read backup file")
		return
	}
	if err := h.Store.ImportSnapshot(data); err != nil {
		respondStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{"restored_from": backup.FileName})
}

// Delete removes a backup record and its local file.
func (h *BackupHandler) Delete(c *gin.Context) {
	backup, ok := h.getBackup(c)
	if !ok {
		return
	}
	if err := h.Store.DB().Delete(&models.Backup{}, backup.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete backup")
		return
	}
	_ = os.Remove(backup.FilePath)
	util.Success(c, nil)
}

// ExportSnapshot returns the snapshot JSON directly, for ad-hoc saves
// without recording a backup.
func (h *BackupHandler) ExportSnapshot(c *gin.Context) {
	data, err := h.Store.ExportSnapshot()
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	name := fmt.Sprintf("snapshot_%s.json", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

const maxSnapshotBytes = 32 << 20

// ImportSnapshot validates an uploaded snapshot and replaces all project
// data with it. A snapshot that fails validation leaves the store untouched.
func (h *BackupHandler) ImportSnapshot(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes+1))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "failed to read request body")
		return
	}
	if len(data) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "empty snapshot")
		return
	}
	if len(data) > maxSnapshotBytes {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "snapshot too large")
		return
	}

	if err := h.Store.ImportSnapshot(data); err != nil {
		respondStoreErr(c, err)
		return
	}
	util.Success(c, nil)
}
