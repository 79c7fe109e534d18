package router

import (
	"github.com/nysh-work/audit-management/internal/cloud"
	"github.com/nysh-work/audit-management/internal/config"
	"github.com/nysh-work/audit-management/internal/estimate"
	"github.com/nysh-work/audit-management/internal/handler"
	"github.com/nysh-work/audit-management/internal/middleware"
	"github.com/nysh-work/audit-management/internal/report"
	"github.com/nysh-work/audit-management/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and all API routes. cm is nil when no
// cloud bucket is configured.
func Setup(cfg *config.Config, db *gorm.DB, s *store.Store, engine *estimate.Engine, cm *cloud.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.OperationLogMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	engagementHandler := handler.NewEngagementHandler(s, engine)
	protected.POST("/engagements", engagementHandler.Create)
	protected.GET("/engagements", engagementHandler.List)
	protected.GET("/engagements/:id", engagementHandler.Get)
	protected.PUT("/engagements/:id", engagementHandler.Update)
	protected.DELETE("/engagements/:id", engagementHandler.Delete)
	protected.POST("/estimate", engagementHandler.Estimate)
	protected.GET("/catalog", engagementHandler.Catalog)

	timeEntryHandler := handler.NewTimeEntryHandler(s)
	protected.POST("/engagements/:id/time-entries", timeEntryHandler.Create)
	protected.GET("/engagements/:id/time-entries", timeEntryHandler.List)
	protected.PUT("/time-entries/:entryId", timeEntryHandler.Update)
	protected.DELETE("/time-entries/:entryId", timeEntryHandler.Delete)

	teamHandler := handler.NewTeamHandler(s)
	protected.POST("/team-members", teamHandler.Create)
	protected.GET("/team-members", teamHandler.List)
	protected.GET("/team-members/:id", teamHandler.Get)
	protected.PUT("/team-members/:id", teamHandler.Update)
	protected.DELETE("/team-members/:id", teamHandler.Delete)

	scheduleHandler := handler.NewScheduleHandler(s)
	protected.POST("/schedule", scheduleHandler.Create)
	protected.GET("/schedule", scheduleHandler.List)
	protected.PUT("/schedule/:id", scheduleHandler.Update)
	protected.DELETE("/schedule/:id", scheduleHandler.Delete)

	reportHandler := handler.NewReportHandler(report.New(s))
	protected.GET("/engagements/:id/report", reportHandler.Project)
	protected.GET("/reports/team", reportHandler.Team)

	materialityHandler := handler.NewMaterialityHandler()
	protected.POST("/materiality", materialityHandler.Compute)
	protected.GET("/materiality/catalog", materialityHandler.Catalog)
	protected.POST("/materiality/suggest-risk", materialityHandler.SuggestRisk)

	exportHandler := handler.NewExportHandler(s)
	protected.GET("/export/engagements/csv", exportHandler.EngagementsCSV)
	protected.GET("/export/engagements/xlsx", exportHandler.EngagementsXLSX)
	protected.GET("/export/engagements/:id/time-entries/csv", exportHandler.TimeEntriesCSV)
	protected.GET("/export/engagements/:id/time-entries/xlsx", exportHandler.TimeEntriesXLSX)

	// backup, restore and raw snapshots replace whole datasets, so they
	// are gated on the admin role
	admin := protected.Group("")
	admin.Use(middleware.RequireRole("admin"))

	backupHandler := handler.NewBackupHandler(s, cfg.Backup.Dir, cm)
	admin.POST("/backups", backupHandler.Create)
	admin.GET("/backups", backupHandler.List)
	admin.GET("/backups/:id/download", backupHandler.Download)
	admin.POST("/backups/:id/restore", backupHandler.Restore)
	admin.DELETE("/backups/:id", backupHandler.Delete)
	admin.GET("/snapshot", backupHandler.ExportSnapshot)
	admin.POST("/snapshot", backupHandler.ImportSnapshot)

	logHandler := handler.NewLogHandler(db)
	admin.GET("/logs", logHandler.List)

	return r
}
