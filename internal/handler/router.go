package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/middleware"
)

// Handlers groups every HTTP handler registered by Register.
type Handlers struct {
	Meal      *MealHandler
	Visitor   *VisitorHandler
	SelfCheck *SelfCheckHandler
	Holiday   *HolidayHandler
	Employee  *EmployeeHandler
	Logs      *LogHandler
	Stats     *StatsHandler
	Backup    *BackupHandler
	Metrics   *MetricsHandler
}

// Register mounts the reservation API on r. Paths mirror the legacy service
// so existing clients keep working.
func Register(r gin.IRouter, h Handlers, metricsEnabled bool) {
	r.GET("/ping", h.Metrics.Ping)
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if metricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	r.GET("/login_check", h.Employee.LoginCheck)

	r.GET("/meals", h.Meal.List)
	r.POST("/meals", h.Meal.Submit)
	r.POST("/update_meals", middleware.LegacyRoute("/admin/edit_meals"), h.Meal.LegacyUpdate)

	visitors := r.Group("/visitors")
	visitors.GET("", h.Visitor.List)
	visitors.GET("/weekly", h.Visitor.Weekly)
	visitors.GET("/check", h.Visitor.Check)
	visitors.POST("", h.Visitor.Create)
	visitors.PUT("/:id", h.Visitor.Update)
	visitors.DELETE("/:id", h.Visitor.Delete)

	r.GET("/selfcheck", h.SelfCheck.Get)
	r.POST("/selfcheck", h.SelfCheck.Set)

	holidays := r.Group("/holidays")
	holidays.GET("", h.Holiday.List)
	holidays.POST("", h.Holiday.Create)
	holidays.DELETE("", h.Holiday.Delete)
	holidays.POST("/import", h.Holiday.Import)
	holidays.GET("/sync", h.Holiday.LastSync)

	admin := r.Group("/admin")
	admin.GET("/meals", h.Meal.AdminList)
	admin.POST("/edit_meals", h.Meal.AdminEdit)
	admin.GET("/selfcheck", h.SelfCheck.Summary)

	admin.GET("/employees", h.Employee.List)
	admin.POST("/employees", h.Employee.Create)
	admin.PUT("/employees/:id", h.Employee.Update)
	admin.DELETE("/employees/:id", h.Employee.Delete)
	admin.POST("/employees/upload", h.Employee.Upload)
	admin.GET("/employees/template", h.Employee.Template)

	admin.GET("/logs", h.Logs.MealLogs)
	admin.GET("/logs/download", h.Logs.DownloadMealLogs)
	admin.GET("/visitor_logs", h.Logs.VisitorLogs)
	admin.GET("/visitor_logs/download", h.Logs.DownloadVisitorLogs)

	admin.GET("/stats/period", h.Stats.Period)
	admin.GET("/stats/period/excel", h.Stats.PeriodExport)
	admin.GET("/graph/week_trend", h.Stats.WeekTrend)
	admin.GET("/stats/dept_summary", h.Stats.DeptSummary)
	admin.GET("/stats/dept_summary/excel", h.Stats.DeptSummaryExport)
	admin.GET("/stats/weekly_dept", h.Stats.WeeklyDept)
	admin.GET("/stats/weekly_dept/excel", h.Stats.WeeklyDeptExport)
	admin.GET("/stats/pivot_excel", h.Stats.PivotExport)

	admin.GET("/backups", h.Backup.List)
	admin.POST("/backups", h.Backup.Run)
	admin.GET("/db/download", h.Backup.DownloadDB)
}
