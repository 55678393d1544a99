package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack-api/internal/middleware"
	"github.com/classtrack/classtrack-api/internal/service"
)

// Routes bundles the handlers and services needed for registration.
type Routes struct {
	Auth       *AuthHandler
	Students   *StudentHandler
	Classes    *ClassHandler
	Attendance *AttendanceHandler
	Summary    *SummaryHandler
	Dashboard  *DashboardHandler

	AuthService *service.AuthService
}

// Register mounts all API routes under the given prefix. Everything
// except login requires a valid access token.
func Register(r *gin.Engine, prefix string, routes Routes) {
	api := r.Group(prefix)

	api.POST("/auth/login", routes.Auth.Login)

	// Authenticated by the signed token embedded in the link.
	api.GET("/export/download", routes.Summary.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(routes.AuthService))

	protected.GET("/students", routes.Students.List)
	protected.POST("/students", routes.Students.Create)

	protected.GET("/classes", routes.Classes.List)
	protected.POST("/classes", routes.Classes.Create)
	protected.GET("/classes/:id/roster", routes.Classes.Roster)

	protected.GET("/attendance", routes.Attendance.List)
	protected.POST("/attendance", routes.Attendance.Mark)

	protected.GET("/summary", routes.Summary.Overall)
	protected.GET("/summary/export", routes.Summary.Export)
	protected.GET("/summary/export/link", routes.Summary.ExportLink)

	protected.GET("/dashboard", routes.Dashboard.Stats)
}
