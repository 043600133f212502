package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/controllers"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/middleware"
)

// Controllers groups the JSON API handlers mounted under /api/v1.
type Controllers struct {
	Auth          *controllers.AuthController
	Faculty       *controllers.FacultyController
	Student       *controllers.StudentController
	Notification  *controllers.NotificationController
	Research      *controllers.ContentController[models.Research]
	Achievement   *controllers.ContentController[models.Achievement]
	Event         *controllers.ContentController[models.Event]
	Certification *controllers.ContentController[models.Certification]
	Health        *controllers.HealthController
}

// contentRoutes is the handler set shared by the content collections.
type contentRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// SetupRouter configures all API routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Health.Ping)

	// API version group
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.Authenticate())

	v1.GET("/health", c.Health.Health)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)

		authenticated := auth.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		authenticated.POST("/logout", c.Auth.Logout)
		authenticated.GET("/me", c.Auth.Me)
	}

	admin := authMiddleware.RequireAdmin()

	faculty := v1.Group("/faculty")
	{
		faculty.GET("", c.Faculty.GetAllFaculty)
		faculty.GET("/:id", c.Faculty.GetFacultyByID)
		faculty.POST("", admin, c.Faculty.CreateFaculty)
		faculty.PUT("/:id", admin, c.Faculty.UpdateFaculty)
		faculty.PATCH("/:id", admin, c.Faculty.UpdateFaculty)
		faculty.DELETE("/:id", admin, c.Faculty.DeleteFaculty)
		faculty.POST("/:id/image", admin, c.Faculty.UploadImage)
	}

	students := v1.Group("/students")
	{
		students.GET("", c.Student.GetAllStudents)
		students.GET("/stats", c.Student.GetStats)
		students.GET("/usn/:usn", c.Student.GetStudentByUSN)
		students.GET("/:id", c.Student.GetStudentByID)
		students.POST("", admin, c.Student.CreateStudent)
		students.PUT("/:id", admin, c.Student.UpdateStudent)
		students.PATCH("/:id", admin, c.Student.UpdateStudent)
		students.DELETE("/:id", admin, c.Student.DeleteStudent)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("/active", c.Notification.GetActive)
		notifications.GET("", c.Notification.GetAllNotifications)
		notifications.GET("/:id", c.Notification.GetNotificationByID)
		notifications.POST("", admin, c.Notification.CreateNotification)
		notifications.PUT("/:id", admin, c.Notification.UpdateNotification)
		notifications.PATCH("/:id", admin, c.Notification.UpdateNotification)
		notifications.DELETE("/:id", admin, c.Notification.DeleteNotification)
	}

	for path, h := range map[string]contentRoutes{
		"/research":       c.Research,
		"/achievements":   c.Achievement,
		"/events":         c.Event,
		"/certifications": c.Certification,
	} {
		g := v1.Group(path)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", admin, h.Create)
		g.PUT("/:id", admin, h.Update)
		g.PATCH("/:id", admin, h.Update)
		g.DELETE("/:id", admin, h.Delete)
	}
}
