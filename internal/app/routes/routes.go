package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/presentapp/present/internal/app/controllers"
	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	catalogController *controllers.CatalogController,
	submissionController *controllers.SubmissionController,
	activityController *controllers.ActivityController,
	attendanceController *controllers.AttendanceController,
	uploadController *controllers.UploadController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Everything else requires a valid token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		staff := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher)
		adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

		// User management
		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.GET("/:id", userController.GetUser)
			users.GET("", staff, userController.ListUsers)
			users.POST("", adminOnly, userController.CreateUser)
			users.PUT("/:id/profile", adminOnly, userController.UpsertProfile)
			users.DELETE("/:id", adminOnly, userController.DeleteUser)
		}

		// Catalog hierarchy
		catalog := authenticated.Group("/catalog")
		{
			catalog.GET("/school-years", catalogController.ListSchoolYears)
			catalog.GET("/tree", catalogController.GetTree)

			catalogAdmin := catalog.Group("", adminOnly)
			{
				catalogAdmin.POST("/school-years", catalogController.CreateSchoolYear)
				catalogAdmin.POST("/semesters", catalogController.CreateSemester)
				catalogAdmin.POST("/grade-levels", catalogController.CreateGradeLevel)
				catalogAdmin.POST("/sections", catalogController.CreateSection)
				catalogAdmin.POST("/subjects", catalogController.CreateSubject)
				catalogAdmin.PUT("/:level/:id", catalogController.RenameEntity)
				catalogAdmin.DELETE("/:level/:id", catalogController.DeleteEntity)
			}
		}

		// Subject memberships, folders and attendance listings
		subjects := authenticated.Group("/subjects")
		{
			subjects.GET("/:subjectId/instructors", catalogController.ListInstructors)
			subjects.GET("/:subjectId/students", catalogController.ListStudents)
			subjects.GET("/:subjectId/folders", submissionController.ListFolders)
			subjects.GET("/:subjectId/attendance", staff, attendanceController.ListSessions)

			subjectsAdmin := subjects.Group("", adminOnly)
			{
				subjectsAdmin.POST("/:subjectId/instructors", catalogController.AssignInstructor)
				subjectsAdmin.DELETE("/:subjectId/instructors/:userId", catalogController.RemoveInstructor)
				subjectsAdmin.POST("/:subjectId/students", catalogController.AssignStudent)
				subjectsAdmin.DELETE("/:subjectId/students/:userId", catalogController.RemoveStudent)
			}
		}

		// Folders and submission tasks
		folders := authenticated.Group("/folders")
		{
			folders.GET("/:folderId/submissions", submissionController.ListTasks)
			folders.GET("/:folderId/submissions/status", submissionController.ListTaskStatuses)

			foldersStaff := folders.Group("", staff)
			{
				foldersStaff.DELETE("/:folderId", submissionController.DeleteFolder)
			}
		}
		authenticated.POST("/folders", staff, submissionController.CreateFolder)

		submissions := authenticated.Group("/submissions")
		{
			submissions.POST("", staff, submissionController.CreateTask)
			submissions.GET("/:id/attempts", submissionController.ListAttempts)
			submissions.GET("/:id/status", submissionController.GetTaskStatus)
			submissions.POST("/:id/attempts",
				authMiddleware.RoleRequired(models.RoleStudent),
				submissionController.SubmitAttempt)
		}

		authenticated.PUT("/attempts/:attemptId/grade", staff, submissionController.GradeAttempt)

		// Attendance
		attendance := authenticated.Group("/attendance", staff)
		{
			attendance.POST("/sessions", attendanceController.CreateSession)
			attendance.POST("/sessions/:id/marks", attendanceController.Mark)
			attendance.GET("/sessions/:id/marks", attendanceController.ListRecords)
		}

		// File uploads
		authenticated.POST("/uploads", uploadController.Upload)

		// Audit trail
		authenticated.GET("/activities", staff, activityController.ListActivities)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
