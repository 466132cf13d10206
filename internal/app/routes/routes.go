package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kerems/akademix/internal/app/auth"
	"github.com/kerems/akademix/internal/app/controllers"
	"github.com/kerems/akademix/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrls *controllers.Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", ctrls.Auth.Signup)
		authGroup.POST("/login", ctrls.Auth.Login)
		authGroup.POST("/refresh", ctrls.Auth.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/profile", ctrls.Auth.Profile)

	students := authenticated.Group("/students")
	{
		students.GET("", authMiddleware.RequireCapability(auth.CapViewStudents), ctrls.Student.ListStudents)
		students.GET("/:id", authMiddleware.RequireCapability(auth.CapViewStudents), ctrls.Student.GetStudent)

		students.POST("", authMiddleware.RequireCapability(auth.CapManageStudents), ctrls.Student.CreateStudent)
		students.PUT("/:id", authMiddleware.RequireCapability(auth.CapManageStudents), ctrls.Student.UpdateStudent)
		students.DELETE("/:id", authMiddleware.RequireCapability(auth.CapManageStudents), ctrls.Student.DeleteStudent)
	}

	teachers := authenticated.Group("/teachers")
	{
		teachers.GET("", authMiddleware.RequireCapability(auth.CapViewTeachers), ctrls.Teacher.ListTeachers)
		teachers.GET("/:id", authMiddleware.RequireCapability(auth.CapViewTeachers), ctrls.Teacher.GetTeacher)

		teachers.POST("", authMiddleware.RequireCapability(auth.CapManageTeachers), ctrls.Teacher.CreateTeacher)
		teachers.PUT("/:id", authMiddleware.RequireCapability(auth.CapManageTeachers), ctrls.Teacher.UpdateTeacher)
		teachers.DELETE("/:id", authMiddleware.RequireCapability(auth.CapManageTeachers), ctrls.Teacher.DeleteTeacher)
	}

	subjects := authenticated.Group("/subjects")
	{
		subjects.GET("", authMiddleware.RequireCapability(auth.CapViewSubjects), ctrls.Subject.ListSubjects)
		subjects.GET("/:id", authMiddleware.RequireCapability(auth.CapViewSubjects), ctrls.Subject.GetSubject)

		subjects.POST("", authMiddleware.RequireCapability(auth.CapManageSubjects), ctrls.Subject.CreateSubject)
		subjects.PUT("/:id", authMiddleware.RequireCapability(auth.CapManageSubjects), ctrls.Subject.UpdateSubject)
		subjects.DELETE("/:id", authMiddleware.RequireCapability(auth.CapManageSubjects), ctrls.Subject.DeleteSubject)
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("", authMiddleware.RequireCapability(auth.CapViewAttendance), ctrls.Attendance.ListAttendance)
		attendance.GET("/summary", authMiddleware.RequireCapability(auth.CapViewAttendance), ctrls.Attendance.Summarize)

		attendance.POST("", authMiddleware.RequireCapability(auth.CapSubmitAttendance), ctrls.Attendance.SubmitAttendance)
		attendance.PUT("/:id", authMiddleware.RequireCapability(auth.CapSubmitAttendance), ctrls.Attendance.UpdateAttendance)
		attendance.DELETE("/:id", authMiddleware.RequireCapability(auth.CapSubmitAttendance), ctrls.Attendance.DeleteAttendance)
	}

	results := authenticated.Group("/results")
	{
		results.GET("", authMiddleware.RequireCapability(auth.CapViewResults), ctrls.Result.ListResults)
		results.GET("/average-marks", authMiddleware.RequireCapability(auth.CapViewResults), ctrls.Result.AverageMarks)

		results.POST("", authMiddleware.RequireCapability(auth.CapSubmitResult), ctrls.Result.SubmitResult)
	}

	leaves := authenticated.Group("/leaves")
	{
		leaves.GET("", authMiddleware.RequireCapability(auth.CapViewLeaves), ctrls.Leave.ListLeaves)

		leaves.POST("", authMiddleware.RequireCapability(auth.CapRequestOwnLeave), ctrls.Leave.SubmitStudentLeave)
		leaves.POST("/teacher", authMiddleware.RequireCapability(auth.CapRequestLeave), ctrls.Leave.SubmitTeacherLeave)

		// Both sides of the workflow go through one endpoint; the service
		// decides what the caller may touch.
		leaves.PUT("/:id", authMiddleware.RequireCapability(auth.CapViewLeaves), ctrls.Leave.UpdateLeave)
	}

	feedback := authenticated.Group("/feedback")
	{
		feedback.GET("", authMiddleware.RequireCapability(auth.CapViewFeedback), ctrls.Feedback.ListFeedback)

		feedback.POST("", authMiddleware.RequireCapability(auth.CapSubmitFeedback), ctrls.Feedback.SubmitFeedback)
		feedback.PUT("/:id", authMiddleware.RequireCapability(auth.CapReviewFeedback), ctrls.Feedback.UpdateFeedbackStatus)
	}
}
