package http

import (
	"github.com/gin-gonic/gin"
)

func InitRouter(handler *Handler) *gin.Engine {
	r := gin.Default()

	// Serve uploaded assignment files
	r.Static("/uploads", "./uploads")

	// Public Routes
	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)

		api.GET("/courses", handler.ListCourses)
		api.GET("/courses/:id", handler.GetCourse)
		api.GET("/courses/:id/reviews", handler.ListCourseReviews)

		api.GET("/badges", handler.ListBadges)
		api.GET("/badges/:id", handler.GetBadge)

		api.GET("/certificates/verify/:certificateId", handler.VerifyCertificate)

		// Gateway callbacks authenticate with an HMAC signature, not a JWT
		api.POST("/payments/webhook", handler.PaymentWebhook)
	}

	// Protected Routes (any authenticated user)
	protected := api.Group("/")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/auth/me", handler.Me)
		protected.PUT("/auth/me", handler.UpdateProfile)
		protected.PUT("/users/:id", handler.UpdateUser)

		// Enrollment
		protected.POST("/courses/:id/enroll", handler.EnrollCourse)
		protected.DELETE("/courses/:id/enroll", handler.UnenrollCourse)
		protected.GET("/my/courses", handler.ListEnrolledCourses)

		// Progress
		protected.POST("/courses/:id/lessons/:lessonId/progress", handler.ToggleLessonProgress)
		protected.GET("/courses/:id/progress", handler.GetMyProgress)
		protected.GET("/my/progress", handler.ListMyProgress)

		// Quizzes
		protected.GET("/courses/:id/quizzes", handler.ListCourseQuizzes)
		protected.GET("/courses/:id/quizzes/lesson/:lessonId", handler.ListLessonQuizzes)
		protected.GET("/quizzes/:id", handler.GetQuiz)
		protected.POST("/quizzes/:id/attempts", handler.SubmitQuizAttempt)
		protected.GET("/quizzes/:id/attempts/my", handler.ListMyQuizAttempts)
		protected.GET("/quizzes/:id/attempts/:attemptId", handler.GetQuizAttempt)

		// Assignments (file flow)
		protected.GET("/courses/:id/assignments", handler.ListCourseAssignments)
		protected.GET("/courses/:id/assignments/lesson/:lessonId", handler.ListLessonAssignments)
		protected.POST("/assignments/:id/submit", handler.SubmitAssignment)
		protected.GET("/assignments/:id/submission", handler.GetMyAssignmentSubmission)

		// Submissions (free-text flow)
		protected.POST("/submissions", handler.SubmitWork)
		protected.GET("/my/submissions", handler.ListMySubmissions)
		protected.GET("/submissions/my-grades/:courseId", handler.MyCourseGrades)

		// Payments
		protected.POST("/payments/process", handler.ProcessPayment)
		protected.POST("/payments/simple-process", handler.SimpleProcessPayment)
		protected.POST("/payments/redeem-points", handler.RedeemPoints)
		protected.GET("/payments/history", handler.PaymentHistory)
		protected.GET("/payments/:id", handler.GetPayment)

		// Reviews
		protected.POST("/courses/:id/reviews", handler.CreateReview)
		protected.PUT("/reviews/:id", handler.UpdateReview)
		protected.DELETE("/reviews/:id", handler.DeleteReview)

		// Achievements
		protected.GET("/my/achievements", handler.ListMyAchievements)

		// Certificates
		protected.POST("/courses/:id/certificate", handler.IssueCertificate)
		protected.GET("/my/certificates", handler.ListMyCertificates)
		protected.GET("/certificates/:id/download", handler.DownloadCertificate)

		// Discussions
		protected.POST("/courses/:id/discussions", handler.CreateDiscussion)
		protected.GET("/courses/:id/discussions", handler.ListCourseDiscussions)
		protected.POST("/discussions/:id/replies", handler.ReplyToDiscussion)
		protected.DELETE("/discussions/:id/replies/:replyId", handler.RemoveDiscussionReply)
		protected.DELETE("/discussions/:id", handler.DeleteDiscussion)

		// Announcements
		protected.GET("/courses/:id/announcements", handler.ListCourseAnnouncements)

		// Attendance
		protected.GET("/courses/:id/attendance/my", handler.MyAttendanceSummary)

		// Notifications
		protected.GET("/notifications", handler.ListMyNotifications)
		protected.PUT("/notifications/read-all", handler.MarkAllNotificationsRead)
		protected.PUT("/notifications/:id/read", handler.MarkNotificationRead)
		protected.DELETE("/notifications/:id", handler.DeleteNotification)
	}

	// Instructor & Admin Only
	instructor := api.Group("/")
	instructor.Use(AuthMiddleware("instructor", "admin"))
	{
		instructor.POST("/courses", handler.CreateCourse)
		instructor.PUT("/courses/:id", handler.UpdateCourse)
		instructor.DELETE("/courses/:id", handler.DeleteCourse)
		instructor.GET("/my/teaching", handler.ListTeachingCourses)

		// Lessons
		instructor.POST("/courses/:id/lessons", handler.AddLesson)
		instructor.PUT("/courses/:id/lessons/:lessonId", handler.UpdateLesson)
		instructor.DELETE("/courses/:id/lessons/:lessonId", handler.DeleteLesson)

		// Progress oversight
		instructor.GET("/courses/:id/progress/all", handler.ListCourseProgress)

		// Quizzes
		instructor.POST("/quizzes", handler.CreateQuiz)
		instructor.PUT("/quizzes/:id", handler.UpdateQuiz)
		instructor.DELETE("/quizzes/:id", handler.DeleteQuiz)
		instructor.GET("/quizzes/:id/attempts", handler.ListQuizAttempts)

		// Assignments
		instructor.POST("/assignments", handler.CreateAssignment)
		instructor.PUT("/assignments/:id", handler.UpdateAssignment)
		instructor.DELETE("/assignments/:id", handler.DeleteAssignment)
		instructor.GET("/assignments/:id/submissions", handler.ListAssignmentSubmissions)
		instructor.PUT("/assignment-submissions/:id/grade", handler.GradeAssignmentSubmission)

		// Submissions
		instructor.GET("/courses/:id/submissions", handler.ListCourseSubmissions)
		instructor.GET("/submissions/course/:courseId/student/:studentId", handler.ListStudentCourseSubmissions)
		instructor.PUT("/submissions/:id/grade", handler.GradeSubmission)

		// Certificates
		instructor.GET("/courses/:id/certificates", handler.ListCourseCertificates)

		// Announcements
		instructor.POST("/courses/:id/announcements", handler.CreateAnnouncement)
		instructor.PUT("/announcements/:id", handler.UpdateAnnouncement)
		instructor.DELETE("/announcements/:id", handler.DeleteAnnouncement)

		// Attendance
		instructor.POST("/attendance", handler.MarkAttendance)
		instructor.GET("/courses/:id/attendance", handler.ListCourseAttendance)
	}

	// Admin Only
	admin := api.Group("/")
	admin.Use(AuthMiddleware("admin"))
	{
		admin.GET("/users", handler.ListUsers)
		admin.GET("/users/:id", handler.GetUser)
		admin.DELETE("/users/:id", handler.DeleteUser)
		admin.GET("/users/:id/achievements", handler.ListUserAchievements)
		admin.POST("/users/:id/badges/:badgeId", handler.AwardBadge)

		admin.POST("/badges", handler.CreateBadge)
		admin.PUT("/badges/:id", handler.UpdateBadge)
		admin.DELETE("/badges/:id", handler.DeleteBadge)

		admin.GET("/progress/admin/all", handler.ListAllProgress)

		admin.GET("/payments", handler.ListAllPayments)
		admin.PUT("/payments/:id/refund", handler.RefundPayment)

		admin.GET("/reports/overview", handler.OverviewReport)
		admin.GET("/reports/course-performance", handler.CoursePerformanceReport)
		admin.GET("/reports/user-activity", handler.UserActivityReport)
		admin.GET("/reports/financial", handler.FinancialReport)
	}

	return r
}
