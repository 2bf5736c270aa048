package main

import (
	"context"
	"log"
	"os"
	"time"

	"intellilearn-backend/config"
	httpDelivery "intellilearn-backend/internal/delivery/http"
	"intellilearn-backend/internal/domain"
	"intellilearn-backend/internal/repository"
	"intellilearn-backend/internal/service"
	"intellilearn-backend/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to databases
	db := config.ConnectDB()
	postgres := db.PG
	mongo := db.Mongo

	// Auto migrate and ensure indexes
	if err := config.AutoMigrate(postgres); err != nil {
		log.Fatal("Migration failed:", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := config.EnsureIndexes(ctx, mongo); err != nil {
			log.Fatal("Index creation failed:", err)
		}
		cancel()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongo)
	courseRepo := repository.NewCourseRepository(mongo)
	progressRepo := repository.NewProgressRepository(mongo)
	quizRepo := repository.NewQuizRepository(mongo)
	attemptRepo := repository.NewAttemptRepository(mongo)
	submissionRepo := repository.NewSubmissionRepository(mongo)
	assignmentRepo := repository.NewAssignmentRepository(mongo)
	assignmentSubRepo := repository.NewAssignmentSubmissionRepository(mongo)
	reviewRepo := repository.NewReviewRepository(mongo)
	badgeRepo := repository.NewBadgeRepository(mongo)
	achievementRepo := repository.NewAchievementRepository(mongo)
	certRepo := repository.NewCertificateRepository(mongo)
	discussionRepo := repository.NewDiscussionRepository(mongo)
	announcementRepo := repository.NewAnnouncementRepository(mongo)
	attendanceRepo := repository.NewAttendanceRepository(mongo)
	notificationRepo := repository.NewNotificationRepository(mongo)
	paymentRepo := repository.NewPaymentRepository(postgres)
	outboxRepo := repository.NewOutboxRepository(postgres)

	// Initialize services
	mailer := service.NewMailer()
	gateway := service.NewPaymentGateway()
	renderer := service.NewCertificateRenderer()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, mailer)
	userUsecase := usecase.NewUserUsecase(userRepo)
	courseUsecase := usecase.NewCourseUsecase(courseRepo, userRepo, paymentRepo)
	progressUsecase := usecase.NewProgressUsecase(progressRepo, courseRepo, userRepo, badgeRepo, achievementRepo)
	quizUsecase := usecase.NewQuizUsecase(quizRepo, attemptRepo, courseRepo)
	assignmentUsecase := usecase.NewAssignmentUsecase(assignmentRepo, assignmentSubRepo, courseRepo, outboxRepo)
	submissionUsecase := usecase.NewSubmissionUsecase(submissionRepo, courseRepo, outboxRepo)
	paymentUsecase := usecase.NewPaymentUsecase(paymentRepo, courseRepo, userRepo, courseUsecase, gateway)
	reviewUsecase := usecase.NewReviewUsecase(reviewRepo, courseRepo)
	badgeUsecase := usecase.NewBadgeUsecase(badgeRepo, achievementRepo, userRepo)
	certUsecase := usecase.NewCertificateUsecase(certRepo, progressRepo, userRepo, courseRepo, renderer)
	discussionUsecase := usecase.NewDiscussionUsecase(discussionRepo, courseRepo)
	announcementUsecase := usecase.NewAnnouncementUsecase(announcementRepo, courseRepo, outboxRepo)
	attendanceUsecase := usecase.NewAttendanceUsecase(attendanceRepo, courseRepo)
	notificationUsecase := usecase.NewNotificationUsecase(notificationRepo)
	reportUsecase := usecase.NewReportUsecase(userRepo, courseRepo, submissionRepo, paymentRepo)

	// Seed demo users and the completion badge
	seed(authUsecase, badgeUsecase)

	// Start the outbox dispatcher
	dispatcher := service.NewOutboxDispatcher(outboxRepo, notificationRepo, userRepo, courseRepo, mailer)
	if err := dispatcher.Start(); err != nil {
		log.Fatal("Failed to start outbox dispatcher:", err)
	}
	defer dispatcher.Stop()

	// Initialize handler and router
	apiHandler := &httpDelivery.Handler{
		AuthUsecase:         authUsecase,
		UserUsecase:         userUsecase,
		CourseUsecase:       courseUsecase,
		ProgressUsecase:     progressUsecase,
		QuizUsecase:         quizUsecase,
		AssignmentUsecase:   assignmentUsecase,
		SubmissionUsecase:   submissionUsecase,
		PaymentUsecase:      paymentUsecase,
		ReviewUsecase:       reviewUsecase,
		BadgeUsecase:        badgeUsecase,
		CertificateUsecase:  certUsecase,
		DiscussionUsecase:   discussionUsecase,
		AnnouncementUsecase: announcementUsecase,
		AttendanceUsecase:   attendanceUsecase,
		NotificationUsecase: notificationUsecase,
		ReportUsecase:       reportUsecase,
	}
	router := httpDelivery.InitRouter(apiHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	log.Printf("API: http://localhost:%s/api/v1", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func seed(authUsecase domain.AuthUsecase, badgeUsecase domain.BadgeUsecase) {
	ctx := context.Background()

	users := []domain.RegisterRequest{
		{Name: "Demo Student", Username: "demostudent", Email: "student@intellilearn.io", Password: "password123", Role: domain.RoleStudent},
		{Name: "Demo Instructor", Username: "demoinstructor", Email: "instructor@intellilearn.io", Password: "password123", Role: domain.RoleInstructor},
	}
	for _, u := range users {
		if _, err := authUsecase.Register(ctx, u); err != nil {
			log.Printf("Seed user %s: %v", u.Email, err)
		}
	}

	badge := domain.BadgeRequest{
		Name:        "Course Completion",
		Description: "Awarded for finishing every lesson in a course",
		Icon:        "trophy",
		Criteria:    "course_completed",
		Points:      100,
	}
	if _, err := badgeUsecase.Create(ctx, badge); err != nil {
		log.Printf("Seed badge: %v", err)
	}
}
