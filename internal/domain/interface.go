package domain

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateKey is returned by repositories when a unique index rejects a
// write. Usecases rely on it for idempotent award paths.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ========== REPOSITORIES ==========

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) ([]RoleCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	AddBadge(ctx context.Context, userID primitive.ObjectID, badge EarnedBadge, points int) error
	AdjustBadgePoints(ctx context.Context, userID primitive.ObjectID, delta int) error
}

type CourseFilter struct {
	Category      string
	Level         Level
	Search        string
	PublishedOnly bool
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Course, error)
	GetBySlug(ctx context.Context, slug string) (*Course, error)
	List(ctx context.Context, filter CourseFilter) ([]Course, error)
	ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]Course, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Course, error)
	ListAll(ctx context.Context) ([]Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	UpdateRating(ctx context.Context, courseID primitive.ObjectID, average float64, quantity int) error

	// Enroll and Unenroll update the course's studentsEnrolled and the
	// user's coursesEnrolled in one Mongo session so the two collections
	// cannot diverge.
	Enroll(ctx context.Context, courseID, userID primitive.ObjectID) error
	Unenroll(ctx context.Context, courseID, userID primitive.ObjectID) error
}

type ProgressRepository interface {
	Create(ctx context.Context, progress *Progress) error
	GetByUserCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*Progress, error)
	Update(ctx context.Context, progress *Progress) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]Progress, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Progress, error)
	ListAll(ctx context.Context) ([]Progress, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *Quiz) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Quiz, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Quiz, error)
	ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]Quiz, error)
	Update(ctx context.Context, quiz *Quiz) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *QuizAttempt) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*QuizAttempt, error)
	ListByQuizUser(ctx context.Context, quizID, userID primitive.ObjectID) ([]QuizAttempt, error)
	ListByQuiz(ctx context.Context, quizID primitive.ObjectID) ([]QuizAttempt, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Submission, error)
	GetByKey(ctx context.Context, studentID, courseID primitive.ObjectID, assignment string) (*Submission, error)
	Update(ctx context.Context, sub *Submission) error
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Submission, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]Submission, error)
	ListByStudentCourse(ctx context.Context, studentID, courseID primitive.ObjectID) ([]Submission, error)
	Count(ctx context.Context) (int64, error)
	CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	AverageGradeByCourse(ctx context.Context, courseID primitive.ObjectID) (float64, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Assignment, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Assignment, error)
	ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AssignmentSubmissionRepository interface {
	Create(ctx context.Context, s *AssignmentSubmission) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*AssignmentSubmission, error)
	GetByAssignmentStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*AssignmentSubmission, error)
	Update(ctx context.Context, s *AssignmentSubmission) error
	ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]AssignmentSubmission, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	GetByCourseUser(ctx context.Context, courseID, userID primitive.ObjectID) (*Review, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Review, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context, courseID primitive.ObjectID) (average float64, count int, err error)
}

type BadgeRepository interface {
	Create(ctx context.Context, badge *Badge) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Badge, error)
	GetByName(ctx context.Context, name string) (*Badge, error)
	List(ctx context.Context) ([]Badge, error)
	Update(ctx context.Context, badge *Badge) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AchievementRepository interface {
	// Create returns ErrDuplicateKey when the (user, badge, course) unique
	// index already holds a row.
	Create(ctx context.Context, a *Achievement) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]Achievement, error)
}

type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Certificate, error)
	GetByUserCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*Certificate, error)
	GetByCertificateID(ctx context.Context, certificateID string) (*Certificate, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]Certificate, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Certificate, error)
}

type DiscussionRepository interface {
	Create(ctx context.Context, d *Discussion) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Discussion, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Discussion, error)
	AddReply(ctx context.Context, discussionID primitive.ObjectID, reply Reply) error
	RemoveReply(ctx context.Context, discussionID, replyID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AttendanceRepository interface {
	Upsert(ctx context.Context, a *Attendance) error
	ListByCourse(ctx context.Context, courseID primitive.ObjectID, date *time.Time) ([]Attendance, error)
	ListByStudentCourse(ctx context.Context, studentID, courseID primitive.ObjectID) ([]Attendance, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	CreateMany(ctx context.Context, ns []Notification) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Notification, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	GetByTransactionID(ctx context.Context, txID string) (*Payment, error)
	ListByStudent(ctx context.Context, studentID string) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
	// Transition moves a payment to the target status inside a transaction,
	// failing when the state machine forbids the move.
	Transition(ctx context.Context, txID string, to PaymentStatus) (*Payment, error)
	CompletedByStudentCourse(ctx context.Context, studentID, courseID string) (*Payment, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload any) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}

// ========== SERVICES ==========

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// PaymentIntent is the gateway's charge handle.
type PaymentIntent struct {
	TransactionID string `json:"transaction_id"`
	ClientSecret  string `json:"client_secret"`
	Status        string `json:"status"`
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency, reference string) (*PaymentIntent, error)
	VerifySignature(payload []byte, signature string) bool
}

// ========== USECASES ==========

type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type AuthUsecase interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req UpdateProfileRequest) (*User, error)
}

type UserUsecase interface {
	List(ctx context.Context, role Role) ([]User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
}

type CourseUsecase interface {
	Create(ctx context.Context, actor Actor, req CreateCourseRequest) (*Course, error)
	List(ctx context.Context, filter CourseFilter) ([]Course, error)
	Get(ctx context.Context, idOrSlug string) (*Course, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req UpdateCourseRequest) (*Course, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
	Enroll(ctx context.Context, userID, courseID primitive.ObjectID) error
	Unenroll(ctx context.Context, userID, courseID primitive.ObjectID) error
	ListEnrolled(ctx context.Context, userID primitive.ObjectID) ([]Course, error)
	ListTeaching(ctx context.Context, instructorID primitive.ObjectID) ([]Course, error)
	AddLesson(ctx context.Context, actor Actor, courseID primitive.ObjectID, req LessonRequest) (*Course, error)
	UpdateLesson(ctx context.Context, actor Actor, courseID, lessonID primitive.ObjectID, req LessonRequest) (*Course, error)
	DeleteLesson(ctx context.Context, actor Actor, courseID, lessonID primitive.ObjectID) (*Course, error)
}

type ProgressUsecase interface {
	ToggleLesson(ctx context.Context, userID, courseID, lessonID primitive.ObjectID) (*ProgressDetail, error)
	GetMine(ctx context.Context, userID, courseID primitive.ObjectID) (*ProgressDetail, error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]ProgressDetail, error)
	ListByCourse(ctx context.Context, actor Actor, courseID primitive.ObjectID) ([]ProgressDetail, error)
	ListAll(ctx context.Context) ([]ProgressDetail, error)
}

type QuizUsecase interface {
	Create(ctx context.Context, actor Actor, req CreateQuizRequest) (*Quiz, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req UpdateQuizRequest) (*Quiz, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
	Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*Quiz, error)
	ListByCourse(ctx context.Context, actor Actor, courseID primitive.ObjectID) ([]Quiz, error)
	ListByLesson(ctx context.Context, actor Actor, courseID, lessonID primitive.ObjectID) ([]Quiz, error)
	SubmitAttempt(ctx context.Context, userID, quizID primitive.ObjectID, req SubmitAttemptRequest) (*QuizAttempt, error)
	ListAttempts(ctx context.Context, userID, quizID primitive.ObjectID) ([]QuizAttempt, error)
	ListQuizAttempts(ctx context.Context, actor Actor, quizID primitive.ObjectID) ([]QuizAttempt, error)
	GetAttempt(ctx context.Context, actor Actor, quizID, attemptID primitive.ObjectID) (*QuizAttempt, error)
}

type AssignmentUsecase interface {
	Create(ctx context.Context, actor Actor, req CreateAssignmentRequest) (*Assignment, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req UpdateAssignmentRequest) (*Assignment, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Assignment, error)
	ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]Assignment, error)
	Submit(ctx context.Context, studentID, assignmentID primitive.ObjectID, fileURL, fileName string) (*AssignmentSubmission, error)
	Grade(ctx context.Context, actor Actor, submissionID primitive.ObjectID, req GradeRequest) (*AssignmentSubmission, error)
	ListSubmissions(ctx context.Context, actor Actor, assignmentID primitive.ObjectID) ([]AssignmentSubmission, error)
	GetMySubmission(ctx context.Context, studentID, assignmentID primitive.ObjectID) (*AssignmentSubmission, error)
}

type SubmissionUsecase interface {
	Submit(ctx context.Context, studentID primitive.ObjectID, req SubmitWorkRequest) (*Submission, error)
	Grade(ctx context.Context, actor Actor, submissionID primitive.ObjectID, req GradeRequest) (*Submission, error)
	ListByCourse(ctx context.Context, actor Actor, courseID primitive.ObjectID) ([]Submission, error)
	ListMine(ctx context.Context, studentID primitive.ObjectID) ([]Submission, error)
	MyGrades(ctx context.Context, studentID, courseID primitive.ObjectID) ([]Submission, error)
	ListByCourseStudent(ctx context.Context, actor Actor, courseID, studentID primitive.ObjectID) ([]Submission, error)
}

type PaymentUsecase interface {
	ProcessGateway(ctx context.Context, userID primitive.ObjectID, req ProcessPaymentRequest) (*Payment, *PaymentIntent, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	SimpleProcess(ctx context.Context, userID primitive.ObjectID, req ProcessPaymentRequest) (*Payment, error)
	RedeemPoints(ctx context.Context, userID primitive.ObjectID, courseID primitive.ObjectID) (*Payment, error)
	Refund(ctx context.Context, actor Actor, id uint) (*Payment, error)
	History(ctx context.Context, userID primitive.ObjectID) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
	Get(ctx context.Context, actor Actor, id uint) (*Payment, error)
}

type ReviewUsecase interface {
	Create(ctx context.Context, userID, courseID primitive.ObjectID, req ReviewRequest) (*Review, error)
	Update(ctx context.Context, actor Actor, reviewID primitive.ObjectID, req ReviewRequest) (*Review, error)
	Delete(ctx context.Context, actor Actor, reviewID primitive.ObjectID) error
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Review, error)
}

type BadgeUsecase interface {
	Create(ctx context.Context, req BadgeRequest) (*Badge, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Badge, error)
	Update(ctx context.Context, id primitive.ObjectID, req BadgeRequest) (*Badge, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]Badge, error)
	// Award grants a badge to a user by hand. It reuses the achievement
	// unique index, so a repeat award surfaces as a conflict.
	Award(ctx context.Context, userID, badgeID primitive.ObjectID) (*Achievement, error)
	ListMyAchievements(ctx context.Context, userID primitive.ObjectID) ([]Achievement, error)
}

type CertificateUsecase interface {
	Issue(ctx context.Context, userID, courseID primitive.ObjectID) (*Certificate, error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]Certificate, error)
	ListByCourse(ctx context.Context, actor Actor, courseID primitive.ObjectID) ([]Certificate, error)
	Verify(ctx context.Context, certificateID string) (*Certificate, error)
	// RenderPDF returns the certificate document as a PDF byte stream.
	RenderPDF(ctx context.Context, actor Actor, id primitive.ObjectID) ([]byte, string, error)
}

type DiscussionUsecase interface {
	Create(ctx context.Context, userID, courseID primitive.ObjectID, req DiscussionRequest) (*Discussion, error)
	ListByCourse(ctx context.Context, userID, courseID primitive.ObjectID) ([]Discussion, error)
	Reply(ctx context.Context, userID, discussionID primitive.ObjectID, content string) (*Discussion, error)
	RemoveReply(ctx context.Context, actor Actor, discussionID, replyID primitive.ObjectID) (*Discussion, error)
	Delete(ctx context.Context, actor Actor, discussionID primitive.ObjectID) error
}

type AnnouncementUsecase interface {
	Create(ctx context.Context, actor Actor, courseID primitive.ObjectID, req AnnouncementRequest) (*Announcement, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]Announcement, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req AnnouncementRequest) (*Announcement, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
}

type AttendanceUsecase interface {
	Mark(ctx context.Context, actor Actor, req MarkAttendanceRequest) (*Attendance, error)
	ListByCourse(ctx context.Context, actor Actor, courseID primitive.ObjectID, date *time.Time) ([]Attendance, error)
	MySummary(ctx context.Context, studentID, courseID primitive.ObjectID) (*AttendanceSummary, error)
}

type NotificationUsecase interface {
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type ReportUsecase interface {
	Overview(ctx context.Context) (*OverviewReport, error)
	CoursePerformance(ctx context.Context) ([]CoursePerformance, error)
	UserActivity(ctx context.Context) ([]UserActivity, error)
	Financial(ctx context.Context) (*FinancialReport, error)
}
