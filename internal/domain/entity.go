package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// EarnedBadge links a badge on the user document to the course it was earned for.
type EarnedBadge struct {
	Badge    primitive.ObjectID `json:"badge" bson:"badge"`
	Course   primitive.ObjectID `json:"course" bson:"course"`
	EarnedAt time.Time          `json:"earned_at" bson:"earned_at"`
}

type User struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name"`
	Username        string               `json:"username" bson:"username"`
	Email           string               `json:"email" bson:"email"`
	Password        string               `json:"-" bson:"password"`
	Role            Role                 `json:"role" bson:"role"`
	Avatar          string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	BadgePoints     int                  `json:"badge_points" bson:"badge_points"`
	Badges          []EarnedBadge        `json:"badges" bson:"badges"`
	CoursesEnrolled []primitive.ObjectID `json:"courses_enrolled" bson:"courses_enrolled"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

type Attachment struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
}

// Lesson is embedded in Course. Array position is display order; every
// cross-collection reference uses the generated sub-id, never the index.
type Lesson struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	VideoURL    string             `json:"video_url,omitempty" bson:"video_url,omitempty"`
	Duration    string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Attachments []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
}

type Course struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title            string               `json:"title" bson:"title"`
	Description      string               `json:"description" bson:"description"`
	Instructor       primitive.ObjectID   `json:"instructor" bson:"instructor"`
	Category         string               `json:"category" bson:"category"`
	Tags             []string             `json:"tags,omitempty" bson:"tags,omitempty"`
	Slug             string               `json:"slug" bson:"slug"`
	Price            float64              `json:"price" bson:"price"`
	Thumbnail        string               `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Lessons          []Lesson             `json:"lessons" bson:"lessons"`
	Duration         string               `json:"duration,omitempty" bson:"duration,omitempty"`
	Level            Level                `json:"level" bson:"level"`
	IsPublished      bool                 `json:"is_published" bson:"is_published"`
	StudentsEnrolled []primitive.ObjectID `json:"students_enrolled" bson:"students_enrolled"`
	RatingsAverage   float64              `json:"ratings_average" bson:"ratings_average"`
	RatingsQuantity  int                  `json:"ratings_quantity" bson:"ratings_quantity"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
}

// HasStudent reports whether the user is in the course's enrolled set.
func (c *Course) HasStudent(userID primitive.ObjectID) bool {
	for _, id := range c.StudentsEnrolled {
		if id == userID {
			return true
		}
	}
	return false
}

// LessonByID returns the embedded lesson with the given sub-id.
func (c *Course) LessonByID(lessonID primitive.ObjectID) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == lessonID {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

type CompletedLesson struct {
	LessonID    primitive.ObjectID `json:"lesson_id" bson:"lesson_id"`
	CompletedAt time.Time          `json:"completed_at" bson:"completed_at"`
}

// Progress is unique per (user, course).
type Progress struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User             primitive.ObjectID `json:"user" bson:"user"`
	Course           primitive.ObjectID `json:"course" bson:"course"`
	LessonsCompleted []CompletedLesson  `json:"lessons_completed" bson:"lessons_completed"`
	OverallProgress  int                `json:"overall_progress" bson:"overall_progress"`
	LastAccessed     time.Time          `json:"last_accessed" bson:"last_accessed"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasLesson reports whether the lesson is in the completed set.
func (p *Progress) HasLesson(lessonID primitive.ObjectID) bool {
	for _, l := range p.LessonsCompleted {
		if l.LessonID == lessonID {
			return true
		}
	}
	return false
}

type QuizOption struct {
	Text      string `json:"text" bson:"text"`
	IsCorrect bool   `json:"is_correct" bson:"is_correct"`
}

type QuizQuestion struct {
	Question string       `json:"question" bson:"question"`
	Options  []QuizOption `json:"options" bson:"options"`
	Order    int          `json:"order" bson:"order"`
}

type Quiz struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Course      primitive.ObjectID `json:"course" bson:"course"`
	LessonID    primitive.ObjectID `json:"lesson_id" bson:"lesson_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []QuizQuestion     `json:"questions" bson:"questions"`
	TotalPoints int                `json:"total_points" bson:"total_points"`
	TimeLimit   int                `json:"time_limit" bson:"time_limit"` // minutes, 0 = unlimited
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type QuizAnswer struct {
	QuestionIndex  int  `json:"question_index" bson:"question_index"`
	SelectedOption int  `json:"selected_option" bson:"selected_option"` // -1 when unanswered
	IsCorrect      bool `json:"is_correct" bson:"is_correct"`
	PointsAwarded  int  `json:"points_awarded" bson:"points_awarded"`
}

// QuizAttempt is immutable once created; repeated attempts accumulate.
type QuizAttempt struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Quiz        primitive.ObjectID `json:"quiz" bson:"quiz"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Answers     []QuizAnswer       `json:"answers" bson:"answers"`
	Score       int                `json:"score" bson:"score"`
	MaxScore    int                `json:"max_score" bson:"max_score"`
	Percentage  int                `json:"percentage" bson:"percentage"`
	TimeTaken   int                `json:"time_taken,omitempty" bson:"time_taken,omitempty"` // seconds
	CompletedAt time.Time          `json:"completed_at" bson:"completed_at"`
}

// Submission is the legacy free-text assignment flow: the assignment is
// identified by name, one live submission per (student, course, assignment).
type Submission struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Student        primitive.ObjectID  `json:"student" bson:"student"`
	Course         primitive.ObjectID  `json:"course" bson:"course"`
	Assignment     string              `json:"assignment" bson:"assignment"`
	SubmissionText string              `json:"submission_text,omitempty" bson:"submission_text,omitempty"`
	SubmissionFile string              `json:"submission_file,omitempty" bson:"submission_file,omitempty"`
	SubmittedAt    time.Time           `json:"submitted_at" bson:"submitted_at"`
	Grade          *float64            `json:"grade,omitempty" bson:"grade,omitempty"`
	GradedAt       *time.Time          `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
	GradedBy       *primitive.ObjectID `json:"graded_by,omitempty" bson:"graded_by,omitempty"`
	Feedback       string              `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

type Assignment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Course      primitive.ObjectID `json:"course" bson:"course"`
	LessonID    primitive.ObjectID `json:"lesson_id" bson:"lesson_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	DueDate     time.Time          `json:"due_date" bson:"due_date"`
	MaxPoints   int                `json:"max_points" bson:"max_points"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// AssignmentSubmission is the structured flow: at most one per
// (assignment, student); resubmission overwrites and clears the grade.
type AssignmentSubmission struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Assignment  primitive.ObjectID  `json:"assignment" bson:"assignment"`
	Student     primitive.ObjectID  `json:"student" bson:"student"`
	FileURL     string              `json:"file_url" bson:"file_url"`
	FileName    string              `json:"file_name" bson:"file_name"`
	SubmittedAt time.Time           `json:"submitted_at" bson:"submitted_at"`
	Grade       *float64            `json:"grade,omitempty" bson:"grade,omitempty"`
	GradedAt    *time.Time          `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
	Feedback    string              `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedBy    *primitive.ObjectID `json:"graded_by,omitempty" bson:"graded_by,omitempty"`
}

// Review is unique per (course, user).
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Course    primitive.ObjectID `json:"course" bson:"course"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Rating    int                `json:"rating" bson:"rating"`
	Review    string             `json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Badge struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Icon        string             `json:"icon" bson:"icon"`
	Criteria    string             `json:"criteria" bson:"criteria"`
	Points      int                `json:"points" bson:"points"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Achievement records a badge earned by a user; unique on (user, badge, course).
type Achievement struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Badge    primitive.ObjectID `json:"badge" bson:"badge"`
	Course   primitive.ObjectID `json:"course,omitempty" bson:"course,omitempty"`
	EarnedAt time.Time          `json:"earned_at" bson:"earned_at"`
}

type Certificate struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User          primitive.ObjectID `json:"user" bson:"user"`
	Course        primitive.ObjectID `json:"course" bson:"course"`
	CertificateID string             `json:"certificate_id" bson:"certificate_id"`
	IssuedAt      time.Time          `json:"issued_at" bson:"issued_at"`
}

type Reply struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Discussion struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Course    primitive.ObjectID `json:"course" bson:"course"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type Announcement struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Course    primitive.ObjectID `json:"course" bson:"course"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

type Attendance struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Student primitive.ObjectID `json:"student" bson:"student"`
	Course  primitive.ObjectID `json:"course" bson:"course"`
	Session string             `json:"session" bson:"session"`
	Date    time.Time          `json:"date" bson:"date"`
	Status  AttendanceStatus   `json:"status" bson:"status"`
	Notes   string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

type NotificationType string

const (
	NotifAnnouncement NotificationType = "announcement"
	NotifGrade        NotificationType = "grade"
	NotifAssignment   NotificationType = "assignment"
	NotifCourse       NotificationType = "course"
	NotifSystem       NotificationType = "system"
)

type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID  `json:"user" bson:"user"`
	Title     string              `json:"title" bson:"title"`
	Message   string              `json:"message" bson:"message"`
	Type      NotificationType    `json:"type" bson:"type"`
	Read      bool                `json:"read" bson:"read"`
	CourseID  *primitive.ObjectID `json:"course_id,omitempty" bson:"course_id,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// ========== POSTGRES MODELS (ledger + outbox) ==========

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CanTransition enforces the payment state machine:
// pending -> completed|failed, completed -> refunded.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return to == PaymentCompleted || to == PaymentFailed
	case PaymentCompleted:
		return to == PaymentRefunded
	}
	return false
}

// Payment is the ledger row in Postgres. StudentID and CourseID hold the
// Mongo document ids as hex strings.
type Payment struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	StudentID     string        `json:"student_id" gorm:"not null;index:idx_payments_student_course"`
	CourseID      string        `json:"course_id" gorm:"not null;index:idx_payments_student_course"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(10);default:'USD'"`
	PaymentMethod string        `json:"payment_method" gorm:"type:varchar(30);not null"`
	TransactionID string        `json:"transaction_id" gorm:"uniqueIndex;not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentDate   time.Time     `json:"payment_date" gorm:"autoCreateTime"`
	RefundedAt    *time.Time    `json:"refunded_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxMaxAttempts is the retry budget per event. MarkFailed flips a row to
// OutboxFailed once the budget is spent so poison events stop occupying the
// dispatch batch.
const OutboxMaxAttempts = 5

const (
	TopicGradeUpdated        = "grade.updated"
	TopicAnnouncementCreated = "announcement.created"
)

// OutboxEvent queues notification/email side effects so a delivery failure
// never blocks the primary mutation; the dispatcher retries pending rows.
type OutboxEvent struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Topic     string     `json:"topic" gorm:"type:varchar(50);not null;index"`
	Payload   string     `json:"payload" gorm:"type:text;not null"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Attempts  int        `json:"attempts" gorm:"default:0"`
	LastError string     `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// GradeUpdatedEvent is the payload for TopicGradeUpdated.
type GradeUpdatedEvent struct {
	StudentID       string  `json:"student_id"`
	CourseID        string  `json:"course_id"`
	AssignmentTitle string  `json:"assignment_title"`
	Grade           float64 `json:"grade"`
}

// AnnouncementCreatedEvent is the payload for TopicAnnouncementCreated.
type AnnouncementCreatedEvent struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
}

// ========== AUTHORIZATION ==========

// Actor is the authenticated principal attached to each request.
type Actor struct {
	ID   primitive.ObjectID
	Role Role
}

type Action string

const (
	ActionManage Action = "manage"
	ActionView   Action = "view"
)

// Can is the single capability check backing every owner-or-admin rule.
func (a Actor) Can(action Action, owner primitive.ObjectID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.ID == owner
}

// IsStaff reports whether the actor may author content.
func (a Actor) IsStaff() bool {
	return a.Role == RoleInstructor || a.Role == RoleAdmin
}

// ========== RESPONSE DTOs ==========

// ProgressDetail decorates a Progress record with the derived fields the
// frontend consumes.
type ProgressDetail struct {
	Progress
	CompletionPercentage int      `json:"completion_percentage"`
	CompletedLessons     []string `json:"completed_lessons"`
	TotalLessons         int      `json:"total_lessons"`
	StudentName          string   `json:"student_name,omitempty"`
	CourseTitle          string   `json:"course_title,omitempty"`
}

type RoleCount struct {
	Role  Role  `json:"role" bson:"_id"`
	Count int64 `json:"count" bson:"count"`
}

type ReportTotals struct {
	Users            int64 `json:"users"`
	Courses          int64 `json:"courses"`
	PublishedCourses int64 `json:"published_courses"`
	Submissions      int64 `json:"submissions"`
}

type ReportRecentActivity struct {
	Users       int64 `json:"users"`
	Courses     int64 `json:"courses"`
	Submissions int64 `json:"submissions"`
}

type OverviewReport struct {
	Totals         ReportTotals         `json:"totals"`
	UserRoles      []RoleCount          `json:"user_roles"`
	RecentActivity ReportRecentActivity `json:"recent_activity"`
}

type CoursePerformance struct {
	Course
	EnrollmentCount int     `json:"enrollment_count"`
	AverageGrade    float64 `json:"average_grade"`
	Revenue         float64 `json:"revenue"`
}

type UserActivity struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Role            Role               `json:"role"`
	CreatedAt       time.Time          `json:"created_at"`
	EnrolledCourses int64              `json:"enrolled_courses"`
	Submissions     int64              `json:"submissions"`
	CoursesTaught   int64              `json:"courses_taught"`
}

type CourseRevenue struct {
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	EnrollmentCount int     `json:"enrollment_count"`
	Revenue         float64 `json:"revenue"`
}

type FinancialReport struct {
	TotalRevenue     float64         `json:"total_revenue"`
	TotalFreeCourses int             `json:"total_free_courses"`
	TotalPaidCourses int             `json:"total_paid_courses"`
	CourseRevenue    []CourseRevenue `json:"course_revenue"`
}

type AttendanceSummary struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Rate    float64 `json:"rate"`
}
