package domain

import "time"

// Request bodies bound by the HTTP layer. Validation tags run through gin's
// binding; cross-field rules live in the usecases.

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"omitempty,min=2,max=100"`
	Avatar string `json:"avatar" binding:"omitempty,url"`
}

type UpdateUserRequest struct {
	Name   string `json:"name" binding:"omitempty,min=2,max=100"`
	Email  string `json:"email" binding:"omitempty,email"`
	Role   Role   `json:"role" binding:"omitempty,oneof=student instructor admin"`
	Avatar string `json:"avatar" binding:"omitempty,url"`
}

type LessonRequest struct {
	Title       string       `json:"title" binding:"required,min=2,max=200"`
	Description string       `json:"description"`
	VideoURL    string       `json:"video_url" binding:"omitempty,url"`
	Duration    string       `json:"duration"`
	Attachments []Attachment `json:"attachments"`
}

type CreateCourseRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=200"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Tags        []string        `json:"tags"`
	Price       float64         `json:"price" binding:"gte=0"`
	Thumbnail   string          `json:"thumbnail" binding:"omitempty,url"`
	Duration    string          `json:"duration"`
	Level       Level           `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	IsPublished bool            `json:"is_published"`
	Lessons     []LessonRequest `json:"lessons"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Thumbnail   *string  `json:"thumbnail" binding:"omitempty,url"`
	Duration    *string  `json:"duration"`
	Level       *Level   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	IsPublished *bool    `json:"is_published"`
}

type QuizOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestionRequest struct {
	Question string              `json:"question" binding:"required"`
	Options  []QuizOptionRequest `json:"options" binding:"required,min=2,dive"`
}

type CreateQuizRequest struct {
	CourseID    string                `json:"course_id" binding:"required"`
	LessonID    string                `json:"lesson_id" binding:"required"`
	Title       string                `json:"title" binding:"required,min=2,max=200"`
	Description string                `json:"description"`
	Questions   []QuizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
	TimeLimit   int                   `json:"time_limit" binding:"gte=0"`
}

type UpdateQuizRequest struct {
	Title       *string               `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string               `json:"description"`
	Questions   []QuizQuestionRequest `json:"questions" binding:"omitempty,min=1,dive"`
	TimeLimit   *int                  `json:"time_limit" binding:"omitempty,gte=0"`
	IsActive    *bool                 `json:"is_active"`
}

type AttemptAnswerRequest struct {
	QuestionIndex  int `json:"question_index"`
	SelectedOption int `json:"selected_option"`
}

type SubmitAttemptRequest struct {
	Answers   []AttemptAnswerRequest `json:"answers" binding:"required"`
	TimeTaken int                    `json:"time_taken" binding:"gte=0"`
}

type CreateAssignmentRequest struct {
	CourseID    string    `json:"course_id" binding:"required"`
	LessonID    string    `json:"lesson_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=2,max=200"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	MaxPoints   int       `json:"max_points" binding:"required,gt=0"`
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxPoints   *int       `json:"max_points" binding:"omitempty,gt=0"`
}

type SubmitWorkRequest struct {
	CourseID       string `json:"course_id" binding:"required"`
	Assignment     string `json:"assignment" binding:"required"`
	SubmissionText string `json:"submission_text"`
	SubmissionFile string `json:"submission_file"`
}

// Grade is a pointer so a zero grade survives required binding.
type GradeRequest struct {
	Grade    *float64 `json:"grade" binding:"required"`
	Feedback string   `json:"feedback"`
}

type ProcessPaymentRequest struct {
	CourseID      string `json:"course_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card bank_transfer ewallet demo"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"max=2000"`
}

type BadgeRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"required"`
	Icon        string `json:"icon"`
	Criteria    string `json:"criteria"`
	Points      int    `json:"points" binding:"gte=0"`
}

type DiscussionRequest struct {
	Title   string `json:"title" binding:"required,min=2,max=200"`
	Content string `json:"content" binding:"required"`
}

type ReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required,min=2,max=200"`
	Content string `json:"content" binding:"required"`
}

type MarkAttendanceRequest struct {
	StudentID string           `json:"student_id" binding:"required"`
	CourseID  string           `json:"course_id" binding:"required"`
	Session   string           `json:"session" binding:"required"`
	Date      time.Time        `json:"date" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=present absent late"`
	Notes     string           `json:"notes"`
}
