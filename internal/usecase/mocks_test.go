package usecase_test

import (
	"context"
	"time"

	"intellilearn-backend/internal/domain"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ========== MOCK USER REPOSITORY ==========

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) AddBadge(ctx context.Context, userID primitive.ObjectID, badge domain.EarnedBadge, points int) error {
	args := m.Called(ctx, userID, badge, points)
	return args.Error(0)
}

func (m *MockUserRepo) AdjustBadgePoints(ctx context.Context, userID primitive.ObjectID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// Satisfy the rest of the interface.
func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}
func (m *MockUserRepo) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return nil, nil
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error        { return nil }
func (m *MockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error    { return nil }
func (m *MockUserRepo) Count(ctx context.Context) (int64, error)                   { return 0, nil }
func (m *MockUserRepo) CountByRole(ctx context.Context) ([]domain.RoleCount, error) {
	return nil, nil
}
func (m *MockUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

// ========== MOCK COURSE REPOSITORY ==========

type MockCourseRepo struct {
	mock.Mock
}

func (m *MockCourseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepo) Enroll(ctx context.Context, courseID, userID primitive.ObjectID) error {
	args := m.Called(ctx, courseID, userID)
	return args.Error(0)
}

func (m *MockCourseRepo) Unenroll(ctx context.Context, courseID, userID primitive.ObjectID) error {
	args := m.Called(ctx, courseID, userID)
	return args.Error(0)
}

func (m *MockCourseRepo) UpdateRating(ctx context.Context, courseID primitive.ObjectID, average float64, quantity int) error {
	args := m.Called(ctx, courseID, average, quantity)
	return args.Error(0)
}

// Satisfy the rest of the interface.
func (m *MockCourseRepo) Create(ctx context.Context, course *domain.Course) error { return nil }
func (m *MockCourseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	return nil, domain.ErrNotFound
}
func (m *MockCourseRepo) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseRepo) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseRepo) ListAll(ctx context.Context) ([]domain.Course, error)   { return nil, nil }
func (m *MockCourseRepo) Update(ctx context.Context, course *domain.Course) error { return nil }
func (m *MockCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (m *MockCourseRepo) Count(ctx context.Context) (int64, error)                { return 0, nil }
func (m *MockCourseRepo) CountPublished(ctx context.Context) (int64, error)       { return 0, nil }
func (m *MockCourseRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

// ========== MOCK PROGRESS REPOSITORY ==========

type MockProgressRepo struct {
	mock.Mock
}

func (m *MockProgressRepo) Create(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepo) GetByUserCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Progress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressRepo) Update(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error) {
	return nil, nil
}
func (m *MockProgressRepo) ListAll(ctx context.Context) ([]domain.Progress, error) {
	return nil, nil
}
func (m *MockProgressRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Progress, error) {
	return nil, nil
}
func (m *MockProgressRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

// ========== MOCK BADGE / ACHIEVEMENT REPOSITORIES ==========

type MockBadgeRepo struct {
	mock.Mock
}

func (m *MockBadgeRepo) GetByName(ctx context.Context, name string) (*domain.Badge, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Badge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepo) Create(ctx context.Context, badge *domain.Badge) error { return nil }
func (m *MockBadgeRepo) List(ctx context.Context) ([]domain.Badge, error)       { return nil, nil }
func (m *MockBadgeRepo) Update(ctx context.Context, badge *domain.Badge) error  { return nil }
func (m *MockBadgeRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type MockAchievementRepo struct {
	mock.Mock
}

func (m *MockAchievementRepo) Create(ctx context.Context, a *domain.Achievement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAchievementRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	return nil, nil
}

// ========== MOCK PAYMENT REPOSITORY ==========

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) Transition(ctx context.Context, txID string, to domain.PaymentStatus) (*domain.Payment, error) {
	args := m.Called(ctx, txID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) CompletedByStudentCourse(ctx context.Context, studentID, courseID string) (*domain.Payment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error) {
	return nil, domain.ErrNotFound
}
func (m *MockPaymentRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error) {
	return nil, nil
}
func (m *MockPaymentRepo) ListAll(ctx context.Context) ([]domain.Payment, error) { return nil, nil }

// ========== MOCK OUTBOX REPOSITORY ==========

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Enqueue(ctx context.Context, topic string, payload any) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

func (m *MockOutboxRepo) ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	return nil, nil
}
func (m *MockOutboxRepo) MarkSent(ctx context.Context, id uint) error                 { return nil }
func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id uint, reason string) error { return nil }

// ========== MOCK ASSIGNMENT REPOSITORIES ==========

type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error { return nil }
func (m *MockAssignmentRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Assignment, error) {
	return nil, nil
}
func (m *MockAssignmentRepo) ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]domain.Assignment, error) {
	return nil, nil
}
func (m *MockAssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error { return nil }
func (m *MockAssignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type MockAssignmentSubRepo struct {
	mock.Mock
}

func (m *MockAssignmentSubRepo) Create(ctx context.Context, s *domain.AssignmentSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockAssignmentSubRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AssignmentSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentSubmission), args.Error(1)
}

func (m *MockAssignmentSubRepo) GetByAssignmentStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*domain.AssignmentSubmission, error) {
	args := m.Called(ctx, assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentSubmission), args.Error(1)
}

func (m *MockAssignmentSubRepo) Update(ctx context.Context, s *domain.AssignmentSubmission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockAssignmentSubRepo) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]domain.AssignmentSubmission, error) {
	return nil, nil
}

// ========== MOCK REVIEW REPOSITORY ==========

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepo) Stats(ctx context.Context, courseID primitive.ObjectID) (float64, int, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockReviewRepo) GetByCourseUser(ctx context.Context, courseID, userID primitive.ObjectID) (*domain.Review, error) {
	args := m.Called(ctx, courseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error) {
	return nil, nil
}
func (m *MockReviewRepo) Update(ctx context.Context, review *domain.Review) error { return nil }

// ========== MOCK QUIZ / ATTEMPT REPOSITORIES ==========

type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepo) Create(ctx context.Context, quiz *domain.Quiz) error { return nil }
func (m *MockQuizRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	return nil, nil
}
func (m *MockQuizRepo) ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]domain.Quiz, error) {
	return nil, nil
}
func (m *MockQuizRepo) Update(ctx context.Context, quiz *domain.Quiz) error  { return nil }
func (m *MockQuizRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}
func (m *MockAttemptRepo) ListByQuizUser(ctx context.Context, quizID, userID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	return nil, nil
}
func (m *MockAttemptRepo) ListByQuiz(ctx context.Context, quizID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	return nil, nil
}

// ========== MOCK SUBMISSION REPOSITORY ==========

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) GetByKey(ctx context.Context, studentID, courseID primitive.ObjectID, assignment string) (*domain.Submission, error) {
	args := m.Called(ctx, studentID, courseID, assignment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) Update(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Submission, error) {
	return nil, nil
}
func (m *MockSubmissionRepo) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.Submission, error) {
	return nil, nil
}
func (m *MockSubmissionRepo) ListByStudentCourse(ctx context.Context, studentID, courseID primitive.ObjectID) ([]domain.Submission, error) {
	return nil, nil
}
func (m *MockSubmissionRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *MockSubmissionRepo) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (m *MockSubmissionRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}
func (m *MockSubmissionRepo) AverageGradeByCourse(ctx context.Context, courseID primitive.ObjectID) (float64, error) {
	return 0, nil
}

// ========== MOCK SERVICES ==========

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, amount float64, currency, reference string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockGateway) VerifySignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error { return nil }

// ========== MOCK COURSE USECASE ==========

type MockCourseUsecase struct {
	mock.Mock
}

func (m *MockCourseUsecase) Enroll(ctx context.Context, userID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockCourseUsecase) Unenroll(ctx context.Context, userID, courseID primitive.ObjectID) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

// Satisfy the rest of the interface.
func (m *MockCourseUsecase) Create(ctx context.Context, actor domain.Actor, req domain.CreateCourseRequest) (*domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) Get(ctx context.Context, idOrSlug string) (*domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.UpdateCourseRequest) (*domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	return nil
}
func (m *MockCourseUsecase) ListEnrolled(ctx context.Context, userID primitive.ObjectID) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) ListTeaching(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) AddLesson(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID, req domain.LessonRequest) (*domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) UpdateLesson(ctx context.Context, actor domain.Actor, courseID, lessonID primitive.ObjectID, req domain.LessonRequest) (*domain.Course, error) {
	return nil, nil
}
func (m *MockCourseUsecase) DeleteLesson(ctx context.Context, actor domain.Actor, courseID, lessonID primitive.ObjectID) (*domain.Course, error) {
	return nil, nil
}
