package usecase_test

import (
	"context"
	"strings"
	"testing"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPaymentFixture() (*MockPaymentRepo, *MockCourseRepo, *MockUserRepo, *MockCourseUsecase, *MockGateway, domain.PaymentUsecase) {
	paymentRepo := new(MockPaymentRepo)
	courseRepo := new(MockCourseRepo)
	userRepo := new(MockUserRepo)
	courseUC := new(MockCourseUsecase)
	gateway := new(MockGateway)
	uc := usecase.NewPaymentUsecase(paymentRepo, courseRepo, userRepo, courseUC, gateway)
	return paymentRepo, courseRepo, userRepo, courseUC, gateway, uc
}

func paidCourse(id primitive.ObjectID, price float64) *domain.Course {
	return &domain.Course{
		ID:          id,
		Title:       "Distributed Systems",
		Price:       price,
		IsPublished: true,
	}
}

func TestSimpleProcess(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	req := domain.ProcessPaymentRequest{CourseID: courseID.Hex(), PaymentMethod: "demo"}

	t.Run("settles the payment and enrolls the student", func(t *testing.T) {
		paymentRepo, courseRepo, _, courseUC, _, uc := newPaymentFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(paidCourse(courseID, 49.99), nil).Once()
		paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return strings.HasPrefix(p.TransactionID, "DEMO_") && p.Status == domain.PaymentPending
		})).Return(nil).Once()
		completed := &domain.Payment{
			StudentID: userID.Hex(),
			CourseID:  courseID.Hex(),
			Amount:    49.99,
			Status:    domain.PaymentCompleted,
		}
		paymentRepo.On("Transition", mock.Anything, mock.MatchedBy(func(tx string) bool {
			return strings.HasPrefix(tx, "DEMO_")
		}), domain.PaymentCompleted).Return(completed, nil).Once()
		courseUC.On("Enroll", mock.Anything, userID, courseID).Return(nil).Once()

		payment, err := uc.SimpleProcess(ctx, userID, req)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentCompleted, payment.Status)
		paymentRepo.AssertExpectations(t)
		courseUC.AssertExpectations(t)
	})

	t.Run("rejects a free course", func(t *testing.T) {
		paymentRepo, courseRepo, _, _, _, uc := newPaymentFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(paidCourse(courseID, 0), nil).Once()

		_, err := uc.SimpleProcess(ctx, userID, req)

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unpublished course", func(t *testing.T) {
		_, courseRepo, _, _, _, uc := newPaymentFixture()

		course := paidCourse(courseID, 49.99)
		course.IsPublished = false
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.SimpleProcess(ctx, userID, req)

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
	})

	t.Run("rejects a student who already owns the course", func(t *testing.T) {
		_, courseRepo, _, _, _, uc := newPaymentFixture()

		course := paidCourse(courseID, 49.99)
		course.StudentsEnrolled = []primitive.ObjectID{userID}
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.SimpleProcess(ctx, userID, req)

		assert.Error(t, err)
		assert.Equal(t, "already enrolled in this course", domain.MessageOf(err))
	})
}

func TestRedeemPoints(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	t.Run("deducts points and enrolls", func(t *testing.T) {
		paymentRepo, courseRepo, userRepo, courseUC, _, uc := newPaymentFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(paidCourse(courseID, 10), nil).Once()
		userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, BadgePoints: 600}, nil).Once()
		userRepo.On("AdjustBadgePoints", mock.Anything, userID, -100).Return(nil).Once()
		paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return strings.HasPrefix(p.TransactionID, "POINTS_") && p.PaymentMethod == "points"
		})).Return(nil).Once()
		completed := &domain.Payment{StudentID: userID.Hex(), CourseID: courseID.Hex(), Status: domain.PaymentCompleted}
		paymentRepo.On("Transition", mock.Anything, mock.Anything, domain.PaymentCompleted).Return(completed, nil).Once()
		courseUC.On("Enroll", mock.Anything, userID, courseID).Return(nil).Once()

		payment, err := uc.RedeemPoints(ctx, userID, courseID)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentCompleted, payment.Status)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects an insufficient balance", func(t *testing.T) {
		_, courseRepo, userRepo, _, _, uc := newPaymentFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(paidCourse(courseID, 10), nil).Once()
		userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, BadgePoints: 50}, nil).Once()

		_, err := uc.RedeemPoints(ctx, userID, courseID)

		assert.Error(t, err)
		assert.Equal(t, "not enough badge points", domain.MessageOf(err))
		userRepo.AssertNotCalled(t, "AdjustBadgePoints", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	t.Run("drops an event with an invalid signature", func(t *testing.T) {
		paymentRepo, _, _, _, gateway, uc := newPaymentFixture()

		payload := []byte(`{"transaction_id":"TX1","status":"succeeded"}`)
		gateway.On("VerifySignature", payload, "bogus").Return(false).Once()

		err := uc.HandleWebhook(ctx, payload, "bogus")

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
		paymentRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completes the payment on success", func(t *testing.T) {
		paymentRepo, _, _, courseUC, gateway, uc := newPaymentFixture()

		payload := []byte(`{"transaction_id":"TX1","status":"succeeded"}`)
		gateway.On("VerifySignature", payload, "sig").Return(true).Once()
		completed := &domain.Payment{
			StudentID:     studentID.Hex(),
			CourseID:      courseID.Hex(),
			TransactionID: "TX1",
			Status:        domain.PaymentCompleted,
		}
		paymentRepo.On("Transition", mock.Anything, "TX1", domain.PaymentCompleted).Return(completed, nil).Once()
		courseUC.On("Enroll", mock.Anything, studentID, courseID).Return(nil).Once()

		err := uc.HandleWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
		courseUC.AssertExpectations(t)
	})

	t.Run("tolerates a duplicate delivery", func(t *testing.T) {
		paymentRepo, _, _, courseUC, gateway, uc := newPaymentFixture()

		payload := []byte(`{"transaction_id":"TX1","status":"succeeded"}`)
		gateway.On("VerifySignature", payload, "sig").Return(true).Once()
		completed := &domain.Payment{
			StudentID:     studentID.Hex(),
			CourseID:      courseID.Hex(),
			TransactionID: "TX1",
			Status:        domain.PaymentCompleted,
		}
		paymentRepo.On("Transition", mock.Anything, "TX1", domain.PaymentCompleted).Return(completed, nil).Once()
		courseUC.On("Enroll", mock.Anything, studentID, courseID).Return(domain.ErrAlreadyEnrolled).Once()

		err := uc.HandleWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
	})

	t.Run("records a failed charge", func(t *testing.T) {
		paymentRepo, _, _, _, gateway, uc := newPaymentFixture()

		payload := []byte(`{"transaction_id":"TX2","status":"failed"}`)
		gateway.On("VerifySignature", payload, "sig").Return(true).Once()
		failed := &domain.Payment{TransactionID: "TX2", Status: domain.PaymentFailed}
		paymentRepo.On("Transition", mock.Anything, "TX2", domain.PaymentFailed).Return(failed, nil).Once()

		err := uc.HandleWebhook(ctx, payload, "sig")

		assert.NoError(t, err)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, _, _, _, gateway, uc := newPaymentFixture()

		payload := []byte(`{"transaction_id":"TX3","status":"sideways"}`)
		gateway.On("VerifySignature", payload, "sig").Return(true).Once()

		err := uc.HandleWebhook(ctx, payload, "sig")

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	admin := domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	completed := func() *domain.Payment {
		return &domain.Payment{
			ID:            7,
			StudentID:     studentID.Hex(),
			CourseID:      courseID.Hex(),
			TransactionID: "TX1",
			Status:        domain.PaymentCompleted,
		}
	}

	t.Run("requires the admin role", func(t *testing.T) {
		paymentRepo, _, _, _, _, uc := newPaymentFixture()

		student := domain.Actor{ID: studentID, Role: domain.RoleStudent}
		_, err := uc.Refund(ctx, student, 7)

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
		paymentRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refunds by ledger id and unenrolls", func(t *testing.T) {
		paymentRepo, _, _, courseUC, _, uc := newPaymentFixture()

		refunded := completed()
		refunded.Status = domain.PaymentRefunded
		paymentRepo.On("GetByID", mock.Anything, uint(7)).Return(completed(), nil).Once()
		paymentRepo.On("Transition", mock.Anything, "TX1", domain.PaymentRefunded).Return(refunded, nil).Once()
		courseUC.On("Unenroll", mock.Anything, studentID, courseID).Return(nil).Once()

		payment, err := uc.Refund(ctx, admin, 7)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, payment.Status)
		courseUC.AssertExpectations(t)
	})

	t.Run("rejects an unknown payment", func(t *testing.T) {
		paymentRepo, _, _, _, _, uc := newPaymentFixture()

		paymentRepo.On("GetByID", mock.Anything, uint(7)).Return(nil, domain.ErrNotFound).Once()

		_, err := uc.Refund(ctx, admin, 7)

		assert.Error(t, err)
		assert.Equal(t, 404, domain.StatusOf(err))
		paymentRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stands when the student already left the course", func(t *testing.T) {
		paymentRepo, _, _, courseUC, _, uc := newPaymentFixture()

		refunded := completed()
		refunded.Status = domain.PaymentRefunded
		paymentRepo.On("GetByID", mock.Anything, uint(7)).Return(completed(), nil).Once()
		paymentRepo.On("Transition", mock.Anything, "TX1", domain.PaymentRefunded).Return(refunded, nil).Once()
		courseUC.On("Unenroll", mock.Anything, studentID, courseID).Return(domain.NewValidation("not enrolled in this course")).Once()

		payment, err := uc.Refund(ctx, admin, 7)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, payment.Status)
	})
}

func TestGetPayment(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()

	t.Run("hides other students' payments", func(t *testing.T) {
		paymentRepo, _, _, _, _, uc := newPaymentFixture()

		paymentRepo.On("GetByID", mock.Anything, uint(7)).Return(&domain.Payment{ID: 7, StudentID: ownerID.Hex()}, nil).Once()

		stranger := domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
		_, err := uc.Get(ctx, stranger, 7)

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
	})

	t.Run("returns the owner's payment", func(t *testing.T) {
		paymentRepo, _, _, _, _, uc := newPaymentFixture()

		paymentRepo.On("GetByID", mock.Anything, uint(7)).Return(&domain.Payment{ID: 7, StudentID: ownerID.Hex()}, nil).Once()

		payment, err := uc.Get(ctx, domain.Actor{ID: ownerID, Role: domain.RoleStudent}, 7)

		assert.NoError(t, err)
		assert.Equal(t, uint(7), payment.ID)
	})
}
