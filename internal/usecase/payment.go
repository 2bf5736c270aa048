package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"intellilearn-backend/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type paymentUsecase struct {
	paymentRepo domain.PaymentRepository
	courseRepo  domain.CourseRepository
	userRepo    domain.UserRepository
	courseUC    domain.CourseUsecase
	gateway     domain.PaymentGateway
}

func NewPaymentUsecase(
	pr domain.PaymentRepository,
	cr domain.CourseRepository,
	ur domain.UserRepository,
	cu domain.CourseUsecase,
	gw domain.PaymentGateway,
) domain.PaymentUsecase {
	return &paymentUsecase{paymentRepo: pr, courseRepo: cr, userRepo: ur, courseUC: cu, gateway: gw}
}

// pointsPerCurrencyUnit converts a course price into its badge point cost.
const pointsPerCurrencyUnit = 10

func (uc *paymentUsecase) checkout(ctx context.Context, userID primitive.ObjectID, courseIDHex string) (*domain.Course, error) {
	courseID, err := primitive.ObjectIDFromHex(courseIDHex)
	if err != nil {
		return nil, domain.NewValidation("invalid course id")
	}
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, domain.NewValidation("course is not published")
	}
	if course.Price <= 0 {
		return nil, domain.NewValidation("course is free, enroll directly")
	}
	if course.HasStudent(userID) {
		return nil, domain.ErrAlreadyEnrolled
	}
	return course, nil
}

// ProcessGateway opens a payment intent with the provider and records a
// pending ledger row. The webhook completes it.
func (uc *paymentUsecase) ProcessGateway(ctx context.Context, userID primitive.ObjectID, req domain.ProcessPaymentRequest) (*domain.Payment, *domain.PaymentIntent, error) {
	course, err := uc.checkout(ctx, userID, req.CourseID)
	if err != nil {
		return nil, nil, err
	}

	reference := userID.Hex() + ":" + course.ID.Hex()
	intent, err := uc.gateway.CreateIntent(ctx, course.Price, "USD", reference)
	if err != nil {
		return nil, nil, domain.NewExternal("payment gateway unavailable", err)
	}

	payment := &domain.Payment{
		StudentID:     userID.Hex(),
		CourseID:      course.ID.Hex(),
		Amount:        course.Price,
		Currency:      "USD",
		PaymentMethod: req.PaymentMethod,
		TransactionID: intent.TransactionID,
		Status:        domain.PaymentPending,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, err
	}
	return payment, intent, nil
}

type webhookPayload struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// HandleWebhook settles a pending payment from a provider callback. An
// invalid signature drops the event.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !uc.gateway.VerifySignature(payload, signature) {
		return domain.NewValidation("invalid webhook signature")
	}

	var event webhookPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.NewValidation("malformed webhook payload")
	}

	switch event.Status {
	case "succeeded", "completed":
		payment, err := uc.paymentRepo.Transition(ctx, event.TransactionID, domain.PaymentCompleted)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFound("unknown transaction")
			}
			return err
		}
		return uc.enrollPaid(ctx, payment)
	case "failed":
		_, err := uc.paymentRepo.Transition(ctx, event.TransactionID, domain.PaymentFailed)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("unknown transaction")
		}
		return err
	default:
		return domain.NewValidation("unknown webhook status")
	}
}

func (uc *paymentUsecase) enrollPaid(ctx context.Context, payment *domain.Payment) error {
	studentID, err := primitive.ObjectIDFromHex(payment.StudentID)
	if err != nil {
		return err
	}
	courseID, err := primitive.ObjectIDFromHex(payment.CourseID)
	if err != nil {
		return err
	}
	err = uc.courseUC.Enroll(ctx, studentID, courseID)
	if err != nil {
		// A duplicate webhook delivery can race the first enrollment.
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			log.Println("payment", payment.TransactionID, "already enrolled, skipping")
			return nil
		}
		return err
	}
	return nil
}

// SimpleProcess settles a demo payment synchronously, no provider involved.
func (uc *paymentUsecase) SimpleProcess(ctx context.Context, userID primitive.ObjectID, req domain.ProcessPaymentRequest) (*domain.Payment, error) {
	course, err := uc.checkout(ctx, userID, req.CourseID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		StudentID:     userID.Hex(),
		CourseID:      course.ID.Hex(),
		Amount:        course.Price,
		Currency:      "USD",
		PaymentMethod: req.PaymentMethod,
		TransactionID: "DEMO_" + uuid.NewString(),
		Status:        domain.PaymentPending,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	payment, err = uc.paymentRepo.Transition(ctx, payment.TransactionID, domain.PaymentCompleted)
	if err != nil {
		return nil, err
	}
	if err := uc.enrollPaid(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RedeemPoints buys a course with badge points at pointsPerCurrencyUnit
// per unit of price.
func (uc *paymentUsecase) RedeemPoints(ctx context.Context, userID primitive.ObjectID, courseID primitive.ObjectID) (*domain.Payment, error) {
	course, err := uc.checkout(ctx, userID, courseID.Hex())
	if err != nil {
		return nil, err
	}

	cost := int(course.Price * pointsPerCurrencyUnit)
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.BadgePoints < cost {
		return nil, domain.NewValidation("not enough badge points")
	}

	if err := uc.userRepo.AdjustBadgePoints(ctx, userID, -cost); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		StudentID:     userID.Hex(),
		CourseID:      course.ID.Hex(),
		Amount:        course.Price,
		Currency:      "USD",
		PaymentMethod: "points",
		TransactionID: "POINTS_" + uuid.NewString(),
		Status:        domain.PaymentPending,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	payment, err = uc.paymentRepo.Transition(ctx, payment.TransactionID, domain.PaymentCompleted)
	if err != nil {
		return nil, err
	}
	if err := uc.enrollPaid(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Refund moves a completed payment to refunded and removes the enrollment.
func (uc *paymentUsecase) Refund(ctx context.Context, actor domain.Actor, id uint) (*domain.Payment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.NewForbidden("only admins may refund payments")
	}

	payment, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("payment not found")
		}
		return nil, err
	}

	payment, err = uc.paymentRepo.Transition(ctx, payment.TransactionID, domain.PaymentRefunded)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("payment not found")
		}
		return nil, err
	}

	studentID, err := primitive.ObjectIDFromHex(payment.StudentID)
	if err != nil {
		return nil, err
	}
	courseID, err := primitive.ObjectIDFromHex(payment.CourseID)
	if err != nil {
		return nil, err
	}
	if err := uc.courseUC.Unenroll(ctx, studentID, courseID); err != nil {
		// Refund stands even if the student already left the course.
		log.Println("refund", payment.TransactionID, "unenroll:", err)
	}
	return payment, nil
}

func (uc *paymentUsecase) History(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	return uc.paymentRepo.ListByStudent(ctx, userID.Hex())
}

func (uc *paymentUsecase) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return uc.paymentRepo.ListAll(ctx)
}

func (uc *paymentUsecase) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.Payment, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("payment not found")
		}
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && payment.StudentID != actor.ID.Hex() {
		return nil, domain.NewForbidden("not your payment")
	}
	return payment, nil
}
