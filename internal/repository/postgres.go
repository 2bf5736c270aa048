package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"intellilearn-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ========== PAYMENT REPOSITORY ==========

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", txID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) ListAll(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).Order("payment_date DESC").Find(&payments).Error
	return payments, err
}

// Transition locks the row, checks the state machine and applies the move in
// one transaction.
func (r *paymentRepo) Transition(ctx context.Context, txID string, to domain.PaymentStatus) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("transaction_id = ?", txID).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if !payment.Status.CanTransition(to) {
			return domain.NewConflict(fmt.Sprintf("payment cannot move from %s to %s", payment.Status, to))
		}

		updates := map[string]interface{}{"status": to}
		if to == domain.PaymentRefunded {
			now := time.Now()
			updates["refunded_at"] = &now
			payment.RefundedAt = &now
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) CompletedByStudentCourse(ctx context.Context, studentID, courseID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, domain.PaymentCompleted).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ========== OUTBOX REPOSITORY ==========

type outboxRepo struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) domain.OutboxRepository {
	return &outboxRepo{db}
}

func (r *outboxRepo) Enqueue(ctx context.Context, topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := domain.OutboxEvent{
		Topic:   topic,
		Payload: string(raw),
		Status:  domain.OutboxPending,
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *outboxRepo) ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	var events []domain.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.OutboxPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepo) MarkSent(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": domain.OutboxSent, "sent_at": &now}).Error
}

// MarkFailed bumps the attempt counter and, once the retry budget is spent,
// moves the row to the terminal failed status so ListPending stops
// re-listing it.
func (r *outboxRepo) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
			"status": gorm.Expr("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END",
				domain.OutboxMaxAttempts, domain.OutboxFailed),
		}).Error
}
