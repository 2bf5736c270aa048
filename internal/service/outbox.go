package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"intellilearn-backend/internal/domain"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dispatchBatchSize = 50

// OutboxDispatcher drains pending outbox events on a schedule, fanning each
// one out to in-app notifications and email. Mutations that enqueue events
// never wait on delivery.
type OutboxDispatcher struct {
	outbox  domain.OutboxRepository
	notifs  domain.NotificationRepository
	users   domain.UserRepository
	courses domain.CourseRepository
	mailer  domain.Mailer
	cron    *cron.Cron
}

func NewOutboxDispatcher(
	outbox domain.OutboxRepository,
	notifs domain.NotificationRepository,
	users domain.UserRepository,
	courses domain.CourseRepository,
	mailer domain.Mailer,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		outbox:  outbox,
		notifs:  notifs,
		users:   users,
		courses: courses,
		mailer:  mailer,
		cron:    cron.New(),
	}
}

// Start schedules the drain loop. Stop halts it.
func (d *OutboxDispatcher) Start() error {
	_, err := d.cron.AddFunc("@every 30s", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := d.Drain(ctx); err != nil {
			log.Println("outbox drain:", err)
		}
	})
	if err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

func (d *OutboxDispatcher) Stop() {
	d.cron.Stop()
}

// Drain processes one batch of pending events.
func (d *OutboxDispatcher) Drain(ctx context.Context) error {
	events, err := d.outbox.ListPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}
	for _, event := range events {
		// MarkFailed retires the row once the attempt budget is spent.
		if event.Attempts >= domain.OutboxMaxAttempts {
			if err := d.outbox.MarkFailed(ctx, event.ID, "max attempts exceeded"); err != nil {
				log.Println("outbox mark failed:", err)
			}
			continue
		}
		if err := d.dispatch(ctx, event); err != nil {
			if markErr := d.outbox.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Println("outbox mark failed:", markErr)
			}
			continue
		}
		if err := d.outbox.MarkSent(ctx, event.ID); err != nil {
			log.Println("outbox mark sent:", err)
		}
	}
	return nil
}

func (d *OutboxDispatcher) dispatch(ctx context.Context, event domain.OutboxEvent) error {
	switch event.Topic {
	case domain.TopicGradeUpdated:
		return d.dispatchGrade(ctx, event)
	case domain.TopicAnnouncementCreated:
		return d.dispatchAnnouncement(ctx, event)
	default:
		return fmt.Errorf("unknown topic %q", event.Topic)
	}
}

func (d *OutboxDispatcher) dispatchGrade(ctx context.Context, event domain.OutboxEvent) error {
	var payload domain.GradeUpdatedEvent
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}
	studentID, err := primitive.ObjectIDFromHex(payload.StudentID)
	if err != nil {
		return err
	}
	courseID, err := primitive.ObjectIDFromHex(payload.CourseID)
	if err != nil {
		return err
	}

	student, err := d.users.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	course, err := d.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your submission for %q in %s was graded: %.1f", payload.AssignmentTitle, course.Title, payload.Grade)
	notif := domain.Notification{
		User:     studentID,
		Title:    "Assignment graded",
		Message:  message,
		Type:     domain.NotifGrade,
		CourseID: &courseID,
	}
	if err := d.notifs.Create(ctx, &notif); err != nil {
		return err
	}
	return d.mailer.Send(ctx, student.Email, "Assignment graded", message)
}

func (d *OutboxDispatcher) dispatchAnnouncement(ctx context.Context, event domain.OutboxEvent) error {
	var payload domain.AnnouncementCreatedEvent
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}
	courseID, err := primitive.ObjectIDFromHex(payload.CourseID)
	if err != nil {
		return err
	}

	course, err := d.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	notifs := make([]domain.Notification, 0, len(course.StudentsEnrolled))
	for _, studentID := range course.StudentsEnrolled {
		notifs = append(notifs, domain.Notification{
			User:     studentID,
			Title:    "New announcement in " + course.Title,
			Message:  payload.Title,
			Type:     domain.NotifAnnouncement,
			CourseID: &courseID,
		})
	}
	return d.notifs.CreateMany(ctx, notifs)
}
