package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"intellilearn-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ========== REVIEW USECASE ==========

type reviewUsecase struct {
	reviewRepo domain.ReviewRepository
	courseRepo domain.CourseRepository
}

func NewReviewUsecase(rr domain.ReviewRepository, cr domain.CourseRepository) domain.ReviewUsecase {
	return &reviewUsecase{reviewRepo: rr, courseRepo: cr}
}

func (uc *reviewUsecase) Create(ctx context.Context, userID, courseID primitive.ObjectID, req domain.ReviewRequest) (*domain.Review, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !course.HasStudent(userID) {
		return nil, domain.NewForbidden("only enrolled students may review")
	}
	if _, err := uc.reviewRepo.GetByCourseUser(ctx, courseID, userID); err == nil {
		return nil, domain.NewConflict("you already reviewed this course")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	review := &domain.Review{
		Course: courseID,
		User:   userID,
		Rating: req.Rating,
		Review: req.Review,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflict("you already reviewed this course")
		}
		return nil, err
	}

	if err := uc.recomputeRating(ctx, courseID); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *reviewUsecase) Update(ctx context.Context, actor domain.Actor, reviewID primitive.ObjectID, req domain.ReviewRequest) (*domain.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("review not found")
		}
		return nil, err
	}
	if !actor.Can(domain.ActionManage, review.User) {
		return nil, domain.NewForbidden("not your review")
	}

	review.Rating = req.Rating
	review.Review = req.Review
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	if err := uc.recomputeRating(ctx, review.Course); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *reviewUsecase) Delete(ctx context.Context, actor domain.Actor, reviewID primitive.ObjectID) error {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("review not found")
		}
		return err
	}
	if !actor.Can(domain.ActionManage, review.User) {
		return domain.NewForbidden("not your review")
	}

	if err := uc.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}
	return uc.recomputeRating(ctx, review.Course)
}

func (uc *reviewUsecase) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error) {
	return uc.reviewRepo.ListByCourse(ctx, courseID)
}

// recomputeRating refreshes the denormalized course rating, average rounded
// to one decimal.
func (uc *reviewUsecase) recomputeRating(ctx context.Context, courseID primitive.ObjectID) error {
	average, count, err := uc.reviewRepo.Stats(ctx, courseID)
	if err != nil {
		return err
	}
	rounded := math.Round(average*10) / 10
	return uc.courseRepo.UpdateRating(ctx, courseID, rounded, count)
}

// ========== BADGE USECASE ==========

type badgeUsecase struct {
	badgeRepo       domain.BadgeRepository
	achievementRepo domain.AchievementRepository
	userRepo        domain.UserRepository
}

func NewBadgeUsecase(br domain.BadgeRepository, ar domain.AchievementRepository, ur domain.UserRepository) domain.BadgeUsecase {
	return &badgeUsecase{badgeRepo: br, achievementRepo: ar, userRepo: ur}
}

func (uc *badgeUsecase) Create(ctx context.Context, req domain.BadgeRequest) (*domain.Badge, error) {
	if existing, _ := uc.badgeRepo.GetByName(ctx, req.Name); existing != nil {
		return nil, domain.NewConflict("a badge with this name already exists")
	}
	badge := &domain.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    req.Criteria,
		Points:      req.Points,
	}
	if err := uc.badgeRepo.Create(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (uc *badgeUsecase) Get(ctx context.Context, id primitive.ObjectID) (*domain.Badge, error) {
	badge, err := uc.badgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("badge not found")
		}
		return nil, err
	}
	return badge, nil
}

func (uc *badgeUsecase) Update(ctx context.Context, id primitive.ObjectID, req domain.BadgeRequest) (*domain.Badge, error) {
	badge, err := uc.badgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("badge not found")
		}
		return nil, err
	}
	badge.Name = req.Name
	badge.Description = req.Description
	badge.Icon = req.Icon
	badge.Criteria = req.Criteria
	badge.Points = req.Points
	if err := uc.badgeRepo.Update(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (uc *badgeUsecase) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := uc.badgeRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound("badge not found")
	}
	return err
}

func (uc *badgeUsecase) List(ctx context.Context) ([]domain.Badge, error) {
	return uc.badgeRepo.List(ctx)
}

// Award grants a badge directly, outside the automatic completion path. The
// (user, badge, course) unique index rejects a repeat award.
func (uc *badgeUsecase) Award(ctx context.Context, userID, badgeID primitive.ObjectID) (*domain.Achievement, error) {
	badge, err := uc.badgeRepo.GetByID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("badge not found")
		}
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}

	achievement := &domain.Achievement{User: userID, Badge: badge.ID}
	if err := uc.achievementRepo.Create(ctx, achievement); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflict("user already has this badge")
		}
		return nil, err
	}

	earned := domain.EarnedBadge{Badge: badge.ID, EarnedAt: achievement.EarnedAt}
	if err := uc.userRepo.AddBadge(ctx, userID, earned, badge.Points); err != nil {
		return nil, err
	}
	return achievement, nil
}

func (uc *badgeUsecase) ListMyAchievements(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	return uc.achievementRepo.ListByUser(ctx, userID)
}

// ========== DISCUSSION USECASE ==========

type discussionUsecase struct {
	discussionRepo domain.DiscussionRepository
	courseRepo     domain.CourseRepository
}

func NewDiscussionUsecase(dr domain.DiscussionRepository, cr domain.CourseRepository) domain.DiscussionUsecase {
	return &discussionUsecase{discussionRepo: dr, courseRepo: cr}
}

func (uc *discussionUsecase) memberCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !course.HasStudent(userID) && course.Instructor != userID {
		return nil, domain.NewForbidden("not a member of this course")
	}
	return course, nil
}

func (uc *discussionUsecase) Create(ctx context.Context, userID, courseID primitive.ObjectID, req domain.DiscussionRequest) (*domain.Discussion, error) {
	if _, err := uc.memberCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	discussion := &domain.Discussion{
		Course:  courseID,
		User:    userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := uc.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (uc *discussionUsecase) ListByCourse(ctx context.Context, userID, courseID primitive.ObjectID) ([]domain.Discussion, error) {
	if _, err := uc.memberCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return uc.discussionRepo.ListByCourse(ctx, courseID)
}

func (uc *discussionUsecase) Reply(ctx context.Context, userID, discussionID primitive.ObjectID, content string) (*domain.Discussion, error) {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("discussion not found")
		}
		return nil, err
	}
	if _, err := uc.memberCourse(ctx, userID, discussion.Course); err != nil {
		return nil, err
	}

	reply := domain.Reply{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := uc.discussionRepo.AddReply(ctx, discussionID, reply); err != nil {
		return nil, err
	}
	return uc.discussionRepo.GetByID(ctx, discussionID)
}

// RemoveReply deletes a single reply. The reply author or an admin may
// remove it.
func (uc *discussionUsecase) RemoveReply(ctx context.Context, actor domain.Actor, discussionID, replyID primitive.ObjectID) (*domain.Discussion, error) {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("discussion not found")
		}
		return nil, err
	}

	var reply *domain.Reply
	for i := range discussion.Replies {
		if discussion.Replies[i].ID == replyID {
			reply = &discussion.Replies[i]
			break
		}
	}
	if reply == nil {
		return nil, domain.NewNotFound("reply not found")
	}
	if !actor.Can(domain.ActionManage, reply.User) {
		return nil, domain.NewForbidden("not your reply")
	}

	if err := uc.discussionRepo.RemoveReply(ctx, discussionID, replyID); err != nil {
		return nil, err
	}
	return uc.discussionRepo.GetByID(ctx, discussionID)
}

func (uc *discussionUsecase) Delete(ctx context.Context, actor domain.Actor, discussionID primitive.ObjectID) error {
	discussion, err := uc.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("discussion not found")
		}
		return err
	}
	if !actor.Can(domain.ActionManage, discussion.User) {
		return domain.NewForbidden("not your discussion")
	}
	return uc.discussionRepo.Delete(ctx, discussionID)
}

// ========== ANNOUNCEMENT USECASE ==========

type announcementUsecase struct {
	announcementRepo domain.AnnouncementRepository
	courseRepo       domain.CourseRepository
	outboxRepo       domain.OutboxRepository
}

func NewAnnouncementUsecase(ar domain.AnnouncementRepository, cr domain.CourseRepository, or domain.OutboxRepository) domain.AnnouncementUsecase {
	return &announcementUsecase{announcementRepo: ar, courseRepo: cr, outboxRepo: or}
}

func (uc *announcementUsecase) Create(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID, req domain.AnnouncementRequest) (*domain.Announcement, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !actor.Can(domain.ActionManage, course.Instructor) {
		return nil, domain.NewForbidden("not the course instructor")
	}

	announcement := &domain.Announcement{
		Course:  courseID,
		User:    actor.ID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := uc.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	event := domain.AnnouncementCreatedEvent{CourseID: courseID.Hex(), Title: req.Title}
	if err := uc.outboxRepo.Enqueue(ctx, domain.TopicAnnouncementCreated, event); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (uc *announcementUsecase) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Announcement, error) {
	return uc.announcementRepo.ListByCourse(ctx, courseID)
}

func (uc *announcementUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.AnnouncementRequest) (*domain.Announcement, error) {
	announcement, err := uc.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("announcement not found")
		}
		return nil, err
	}
	if !actor.Can(domain.ActionManage, announcement.User) {
		return nil, domain.NewForbidden("not your announcement")
	}

	announcement.Title = req.Title
	announcement.Content = req.Content
	if err := uc.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (uc *announcementUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	announcement, err := uc.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("announcement not found")
		}
		return err
	}
	if !actor.Can(domain.ActionManage, announcement.User) {
		return domain.NewForbidden("not your announcement")
	}
	return uc.announcementRepo.Delete(ctx, id)
}

// ========== ATTENDANCE USECASE ==========

type attendanceUsecase struct {
	attendanceRepo domain.AttendanceRepository
	courseRepo     domain.CourseRepository
}

func NewAttendanceUsecase(ar domain.AttendanceRepository, cr domain.CourseRepository) domain.AttendanceUsecase {
	return &attendanceUsecase{attendanceRepo: ar, courseRepo: cr}
}

// Mark records a session's attendance. Re-marking the same session
// overwrites the earlier status.
func (uc *attendanceUsecase) Mark(ctx context.Context, actor domain.Actor, req domain.MarkAttendanceRequest) (*domain.Attendance, error) {
	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		return nil, domain.NewValidation("invalid student id")
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
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
	if !actor.Can(domain.ActionManage, course.Instructor) {
		return nil, domain.NewForbidden("not the course instructor")
	}
	if !course.HasStudent(studentID) {
		return nil, domain.NewValidation("student is not enrolled in this course")
	}

	record := &domain.Attendance{
		Student: studentID,
		Course:  courseID,
		Session: req.Session,
		Date:    req.Date,
		Status:  req.Status,
		Notes:   req.Notes,
	}
	if err := uc.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (uc *attendanceUsecase) ListByCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID, date *time.Time) ([]domain.Attendance, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !actor.Can(domain.ActionManage, course.Instructor) {
		return nil, domain.NewForbidden("not the course instructor")
	}
	return uc.attendanceRepo.ListByCourse(ctx, courseID, date)
}

func (uc *attendanceUsecase) MySummary(ctx context.Context, studentID, courseID primitive.ObjectID) (*domain.AttendanceSummary, error) {
	records, err := uc.attendanceRepo.ListByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	summary := &domain.AttendanceSummary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case domain.AttendancePresent:
			summary.Present++
		case domain.AttendanceAbsent:
			summary.Absent++
		case domain.AttendanceLate:
			summary.Late++
		}
	}
	if summary.Total > 0 {
		rate := float64(summary.Present+summary.Late) / float64(summary.Total) * 100
		summary.Rate = math.Round(rate*10) / 10
	}
	return summary, nil
}

// ========== NOTIFICATION USECASE ==========

type notificationUsecase struct {
	notificationRepo domain.NotificationRepository
}

func NewNotificationUsecase(nr domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{notificationRepo: nr}
}

func (uc *notificationUsecase) ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, int64, error) {
	notifications, err := uc.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (uc *notificationUsecase) owned(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("notification not found")
		}
		return err
	}
	if notification.User != userID {
		return domain.NewForbidden("not your notification")
	}
	return nil
}

func (uc *notificationUsecase) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	if err := uc.owned(ctx, userID, notificationID); err != nil {
		return err
	}
	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *notificationUsecase) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *notificationUsecase) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	if err := uc.owned(ctx, userID, notificationID); err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, notificationID)
}
