package usecase

import (
	"context"
	"errors"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type courseUsecase struct {
	courseRepo  domain.CourseRepository
	userRepo    domain.UserRepository
	paymentRepo domain.PaymentRepository
}

func NewCourseUsecase(cr domain.CourseRepository, ur domain.UserRepository, pr domain.PaymentRepository) domain.CourseUsecase {
	return &courseUsecase{courseRepo: cr, userRepo: ur, paymentRepo: pr}
}

func (uc *courseUsecase) Create(ctx context.Context, actor domain.Actor, req domain.CreateCourseRequest) (*domain.Course, error) {
	if !actor.IsStaff() {
		return nil, domain.NewForbidden("only instructors may create courses")
	}

	level := req.Level
	if level == "" {
		level = domain.LevelBeginner
	}

	lessons := make([]domain.Lesson, 0, len(req.Lessons))
	for _, l := range req.Lessons {
		lessons = append(lessons, domain.Lesson{
			ID:          primitive.NewObjectID(),
			Title:       l.Title,
			Description: l.Description,
			VideoURL:    l.VideoURL,
			Duration:    l.Duration,
			Attachments: l.Attachments,
		})
	}

	course := &domain.Course{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  actor.ID,
		Category:    req.Category,
		Tags:        req.Tags,
		Slug:        utils.Slugify(req.Title),
		Price:       req.Price,
		Thumbnail:   req.Thumbnail,
		Lessons:     lessons,
		Duration:    req.Duration,
		Level:       level,
		IsPublished: req.IsPublished,
	}
	if err := uc.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.NewConflict("a course with this slug already exists")
		}
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	return uc.courseRepo.List(ctx, filter)
}

// Get resolves by ObjectID hex first, then by slug.
func (uc *courseUsecase) Get(ctx context.Context, idOrSlug string) (*domain.Course, error) {
	if id, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		course, err := uc.courseRepo.GetByID(ctx, id)
		if err == nil {
			return course, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	course, err := uc.courseRepo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.UpdateCourseRequest) (*domain.Course, error) {
	course, err := uc.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Tags != nil {
		course.Tags = req.Tags
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	course, err := uc.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if len(course.StudentsEnrolled) > 0 {
		return domain.NewValidation("cannot delete a course with enrolled students")
	}
	return uc.courseRepo.Delete(ctx, id)
}

// Enroll admits a student into a course. Paid courses require a completed
// payment first; the payment flows call this after recording one.
func (uc *courseUsecase) Enroll(ctx context.Context, userID, courseID primitive.ObjectID) error {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("course not found")
		}
		return err
	}
	if !course.IsPublished {
		return domain.NewValidation("course is not published")
	}
	if course.HasStudent(userID) {
		return domain.ErrAlreadyEnrolled
	}
	if course.Price > 0 {
		if _, err := uc.paymentRepo.CompletedByStudentCourse(ctx, userID.Hex(), courseID.Hex()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidation("payment required before enrolling")
			}
			return err
		}
	}
	return uc.courseRepo.Enroll(ctx, courseID, userID)
}

func (uc *courseUsecase) Unenroll(ctx context.Context, userID, courseID primitive.ObjectID) error {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("course not found")
		}
		return err
	}
	if !course.HasStudent(userID) {
		return domain.NewValidation("not enrolled in this course")
	}
	return uc.courseRepo.Unenroll(ctx, courseID, userID)
}

func (uc *courseUsecase) ListEnrolled(ctx context.Context, userID primitive.ObjectID) ([]domain.Course, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user not found")
		}
		return nil, err
	}
	return uc.courseRepo.ListByIDs(ctx, user.CoursesEnrolled)
}

func (uc *courseUsecase) ListTeaching(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	return uc.courseRepo.ListByInstructor(ctx, instructorID)
}

// ========== LESSON MANAGEMENT ==========

func (uc *courseUsecase) AddLesson(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID, req domain.LessonRequest) (*domain.Course, error) {
	course, err := uc.getOwned(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	course.Lessons = append(course.Lessons, domain.Lesson{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Attachments: req.Attachments,
	})
	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) UpdateLesson(ctx context.Context, actor domain.Actor, courseID, lessonID primitive.ObjectID, req domain.LessonRequest) (*domain.Course, error) {
	course, err := uc.getOwned(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	lesson, ok := course.LessonByID(lessonID)
	if !ok {
		return nil, domain.NewNotFound("lesson not found")
	}
	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.VideoURL = req.VideoURL
	lesson.Duration = req.Duration
	lesson.Attachments = req.Attachments

	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) DeleteLesson(ctx context.Context, actor domain.Actor, courseID, lessonID primitive.ObjectID) (*domain.Course, error) {
	course, err := uc.getOwned(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	kept := course.Lessons[:0]
	found := false
	for _, l := range course.Lessons {
		if l.ID == lessonID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return nil, domain.NewNotFound("lesson not found")
	}
	course.Lessons = kept

	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) getOwned(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) (*domain.Course, error) {
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
	return course, nil
}
