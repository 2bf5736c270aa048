package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"intellilearn-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// completionBadgeName is the badge granted when a course hits 100%.
const completionBadgeName = "Course Completion"

type progressUsecase struct {
	progressRepo    domain.ProgressRepository
	courseRepo      domain.CourseRepository
	userRepo        domain.UserRepository
	badgeRepo       domain.BadgeRepository
	achievementRepo domain.AchievementRepository
}

func NewProgressUsecase(
	pr domain.ProgressRepository,
	cr domain.CourseRepository,
	ur domain.UserRepository,
	br domain.BadgeRepository,
	ar domain.AchievementRepository,
) domain.ProgressUsecase {
	return &progressUsecase{
		progressRepo:    pr,
		courseRepo:      cr,
		userRepo:        ur,
		badgeRepo:       br,
		achievementRepo: ar,
	}
}

// ToggleLesson flips a lesson's completion state. Marking the same lesson
// twice lands back where it started.
func (uc *progressUsecase) ToggleLesson(ctx context.Context, userID, courseID, lessonID primitive.ObjectID) (*domain.ProgressDetail, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !course.HasStudent(userID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}
	if len(course.Lessons) == 0 {
		return nil, domain.NewValidation("course has no lessons")
	}
	if _, ok := course.LessonByID(lessonID); !ok {
		return nil, domain.NewNotFound("lesson not found in this course")
	}

	progress, err := uc.progressRepo.GetByUserCourse(ctx, userID, courseID)
	if errors.Is(err, domain.ErrNotFound) {
		progress = &domain.Progress{User: userID, Course: courseID}
		if err := uc.progressRepo.Create(ctx, progress); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if progress.HasLesson(lessonID) {
		kept := progress.LessonsCompleted[:0]
		for _, l := range progress.LessonsCompleted {
			if l.LessonID != lessonID {
				kept = append(kept, l)
			}
		}
		progress.LessonsCompleted = kept
	} else {
		progress.LessonsCompleted = append(progress.LessonsCompleted, domain.CompletedLesson{
			LessonID:    lessonID,
			CompletedAt: time.Now(),
		})
	}

	progress.OverallProgress = completionPercent(len(progress.LessonsCompleted), len(course.Lessons))
	progress.LastAccessed = time.Now()

	justCompleted := false
	if progress.OverallProgress == 100 {
		if progress.CompletedAt == nil {
			now := time.Now()
			progress.CompletedAt = &now
			justCompleted = true
		}
	} else {
		progress.CompletedAt = nil
	}

	if err := uc.progressRepo.Update(ctx, progress); err != nil {
		return nil, err
	}

	if justCompleted {
		// Award failures never fail the toggle.
		if err := uc.awardCompletionBadge(ctx, userID, courseID); err != nil {
			log.Println("awarding completion badge:", err)
		}
	}

	return uc.detail(progress, course, ""), nil
}

// awardCompletionBadge grants the completion badge at most once per
// (user, course); the achievements unique index is the idempotency guard.
func (uc *progressUsecase) awardCompletionBadge(ctx context.Context, userID, courseID primitive.ObjectID) error {
	badge, err := uc.badgeRepo.GetByName(ctx, completionBadgeName)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	achievement := &domain.Achievement{User: userID, Badge: badge.ID, Course: courseID}
	if err := uc.achievementRepo.Create(ctx, achievement); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	earned := domain.EarnedBadge{Badge: badge.ID, Course: courseID, EarnedAt: achievement.EarnedAt}
	return uc.userRepo.AddBadge(ctx, userID, earned, badge.Points)
}

func (uc *progressUsecase) GetMine(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.ProgressDetail, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}

	progress, err := uc.progressRepo.GetByUserCourse(ctx, userID, courseID)
	if errors.Is(err, domain.ErrNotFound) {
		// No record yet reads as zero progress.
		progress = &domain.Progress{
			User:             userID,
			Course:           courseID,
			LessonsCompleted: []domain.CompletedLesson{},
		}
	} else if err != nil {
		return nil, err
	}

	return uc.detail(progress, course, ""), nil
}

func (uc *progressUsecase) ListMine(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressDetail, error) {
	records, err := uc.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ProgressDetail, 0, len(records))
	for i := range records {
		course, err := uc.courseRepo.GetByID(ctx, records[i].Course)
		if err != nil {
			continue
		}
		details = append(details, *uc.detail(&records[i], course, ""))
	}
	return details, nil
}

func (uc *progressUsecase) ListByCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) ([]domain.ProgressDetail, error) {
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

	records, err := uc.progressRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ProgressDetail, 0, len(records))
	for i := range records {
		name := ""
		if student, err := uc.userRepo.GetByID(ctx, records[i].User); err == nil {
			name = student.Name
		}
		details = append(details, *uc.detail(&records[i], course, name))
	}
	return details, nil
}

// ListAll is the admin view over every progress record.
func (uc *progressUsecase) ListAll(ctx context.Context) ([]domain.ProgressDetail, error) {
	records, err := uc.progressRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ProgressDetail, 0, len(records))
	for i := range records {
		course, err := uc.courseRepo.GetByID(ctx, records[i].Course)
		if err != nil {
			continue
		}
		name := ""
		if student, err := uc.userRepo.GetByID(ctx, records[i].User); err == nil {
			name = student.Name
		}
		details = append(details, *uc.detail(&records[i], course, name))
	}
	return details, nil
}

func (uc *progressUsecase) detail(progress *domain.Progress, course *domain.Course, studentName string) *domain.ProgressDetail {
	completed := make([]string, 0, len(progress.LessonsCompleted))
	for _, l := range progress.LessonsCompleted {
		completed = append(completed, l.LessonID.Hex())
	}
	return &domain.ProgressDetail{
		Progress:             *progress,
		CompletionPercentage: completionPercent(len(progress.LessonsCompleted), len(course.Lessons)),
		CompletedLessons:     completed,
		TotalLessons:         len(course.Lessons),
		StudentName:          studentName,
		CourseTitle:          course.Title,
	}
}

func completionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
