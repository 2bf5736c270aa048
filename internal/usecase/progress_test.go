package usecase_test

import (
	"context"
	"testing"
	"time"

	"intellilearn-backend/internal/domain"
	"intellilearn-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProgressFixture() (*MockProgressRepo, *MockCourseRepo, *MockUserRepo, *MockBadgeRepo, *MockAchievementRepo, domain.ProgressUsecase) {
	progressRepo := new(MockProgressRepo)
	courseRepo := new(MockCourseRepo)
	userRepo := new(MockUserRepo)
	badgeRepo := new(MockBadgeRepo)
	achievementRepo := new(MockAchievementRepo)
	uc := usecase.NewProgressUsecase(progressRepo, courseRepo, userRepo, badgeRepo, achievementRepo)
	return progressRepo, courseRepo, userRepo, badgeRepo, achievementRepo, uc
}

func TestToggleLesson(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	lessonA := primitive.NewObjectID()
	lessonB := primitive.NewObjectID()

	course := &domain.Course{
		ID:               courseID,
		Title:            "Go Fundamentals",
		Lessons:          []domain.Lesson{{ID: lessonA, Title: "Intro"}, {ID: lessonB, Title: "Types"}},
		StudentsEnrolled: []primitive.ObjectID{userID},
	}

	t.Run("marks an uncompleted lesson", func(t *testing.T) {
		progressRepo, courseRepo, _, _, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(nil, domain.ErrNotFound).Once()
		progressRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()

		detail, err := uc.ToggleLesson(ctx, userID, courseID, lessonA)

		assert.NoError(t, err)
		assert.Equal(t, 50, detail.CompletionPercentage)
		assert.Equal(t, []string{lessonA.Hex()}, detail.CompletedLessons)
		assert.Nil(t, detail.CompletedAt)
		progressRepo.AssertExpectations(t)
	})

	t.Run("unmarks a completed lesson", func(t *testing.T) {
		progressRepo, courseRepo, _, _, _, uc := newProgressFixture()

		existing := &domain.Progress{
			User:   userID,
			Course: courseID,
			LessonsCompleted: []domain.CompletedLesson{
				{LessonID: lessonA, CompletedAt: time.Now()},
			},
			OverallProgress: 50,
		}
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(existing, nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()

		detail, err := uc.ToggleLesson(ctx, userID, courseID, lessonA)

		assert.NoError(t, err)
		assert.Equal(t, 0, detail.CompletionPercentage)
		assert.Empty(t, detail.CompletedLessons)
	})

	t.Run("rounds the percentage to the nearest integer", func(t *testing.T) {
		progressRepo, courseRepo, _, _, _, uc := newProgressFixture()

		three := &domain.Course{
			ID: courseID,
			Lessons: []domain.Lesson{
				{ID: lessonA}, {ID: lessonB}, {ID: primitive.NewObjectID()},
			},
			StudentsEnrolled: []primitive.ObjectID{userID},
		}
		courseRepo.On("GetByID", mock.Anything, courseID).Return(three, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(&domain.Progress{User: userID, Course: courseID}, nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()

		detail, err := uc.ToggleLesson(ctx, userID, courseID, lessonA)

		assert.NoError(t, err)
		assert.Equal(t, 33, detail.CompletionPercentage)
	})

	t.Run("rejects a student who is not enrolled", func(t *testing.T) {
		progressRepo, courseRepo, _, _, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.ToggleLesson(ctx, primitive.NewObjectID(), courseID, lessonA)

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
		progressRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects a course with no lessons", func(t *testing.T) {
		_, courseRepo, _, _, _, uc := newProgressFixture()

		empty := &domain.Course{ID: courseID, StudentsEnrolled: []primitive.ObjectID{userID}}
		courseRepo.On("GetByID", mock.Anything, courseID).Return(empty, nil).Once()

		_, err := uc.ToggleLesson(ctx, userID, courseID, lessonA)

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
	})

	t.Run("rejects a lesson from another course", func(t *testing.T) {
		_, courseRepo, _, _, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.ToggleLesson(ctx, userID, courseID, primitive.NewObjectID())

		assert.Error(t, err)
		assert.Equal(t, 404, domain.StatusOf(err))
	})
}

func TestToggleLessonCompletionBadge(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	lessonID := primitive.NewObjectID()
	badgeID := primitive.NewObjectID()

	course := &domain.Course{
		ID:               courseID,
		Lessons:          []domain.Lesson{{ID: lessonID}},
		StudentsEnrolled: []primitive.ObjectID{userID},
	}
	badge := &domain.Badge{ID: badgeID, Name: "Course Completion", Points: 100}

	t.Run("awards the badge at 100 percent", func(t *testing.T) {
		progressRepo, courseRepo, userRepo, badgeRepo, achievementRepo, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(&domain.Progress{User: userID, Course: courseID}, nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()
		badgeRepo.On("GetByName", mock.Anything, "Course Completion").Return(badge, nil).Once()
		achievementRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Achievement")).Return(nil).Once()
		userRepo.On("AddBadge", mock.Anything, userID, mock.AnythingOfType("domain.EarnedBadge"), 100).Return(nil).Once()

		detail, err := uc.ToggleLesson(ctx, userID, courseID, lessonID)

		assert.NoError(t, err)
		assert.Equal(t, 100, detail.CompletionPercentage)
		assert.NotNil(t, detail.CompletedAt)
		userRepo.AssertExpectations(t)
	})

	t.Run("skips the award when the achievement already exists", func(t *testing.T) {
		progressRepo, courseRepo, userRepo, badgeRepo, achievementRepo, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(&domain.Progress{User: userID, Course: courseID}, nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()
		badgeRepo.On("GetByName", mock.Anything, "Course Completion").Return(badge, nil).Once()
		achievementRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Achievement")).Return(domain.ErrDuplicateKey).Once()

		_, err := uc.ToggleLesson(ctx, userID, courseID, lessonID)

		assert.NoError(t, err)
		userRepo.AssertNotCalled(t, "AddBadge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tolerates a missing badge definition", func(t *testing.T) {
		progressRepo, courseRepo, userRepo, badgeRepo, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(&domain.Progress{User: userID, Course: courseID}, nil).Once()
		progressRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Progress")).Return(nil).Once()
		badgeRepo.On("GetByName", mock.Anything, "Course Completion").Return(nil, domain.ErrNotFound).Once()

		detail, err := uc.ToggleLesson(ctx, userID, courseID, lessonID)

		assert.NoError(t, err)
		assert.Equal(t, 100, detail.CompletionPercentage)
		userRepo.AssertNotCalled(t, "AddBadge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetMine(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	course := &domain.Course{
		ID:      courseID,
		Title:   "Go Fundamentals",
		Lessons: []domain.Lesson{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}},
	}

	t.Run("reads a missing record as zero progress", func(t *testing.T) {
		progressRepo, courseRepo, _, _, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		progressRepo.On("GetByUserCourse", mock.Anything, userID, courseID).Return(nil, domain.ErrNotFound).Once()

		detail, err := uc.GetMine(ctx, userID, courseID)

		assert.NoError(t, err)
		assert.Equal(t, 0, detail.CompletionPercentage)
		assert.Equal(t, 2, detail.TotalLessons)
		assert.Equal(t, "Go Fundamentals", detail.CourseTitle)
	})

	t.Run("returns not found for an unknown course", func(t *testing.T) {
		_, courseRepo, _, _, _, uc := newProgressFixture()

		courseRepo.On("GetByID", mock.Anything, courseID).Return(nil, domain.ErrNotFound).Once()

		_, err := uc.GetMine(ctx, userID, courseID)

		assert.Error(t, err)
		assert.Equal(t, 404, domain.StatusOf(err))
	})
}
