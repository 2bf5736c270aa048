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

func threeQuestionQuiz(quizID, courseID primitive.ObjectID) *domain.Quiz {
	question := func(correct int) domain.QuizQuestion {
		options := make([]domain.QuizOption, 3)
		for i := range options {
			options[i] = domain.QuizOption{Text: "option", IsCorrect: i == correct}
		}
		return domain.QuizQuestion{Question: "pick one", Options: options}
	}
	return &domain.Quiz{
		ID:          quizID,
		Course:      courseID,
		Title:       "Checkpoint",
		Questions:   []domain.QuizQuestion{question(0), question(1), question(2)},
		TotalPoints: 3,
		IsActive:    true,
	}
}

func TestSubmitAttempt(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	quizID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	course := &domain.Course{ID: courseID, StudentsEnrolled: []primitive.ObjectID{userID}}

	newFixture := func() (*MockQuizRepo, *MockAttemptRepo, *MockCourseRepo, domain.QuizUsecase) {
		quizRepo := new(MockQuizRepo)
		attemptRepo := new(MockAttemptRepo)
		courseRepo := new(MockCourseRepo)
		return quizRepo, attemptRepo, courseRepo, usecase.NewQuizUsecase(quizRepo, attemptRepo, courseRepo)
	}

	t.Run("scores one point per correct answer", func(t *testing.T) {
		quizRepo, attemptRepo, courseRepo, uc := newFixture()

		quizRepo.On("GetByID", mock.Anything, quizID).Return(threeQuestionQuiz(quizID, courseID), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		attemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil).Once()

		attempt, err := uc.SubmitAttempt(ctx, userID, quizID, domain.SubmitAttemptRequest{
			Answers: []domain.AttemptAnswerRequest{
				{QuestionIndex: 0, SelectedOption: 0}, // correct
				{QuestionIndex: 1, SelectedOption: 0}, // wrong
				{QuestionIndex: 2, SelectedOption: 5}, // out of range
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, attempt.Score)
		assert.Equal(t, 3, attempt.MaxScore)
		assert.Equal(t, 33, attempt.Percentage)
		assert.True(t, attempt.Answers[0].IsCorrect)
		assert.False(t, attempt.Answers[1].IsCorrect)
		assert.Equal(t, -1, attempt.Answers[2].SelectedOption)
	})

	t.Run("treats a missing answer as unanswered", func(t *testing.T) {
		quizRepo, attemptRepo, courseRepo, uc := newFixture()

		quizRepo.On("GetByID", mock.Anything, quizID).Return(threeQuestionQuiz(quizID, courseID), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		attemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil).Once()

		attempt, err := uc.SubmitAttempt(ctx, userID, quizID, domain.SubmitAttemptRequest{
			Answers: []domain.AttemptAnswerRequest{{QuestionIndex: 0, SelectedOption: 0}},
		})

		assert.NoError(t, err)
		assert.Len(t, attempt.Answers, 3)
		assert.Equal(t, -1, attempt.Answers[1].SelectedOption)
		assert.Equal(t, -1, attempt.Answers[2].SelectedOption)
		assert.Equal(t, 1, attempt.Score)
	})

	t.Run("rejects an inactive quiz", func(t *testing.T) {
		quizRepo, attemptRepo, _, uc := newFixture()

		quiz := threeQuestionQuiz(quizID, courseID)
		quiz.IsActive = false
		quizRepo.On("GetByID", mock.Anything, quizID).Return(quiz, nil).Once()

		_, err := uc.SubmitAttempt(ctx, userID, quizID, domain.SubmitAttemptRequest{})

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
		attemptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a student who is not enrolled", func(t *testing.T) {
		quizRepo, _, courseRepo, uc := newFixture()

		quizRepo.On("GetByID", mock.Anything, quizID).Return(threeQuestionQuiz(quizID, courseID), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID}, nil).Once()

		_, err := uc.SubmitAttempt(ctx, userID, quizID, domain.SubmitAttemptRequest{})

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
	})
}

func TestGetQuizAttempt(t *testing.T) {
	ctx := context.Background()
	ownerID := primitive.NewObjectID()
	instructorID := primitive.NewObjectID()
	quizID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	attemptID := primitive.NewObjectID()

	stored := &domain.QuizAttempt{ID: attemptID, Quiz: quizID, User: ownerID, Score: 2, MaxScore: 3}

	newFixture := func() (*MockQuizRepo, *MockAttemptRepo, *MockCourseRepo, domain.QuizUsecase) {
		quizRepo := new(MockQuizRepo)
		attemptRepo := new(MockAttemptRepo)
		courseRepo := new(MockCourseRepo)
		return quizRepo, attemptRepo, courseRepo, usecase.NewQuizUsecase(quizRepo, attemptRepo, courseRepo)
	}

	t.Run("returns the attempt to its owner", func(t *testing.T) {
		quizRepo, attemptRepo, _, uc := newFixture()

		attemptRepo.On("GetByID", mock.Anything, attemptID).Return(stored, nil).Once()

		attempt, err := uc.GetAttempt(ctx, domain.Actor{ID: ownerID, Role: domain.RoleStudent}, quizID, attemptID)

		assert.NoError(t, err)
		assert.Equal(t, 2, attempt.Score)
		quizRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("lets the course instructor read any attempt", func(t *testing.T) {
		quizRepo, attemptRepo, courseRepo, uc := newFixture()

		attemptRepo.On("GetByID", mock.Anything, attemptID).Return(stored, nil).Once()
		quizRepo.On("GetByID", mock.Anything, quizID).Return(&domain.Quiz{ID: quizID, Course: courseID}, nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID, Instructor: instructorID}, nil).Once()

		attempt, err := uc.GetAttempt(ctx, domain.Actor{ID: instructorID, Role: domain.RoleInstructor}, quizID, attemptID)

		assert.NoError(t, err)
		assert.Equal(t, ownerID, attempt.User)
	})

	t.Run("hides another student's attempt", func(t *testing.T) {
		quizRepo, attemptRepo, courseRepo, uc := newFixture()

		attemptRepo.On("GetByID", mock.Anything, attemptID).Return(stored, nil).Once()
		quizRepo.On("GetByID", mock.Anything, quizID).Return(&domain.Quiz{ID: quizID, Course: courseID}, nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID, Instructor: instructorID}, nil).Once()

		_, err := uc.GetAttempt(ctx, domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleStudent}, quizID, attemptID)

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
	})

	t.Run("treats a quiz mismatch as not found", func(t *testing.T) {
		_, attemptRepo, _, uc := newFixture()

		attemptRepo.On("GetByID", mock.Anything, attemptID).Return(stored, nil).Once()

		_, err := uc.GetAttempt(ctx, domain.Actor{ID: ownerID, Role: domain.RoleStudent}, primitive.NewObjectID(), attemptID)

		assert.Error(t, err)
		assert.Equal(t, 404, domain.StatusOf(err))
	})
}

func TestCreateQuizAnswerKey(t *testing.T) {
	ctx := context.Background()
	instructorID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	lessonID := primitive.NewObjectID()
	actor := domain.Actor{ID: instructorID, Role: domain.RoleInstructor}

	course := &domain.Course{
		ID:         courseID,
		Instructor: instructorID,
		Lessons:    []domain.Lesson{{ID: lessonID}},
	}

	t.Run("rejects a question with two correct options", func(t *testing.T) {
		quizRepo := new(MockQuizRepo)
		courseRepo := new(MockCourseRepo)
		uc := usecase.NewQuizUsecase(quizRepo, new(MockAttemptRepo), courseRepo)

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.Create(ctx, actor, domain.CreateQuizRequest{
			CourseID: courseID.Hex(),
			LessonID: lessonID.Hex(),
			Title:    "Checkpoint",
			Questions: []domain.QuizQuestionRequest{{
				Question: "pick one",
				Options: []domain.QuizOptionRequest{
					{Text: "a", IsCorrect: true},
					{Text: "b", IsCorrect: true},
				},
			}},
		})

		assert.Error(t, err)
		assert.Equal(t, "each question needs exactly one correct option", domain.MessageOf(err))
	})

	t.Run("rejects a question with no correct option", func(t *testing.T) {
		quizRepo := new(MockQuizRepo)
		courseRepo := new(MockCourseRepo)
		uc := usecase.NewQuizUsecase(quizRepo, new(MockAttemptRepo), courseRepo)

		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

		_, err := uc.Create(ctx, actor, domain.CreateQuizRequest{
			CourseID: courseID.Hex(),
			LessonID: lessonID.Hex(),
			Title:    "Checkpoint",
			Questions: []domain.QuizQuestionRequest{{
				Question: "pick one",
				Options: []domain.QuizOptionRequest{
					{Text: "a"},
					{Text: "b"},
				},
			}},
		})

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
	})
}

func TestGradeSubmission(t *testing.T) {
	ctx := context.Background()
	instructorID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	submissionID := primitive.NewObjectID()
	actor := domain.Actor{ID: instructorID, Role: domain.RoleInstructor}

	course := &domain.Course{ID: courseID, Instructor: instructorID}

	newFixture := func() (*MockSubmissionRepo, *MockCourseRepo, *MockOutboxRepo, domain.SubmissionUsecase) {
		submissionRepo := new(MockSubmissionRepo)
		courseRepo := new(MockCourseRepo)
		outboxRepo := new(MockOutboxRepo)
		return submissionRepo, courseRepo, outboxRepo, usecase.NewSubmissionUsecase(submissionRepo, courseRepo, outboxRepo)
	}

	grade := func(v float64) domain.GradeRequest { return domain.GradeRequest{Grade: &v} }

	stored := func() *domain.Submission {
		return &domain.Submission{
			ID:         submissionID,
			Student:    studentID,
			Course:     courseID,
			Assignment: "Essay 1",
		}
	}

	t.Run("accepts both bounds", func(t *testing.T) {
		for _, v := range []float64{0, 100} {
			submissionRepo, courseRepo, outboxRepo, uc := newFixture()

			submissionRepo.On("GetByID", mock.Anything, submissionID).Return(stored(), nil).Once()
			courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
			submissionRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil).Once()
			outboxRepo.On("Enqueue", mock.Anything, domain.TopicGradeUpdated, mock.AnythingOfType("domain.GradeUpdatedEvent")).Return(nil).Once()

			result, err := uc.Grade(ctx, actor, submissionID, grade(v))

			assert.NoError(t, err)
			assert.Equal(t, v, *result.Grade)
			assert.NotNil(t, result.GradedAt)
			outboxRepo.AssertExpectations(t)
		}
	})

	t.Run("rejects values outside 0 to 100", func(t *testing.T) {
		for _, v := range []float64{-1, 101} {
			submissionRepo, courseRepo, _, uc := newFixture()

			submissionRepo.On("GetByID", mock.Anything, submissionID).Return(stored(), nil).Once()
			courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

			_, err := uc.Grade(ctx, actor, submissionID, grade(v))

			assert.Error(t, err)
			assert.Equal(t, "grade must be between 0 and 100", domain.MessageOf(err))
			submissionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	})

	t.Run("rejects an instructor from another course", func(t *testing.T) {
		submissionRepo, courseRepo, _, uc := newFixture()

		submissionRepo.On("GetByID", mock.Anything, submissionID).Return(stored(), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID, Instructor: primitive.NewObjectID()}, nil).Once()

		_, err := uc.Grade(ctx, actor, submissionID, grade(80))

		assert.Error(t, err)
		assert.Equal(t, 403, domain.StatusOf(err))
	})
}

func TestAssignmentSubmitAndGrade(t *testing.T) {
	ctx := context.Background()
	instructorID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	assignmentID := primitive.NewObjectID()
	submissionID := primitive.NewObjectID()
	actor := domain.Actor{ID: instructorID, Role: domain.RoleInstructor}

	course := &domain.Course{
		ID:               courseID,
		Instructor:       instructorID,
		StudentsEnrolled: []primitive.ObjectID{studentID},
	}
	assignment := func(due time.Time) *domain.Assignment {
		return &domain.Assignment{
			ID:        assignmentID,
			Course:    courseID,
			Title:     "Project milestone",
			DueDate:   due,
			MaxPoints: 50,
		}
	}

	newFixture := func() (*MockAssignmentRepo, *MockAssignmentSubRepo, *MockCourseRepo, *MockOutboxRepo, domain.AssignmentUsecase) {
		assignmentRepo := new(MockAssignmentRepo)
		subRepo := new(MockAssignmentSubRepo)
		courseRepo := new(MockCourseRepo)
		outboxRepo := new(MockOutboxRepo)
		return assignmentRepo, subRepo, courseRepo, outboxRepo,
			usecase.NewAssignmentUsecase(assignmentRepo, subRepo, courseRepo, outboxRepo)
	}

	t.Run("rejects a submission after the deadline", func(t *testing.T) {
		assignmentRepo, subRepo, _, _, uc := newFixture()

		assignmentRepo.On("GetByID", mock.Anything, assignmentID).Return(assignment(time.Now().Add(-time.Hour)), nil).Once()

		_, err := uc.Submit(ctx, studentID, assignmentID, "/uploads/late.pdf", "late.pdf")

		assert.Error(t, err)
		assert.Equal(t, "assignment deadline has passed", domain.MessageOf(err))
		subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("resubmission replaces the file and clears the grade", func(t *testing.T) {
		assignmentRepo, subRepo, courseRepo, _, uc := newFixture()

		oldGrade := 40.0
		existing := &domain.AssignmentSubmission{
			ID:         submissionID,
			Assignment: assignmentID,
			Student:    studentID,
			FileURL:    "/uploads/v1.pdf",
			Grade:      &oldGrade,
		}
		assignmentRepo.On("GetByID", mock.Anything, assignmentID).Return(assignment(time.Now().Add(time.Hour)), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		subRepo.On("GetByAssignmentStudent", mock.Anything, assignmentID, studentID).Return(existing, nil).Once()
		subRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.AssignmentSubmission")).Return(nil).Once()

		result, err := uc.Submit(ctx, studentID, assignmentID, "/uploads/v2.pdf", "v2.pdf")

		assert.NoError(t, err)
		assert.Equal(t, "/uploads/v2.pdf", result.FileURL)
		assert.Nil(t, result.Grade)
		assert.Nil(t, result.GradedAt)
	})

	t.Run("accepts a percentage grade above the max points", func(t *testing.T) {
		assignmentRepo, subRepo, courseRepo, outboxRepo, uc := newFixture()

		stored := &domain.AssignmentSubmission{ID: submissionID, Assignment: assignmentID, Student: studentID}
		subRepo.On("GetByID", mock.Anything, submissionID).Return(stored, nil).Once()
		assignmentRepo.On("GetByID", mock.Anything, assignmentID).Return(assignment(time.Now()), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		subRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.AssignmentSubmission")).Return(nil).Once()
		outboxRepo.On("Enqueue", mock.Anything, domain.TopicGradeUpdated, mock.AnythingOfType("domain.GradeUpdatedEvent")).Return(nil).Once()

		v := 75.0
		result, err := uc.Grade(ctx, actor, submissionID, domain.GradeRequest{Grade: &v})

		assert.NoError(t, err)
		assert.Equal(t, 75.0, *result.Grade)
		subRepo.AssertExpectations(t)
	})

	t.Run("rejects grades outside 0 to 100", func(t *testing.T) {
		for _, v := range []float64{-1, 101} {
			assignmentRepo, subRepo, courseRepo, _, uc := newFixture()

			stored := &domain.AssignmentSubmission{ID: submissionID, Assignment: assignmentID, Student: studentID}
			subRepo.On("GetByID", mock.Anything, submissionID).Return(stored, nil).Once()
			assignmentRepo.On("GetByID", mock.Anything, assignmentID).Return(assignment(time.Now()), nil).Once()
			courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()

			grade := v
			_, err := uc.Grade(ctx, actor, submissionID, domain.GradeRequest{Grade: &grade})

			assert.Error(t, err)
			assert.Equal(t, "grade must be between 0 and 100", domain.MessageOf(err))
			subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	})

	t.Run("grading queues a notification event", func(t *testing.T) {
		assignmentRepo, subRepo, courseRepo, outboxRepo, uc := newFixture()

		stored := &domain.AssignmentSubmission{ID: submissionID, Assignment: assignmentID, Student: studentID}
		subRepo.On("GetByID", mock.Anything, submissionID).Return(stored, nil).Once()
		assignmentRepo.On("GetByID", mock.Anything, assignmentID).Return(assignment(time.Now()), nil).Once()
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		subRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.AssignmentSubmission")).Return(nil).Once()
		outboxRepo.On("Enqueue", mock.Anything, domain.TopicGradeUpdated, mock.MatchedBy(func(e domain.GradeUpdatedEvent) bool {
			return e.Grade == 45 && e.AssignmentTitle == "Project milestone"
		})).Return(nil).Once()

		v := 45.0
		result, err := uc.Grade(ctx, actor, submissionID, domain.GradeRequest{Grade: &v})

		assert.NoError(t, err)
		assert.Equal(t, 45.0, *result.Grade)
		outboxRepo.AssertExpectations(t)
	})
}

func TestSubmitWork(t *testing.T) {
	ctx := context.Background()
	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	course := &domain.Course{ID: courseID, StudentsEnrolled: []primitive.ObjectID{studentID}}

	newFixture := func() (*MockSubmissionRepo, *MockCourseRepo, domain.SubmissionUsecase) {
		submissionRepo := new(MockSubmissionRepo)
		courseRepo := new(MockCourseRepo)
		return submissionRepo, courseRepo, usecase.NewSubmissionUsecase(submissionRepo, courseRepo, new(MockOutboxRepo))
	}

	t.Run("requires text or a file", func(t *testing.T) {
		_, _, uc := newFixture()

		_, err := uc.Submit(ctx, studentID, domain.SubmitWorkRequest{
			CourseID:   courseID.Hex(),
			Assignment: "Essay 1",
		})

		assert.Error(t, err)
		assert.Equal(t, 400, domain.StatusOf(err))
	})

	t.Run("resubmission clears the previous grade", func(t *testing.T) {
		submissionRepo, courseRepo, uc := newFixture()

		oldGrade := 72.0
		gradedAt := time.Now().Add(-24 * time.Hour)
		existing := &domain.Submission{
			ID:             primitive.NewObjectID(),
			Student:        studentID,
			Course:         courseID,
			Assignment:     "Essay 1",
			SubmissionText: "first draft",
			Grade:          &oldGrade,
			GradedAt:       &gradedAt,
		}
		courseRepo.On("GetByID", mock.Anything, courseID).Return(course, nil).Once()
		submissionRepo.On("GetByKey", mock.Anything, studentID, courseID, "Essay 1").Return(existing, nil).Once()
		submissionRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil).Once()

		result, err := uc.Submit(ctx, studentID, domain.SubmitWorkRequest{
			CourseID:       courseID.Hex(),
			Assignment:     "Essay 1",
			SubmissionText: "second draft",
		})

		assert.NoError(t, err)
		assert.Equal(t, "second draft", result.SubmissionText)
		assert.Nil(t, result.Grade)
		assert.Nil(t, result.GradedAt)
		assert.Empty(t, result.Feedback)
	})
}
