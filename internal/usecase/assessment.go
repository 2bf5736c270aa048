package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"intellilearn-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ========== QUIZ USECASE ==========

type quizUsecase struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	courseRepo  domain.CourseRepository
}

func NewQuizUsecase(qr domain.QuizRepository, ar domain.AttemptRepository, cr domain.CourseRepository) domain.QuizUsecase {
	return &quizUsecase{quizRepo: qr, attemptRepo: ar, courseRepo: cr}
}

func (uc *quizUsecase) Create(ctx context.Context, actor domain.Actor, req domain.CreateQuizRequest) (*domain.Quiz, error) {
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return nil, domain.NewValidation("invalid course id")
	}
	lessonID, err := primitive.ObjectIDFromHex(req.LessonID)
	if err != nil {
		return nil, domain.NewValidation("invalid lesson id")
	}

	course, err := uc.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	if _, ok := course.LessonByID(lessonID); !ok {
		return nil, domain.NewNotFound("lesson not found in this course")
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		Course:      courseID,
		LessonID:    lessonID,
		Title:       req.Title,
		Description: req.Description,
		Questions:   questions,
		TotalPoints: len(questions),
		TimeLimit:   req.TimeLimit,
		IsActive:    true,
	}
	if err := uc.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func buildQuestions(reqs []domain.QuizQuestionRequest) ([]domain.QuizQuestion, error) {
	questions := make([]domain.QuizQuestion, 0, len(reqs))
	for i, q := range reqs {
		correct := 0
		options := make([]domain.QuizOption, 0, len(q.Options))
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
			options = append(options, domain.QuizOption{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		if correct != 1 {
			return nil, domain.NewValidation("each question needs exactly one correct option")
		}
		questions = append(questions, domain.QuizQuestion{Question: q.Question, Options: options, Order: i})
	}
	return questions, nil
}

func (uc *quizUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.UpdateQuizRequest) (*domain.Quiz, error) {
	quiz, err := uc.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("quiz not found")
		}
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, quiz.Course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Questions != nil {
		questions, err := buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
		quiz.TotalPoints = len(questions)
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := uc.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (uc *quizUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	quiz, err := uc.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("quiz not found")
		}
		return err
	}
	if _, err := uc.ownedCourse(ctx, actor, quiz.Course); err != nil {
		return err
	}
	return uc.quizRepo.Delete(ctx, id)
}

// Get returns the full quiz to the owning instructor and a sanitized copy,
// answers stripped, to enrolled students.
func (uc *quizUsecase) Get(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.Quiz, error) {
	quiz, err := uc.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("quiz not found")
		}
		return nil, err
	}

	course, err := uc.courseRepo.GetByID(ctx, quiz.Course)
	if err != nil {
		return nil, err
	}
	if actor.Can(domain.ActionManage, course.Instructor) {
		return quiz, nil
	}

	if !course.HasStudent(actor.ID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}
	if !quiz.IsActive {
		return nil, domain.NewNotFound("quiz not found")
	}
	return sanitizeQuiz(quiz), nil
}

func sanitizeQuiz(quiz *domain.Quiz) *domain.Quiz {
	clean := *quiz
	clean.Questions = make([]domain.QuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		options := make([]domain.QuizOption, len(q.Options))
		for j, o := range q.Options {
			options[j] = domain.QuizOption{Text: o.Text}
		}
		clean.Questions[i] = domain.QuizQuestion{Question: q.Question, Options: options, Order: q.Order}
	}
	return &clean
}

func (uc *quizUsecase) ListByCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}

	quizzes, err := uc.quizRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if actor.Can(domain.ActionManage, course.Instructor) {
		return quizzes, nil
	}

	if !course.HasStudent(actor.ID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}
	visible := make([]domain.Quiz, 0, len(quizzes))
	for i := range quizzes {
		if quizzes[i].IsActive {
			visible = append(visible, *sanitizeQuiz(&quizzes[i]))
		}
	}
	return visible, nil
}

func (uc *quizUsecase) ListByLesson(ctx context.Context, actor domain.Actor, courseID, lessonID primitive.ObjectID) ([]domain.Quiz, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}

	quizzes, err := uc.quizRepo.ListByLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if actor.Can(domain.ActionManage, course.Instructor) {
		return quizzes, nil
	}

	if !course.HasStudent(actor.ID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}
	visible := make([]domain.Quiz, 0, len(quizzes))
	for i := range quizzes {
		if quizzes[i].IsActive {
			visible = append(visible, *sanitizeQuiz(&quizzes[i]))
		}
	}
	return visible, nil
}

// SubmitAttempt scores the attempt against the stored answer key. Attempts
// are unlimited and immutable once recorded.
func (uc *quizUsecase) SubmitAttempt(ctx context.Context, userID, quizID primitive.ObjectID, req domain.SubmitAttemptRequest) (*domain.QuizAttempt, error) {
	quiz, err := uc.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("quiz not found")
		}
		return nil, err
	}
	if !quiz.IsActive {
		return nil, domain.NewValidation("quiz is not active")
	}

	course, err := uc.courseRepo.GetByID(ctx, quiz.Course)
	if err != nil {
		return nil, err
	}
	if !course.HasStudent(userID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}

	selected := make(map[int]int, len(req.Answers))
	for _, a := range req.Answers {
		selected[a.QuestionIndex] = a.SelectedOption
	}

	answers := make([]domain.QuizAnswer, 0, len(quiz.Questions))
	score := 0
	for i, q := range quiz.Questions {
		choice, ok := selected[i]
		if !ok || choice < 0 || choice >= len(q.Options) {
			answers = append(answers, domain.QuizAnswer{QuestionIndex: i, SelectedOption: -1})
			continue
		}
		answer := domain.QuizAnswer{QuestionIndex: i, SelectedOption: choice}
		if q.Options[choice].IsCorrect {
			answer.IsCorrect = true
			answer.PointsAwarded = 1
			score++
		}
		answers = append(answers, answer)
	}

	attempt := &domain.QuizAttempt{
		Quiz:       quizID,
		User:       userID,
		Answers:    answers,
		Score:      score,
		MaxScore:   len(quiz.Questions),
		Percentage: completionPercent(score, len(quiz.Questions)),
		TimeTaken:  req.TimeTaken,
	}
	if err := uc.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (uc *quizUsecase) ListAttempts(ctx context.Context, userID, quizID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	return uc.attemptRepo.ListByQuizUser(ctx, quizID, userID)
}

func (uc *quizUsecase) ListQuizAttempts(ctx context.Context, actor domain.Actor, quizID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	quiz, err := uc.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("quiz not found")
		}
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, quiz.Course); err != nil {
		return nil, err
	}
	return uc.attemptRepo.ListByQuiz(ctx, quizID)
}

// GetAttempt returns one attempt to its owner or to whoever manages the
// course.
func (uc *quizUsecase) GetAttempt(ctx context.Context, actor domain.Actor, quizID, attemptID primitive.ObjectID) (*domain.QuizAttempt, error) {
	attempt, err := uc.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("attempt not found")
		}
		return nil, err
	}
	if attempt.Quiz != quizID {
		return nil, domain.NewNotFound("attempt not found")
	}
	if attempt.User == actor.ID {
		return attempt, nil
	}

	quiz, err := uc.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, quiz.Course); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (uc *quizUsecase) ownedCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) (*domain.Course, error) {
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

// ========== ASSIGNMENT USECASE (structured flow) ==========

type assignmentUsecase struct {
	assignmentRepo domain.AssignmentRepository
	submissionRepo domain.AssignmentSubmissionRepository
	courseRepo     domain.CourseRepository
	outboxRepo     domain.OutboxRepository
}

func NewAssignmentUsecase(
	ar domain.AssignmentRepository,
	sr domain.AssignmentSubmissionRepository,
	cr domain.CourseRepository,
	or domain.OutboxRepository,
) domain.AssignmentUsecase {
	return &assignmentUsecase{assignmentRepo: ar, submissionRepo: sr, courseRepo: cr, outboxRepo: or}
}

func (uc *assignmentUsecase) Create(ctx context.Context, actor domain.Actor, req domain.CreateAssignmentRequest) (*domain.Assignment, error) {
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return nil, domain.NewValidation("invalid course id")
	}
	lessonID, err := primitive.ObjectIDFromHex(req.LessonID)
	if err != nil {
		return nil, domain.NewValidation("invalid lesson id")
	}

	course, err := uc.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	if _, ok := course.LessonByID(lessonID); !ok {
		return nil, domain.NewNotFound("lesson not found in this course")
	}

	assignment := &domain.Assignment{
		Course:      courseID,
		LessonID:    lessonID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxPoints:   req.MaxPoints,
	}
	if err := uc.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (uc *assignmentUsecase) Update(ctx context.Context, actor domain.Actor, id primitive.ObjectID, req domain.UpdateAssignmentRequest) (*domain.Assignment, error) {
	assignment, err := uc.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("assignment not found")
		}
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, assignment.Course); err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.DueDate != nil {
		assignment.DueDate = *req.DueDate
	}
	if req.MaxPoints != nil {
		assignment.MaxPoints = *req.MaxPoints
	}

	if err := uc.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (uc *assignmentUsecase) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	assignment, err := uc.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("assignment not found")
		}
		return err
	}
	if _, err := uc.ownedCourse(ctx, actor, assignment.Course); err != nil {
		return err
	}
	return uc.assignmentRepo.Delete(ctx, id)
}

func (uc *assignmentUsecase) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Assignment, error) {
	return uc.assignmentRepo.ListByCourse(ctx, courseID)
}

func (uc *assignmentUsecase) ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]domain.Assignment, error) {
	return uc.assignmentRepo.ListByLesson(ctx, courseID, lessonID)
}

// Submit records a student's work. A resubmission before the deadline
// replaces the previous file and clears any existing grade.
func (uc *assignmentUsecase) Submit(ctx context.Context, studentID, assignmentID primitive.ObjectID, fileURL, fileName string) (*domain.AssignmentSubmission, error) {
	assignment, err := uc.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("assignment not found")
		}
		return nil, err
	}
	if time.Now().After(assignment.DueDate) {
		return nil, domain.NewValidation("assignment deadline has passed")
	}

	course, err := uc.courseRepo.GetByID(ctx, assignment.Course)
	if err != nil {
		return nil, err
	}
	if !course.HasStudent(studentID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}
	if fileURL == "" {
		return nil, domain.NewValidation("submission file is required")
	}

	existing, err := uc.submissionRepo.GetByAssignmentStudent(ctx, assignmentID, studentID)
	if errors.Is(err, domain.ErrNotFound) {
		submission := &domain.AssignmentSubmission{
			Assignment: assignmentID,
			Student:    studentID,
			FileURL:    fileURL,
			FileName:   fileName,
		}
		if err := uc.submissionRepo.Create(ctx, submission); err != nil {
			return nil, err
		}
		return submission, nil
	}
	if err != nil {
		return nil, err
	}

	existing.FileURL = fileURL
	existing.FileName = fileName
	existing.SubmittedAt = time.Now()
	existing.Grade = nil
	existing.GradedAt = nil
	existing.GradedBy = nil
	existing.Feedback = ""
	if err := uc.submissionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *assignmentUsecase) Grade(ctx context.Context, actor domain.Actor, submissionID primitive.ObjectID, req domain.GradeRequest) (*domain.AssignmentSubmission, error) {
	submission, err := uc.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("submission not found")
		}
		return nil, err
	}

	assignment, err := uc.assignmentRepo.GetByID(ctx, submission.Assignment)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, assignment.Course); err != nil {
		return nil, err
	}

	grade := *req.Grade
	if grade < 0 || grade > 100 || math.IsNaN(grade) {
		return nil, domain.NewValidation("grade must be between 0 and 100")
	}

	now := time.Now()
	submission.Grade = &grade
	submission.GradedAt = &now
	submission.GradedBy = &actor.ID
	submission.Feedback = req.Feedback
	if err := uc.submissionRepo.Update(ctx, submission); err != nil {
		return nil, err
	}

	event := domain.GradeUpdatedEvent{
		StudentID:       submission.Student.Hex(),
		CourseID:        assignment.Course.Hex(),
		AssignmentTitle: assignment.Title,
		Grade:           grade,
	}
	if err := uc.outboxRepo.Enqueue(ctx, domain.TopicGradeUpdated, event); err != nil {
		return nil, err
	}
	return submission, nil
}

func (uc *assignmentUsecase) ListSubmissions(ctx context.Context, actor domain.Actor, assignmentID primitive.ObjectID) ([]domain.AssignmentSubmission, error) {
	assignment, err := uc.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("assignment not found")
		}
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, assignment.Course); err != nil {
		return nil, err
	}
	return uc.submissionRepo.ListByAssignment(ctx, assignmentID)
}

func (uc *assignmentUsecase) GetMySubmission(ctx context.Context, studentID, assignmentID primitive.ObjectID) (*domain.AssignmentSubmission, error) {
	submission, err := uc.submissionRepo.GetByAssignmentStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("no submission yet")
		}
		return nil, err
	}
	return submission, nil
}

func (uc *assignmentUsecase) ownedCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) (*domain.Course, error) {
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

// ========== SUBMISSION USECASE (free-text flow) ==========

type submissionUsecase struct {
	submissionRepo domain.SubmissionRepository
	courseRepo     domain.CourseRepository
	outboxRepo     domain.OutboxRepository
}

func NewSubmissionUsecase(sr domain.SubmissionRepository, cr domain.CourseRepository, or domain.OutboxRepository) domain.SubmissionUsecase {
	return &submissionUsecase{submissionRepo: sr, courseRepo: cr, outboxRepo: or}
}

// Submit creates or replaces the student's work for a named assignment.
// Resubmission clears any earlier grade.
func (uc *submissionUsecase) Submit(ctx context.Context, studentID primitive.ObjectID, req domain.SubmitWorkRequest) (*domain.Submission, error) {
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return nil, domain.NewValidation("invalid course id")
	}
	if req.SubmissionText == "" && req.SubmissionFile == "" {
		return nil, domain.NewValidation("submission text or file is required")
	}

	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("course not found")
		}
		return nil, err
	}
	if !course.HasStudent(studentID) {
		return nil, domain.NewForbidden("not enrolled in this course")
	}

	existing, err := uc.submissionRepo.GetByKey(ctx, studentID, courseID, req.Assignment)
	if errors.Is(err, domain.ErrNotFound) {
		submission := &domain.Submission{
			Student:        studentID,
			Course:         courseID,
			Assignment:     req.Assignment,
			SubmissionText: req.SubmissionText,
			SubmissionFile: req.SubmissionFile,
		}
		if err := uc.submissionRepo.Create(ctx, submission); err != nil {
			return nil, err
		}
		return submission, nil
	}
	if err != nil {
		return nil, err
	}

	existing.SubmissionText = req.SubmissionText
	existing.SubmissionFile = req.SubmissionFile
	existing.SubmittedAt = time.Now()
	existing.Grade = nil
	existing.GradedAt = nil
	existing.GradedBy = nil
	existing.Feedback = ""
	if err := uc.submissionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Grade records a 0-100 score, both bounds inclusive.
func (uc *submissionUsecase) Grade(ctx context.Context, actor domain.Actor, submissionID primitive.ObjectID, req domain.GradeRequest) (*domain.Submission, error) {
	submission, err := uc.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("submission not found")
		}
		return nil, err
	}

	course, err := uc.courseRepo.GetByID(ctx, submission.Course)
	if err != nil {
		return nil, err
	}
	if !actor.Can(domain.ActionManage, course.Instructor) {
		return nil, domain.NewForbidden("not the course instructor")
	}

	grade := *req.Grade
	if grade < 0 || grade > 100 || math.IsNaN(grade) {
		return nil, domain.NewValidation("grade must be between 0 and 100")
	}

	now := time.Now()
	submission.Grade = &grade
	submission.GradedAt = &now
	submission.GradedBy = &actor.ID
	submission.Feedback = req.Feedback
	if err := uc.submissionRepo.Update(ctx, submission); err != nil {
		return nil, err
	}

	event := domain.GradeUpdatedEvent{
		StudentID:       submission.Student.Hex(),
		CourseID:        submission.Course.Hex(),
		AssignmentTitle: submission.Assignment,
		Grade:           grade,
	}
	if err := uc.outboxRepo.Enqueue(ctx, domain.TopicGradeUpdated, event); err != nil {
		return nil, err
	}
	return submission, nil
}

func (uc *submissionUsecase) ListByCourse(ctx context.Context, actor domain.Actor, courseID primitive.ObjectID) ([]domain.Submission, error) {
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
	return uc.submissionRepo.ListByCourse(ctx, courseID)
}

func (uc *submissionUsecase) ListMine(ctx context.Context, studentID primitive.ObjectID) ([]domain.Submission, error) {
	return uc.submissionRepo.ListByStudent(ctx, studentID)
}

func (uc *submissionUsecase) MyGrades(ctx context.Context, studentID, courseID primitive.ObjectID) ([]domain.Submission, error) {
	return uc.submissionRepo.ListByStudentCourse(ctx, studentID, courseID)
}

func (uc *submissionUsecase) ListByCourseStudent(ctx context.Context, actor domain.Actor, courseID, studentID primitive.ObjectID) ([]domain.Submission, error) {
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
	return uc.submissionRepo.ListByStudentCourse(ctx, studentID, courseID)
}
