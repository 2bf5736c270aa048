package repository

import (
	"context"
	"time"

	"intellilearn-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ========== QUIZ REPOSITORY ==========

type quizRepo struct {
	db *mongo.Database
}

func NewQuizRepository(db *mongo.Database) domain.QuizRepository {
	return &quizRepo{db}
}

func (r *quizRepo) col() *mongo.Collection { return r.db.Collection("quizzes") }

func (r *quizRepo) Create(ctx context.Context, quiz *domain.Quiz) error {
	quiz.ID = primitive.NewObjectID()
	quiz.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, quiz)
	return mapMongoErr(err)
}

func (r *quizRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &quiz, nil
}

func (r *quizRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quizzes []domain.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]domain.Quiz, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID, "lesson_id": lessonID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quizzes []domain.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) Update(ctx context.Context, quiz *domain.Quiz) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *quizRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== QUIZ ATTEMPT REPOSITORY ==========

type attemptRepo struct {
	db *mongo.Database
}

func NewAttemptRepository(db *mongo.Database) domain.AttemptRepository {
	return &attemptRepo{db}
}

func (r *attemptRepo) col() *mongo.Collection { return r.db.Collection("quiz_attempts") }

func (r *attemptRepo) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	attempt.ID = primitive.NewObjectID()
	attempt.CompletedAt = time.Now()
	_, err := r.col().InsertOne(ctx, attempt)
	return mapMongoErr(err)
}

func (r *attemptRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&attempt)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &attempt, nil
}

func (r *attemptRepo) ListByQuizUser(ctx context.Context, quizID, userID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	return r.find(ctx, bson.M{"quiz": quizID, "user": userID})
}

func (r *attemptRepo) ListByQuiz(ctx context.Context, quizID primitive.ObjectID) ([]domain.QuizAttempt, error) {
	return r.find(ctx, bson.M{"quiz": quizID})
}

func (r *attemptRepo) find(ctx context.Context, query bson.M) ([]domain.QuizAttempt, error) {
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []domain.QuizAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ========== SUBMISSION REPOSITORY (free-text flow) ==========

type submissionRepo struct {
	db *mongo.Database
}

func NewSubmissionRepository(db *mongo.Database) domain.SubmissionRepository {
	return &submissionRepo{db}
}

func (r *submissionRepo) col() *mongo.Collection { return r.db.Collection("submissions") }

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	sub.ID = primitive.NewObjectID()
	sub.SubmittedAt = time.Now()
	_, err := r.col().InsertOne(ctx, sub)
	return mapMongoErr(err)
}

func (r *submissionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &sub, nil
}

func (r *submissionRepo) GetByKey(ctx context.Context, studentID, courseID primitive.ObjectID, assignment string) (*domain.Submission, error) {
	var sub domain.Submission
	filter := bson.M{"student": studentID, "course": courseID, "assignment": assignment}
	err := r.col().FindOne(ctx, filter).Decode(&sub)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &sub, nil
}

func (r *submissionRepo) Update(ctx context.Context, sub *domain.Submission) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Submission, error) {
	return r.find(ctx, bson.M{"course": courseID})
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]domain.Submission, error) {
	return r.find(ctx, bson.M{"student": studentID})
}

func (r *submissionRepo) ListByStudentCourse(ctx context.Context, studentID, courseID primitive.ObjectID) ([]domain.Submission, error) {
	return r.find(ctx, bson.M{"student": studentID, "course": courseID})
}

func (r *submissionRepo) find(ctx context.Context, query bson.M) ([]domain.Submission, error) {
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []domain.Submission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *submissionRepo) Count(ctx context.Context) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{})
}

func (r *submissionRepo) CountByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"student": studentID})
}

func (r *submissionRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"submitted_at": bson.M{"$gte": since}})
}

func (r *submissionRepo) AverageGradeByCourse(ctx context.Context, courseID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course": courseID, "grade": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$grade"}}}},
	}
	cursor, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Avg, nil
}

// ========== ASSIGNMENT REPOSITORY ==========

type assignmentRepo struct {
	db *mongo.Database
}

func NewAssignmentRepository(db *mongo.Database) domain.AssignmentRepository {
	return &assignmentRepo{db}
}

func (r *assignmentRepo) col() *mongo.Collection { return r.db.Collection("assignments") }

func (r *assignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, a)
	return mapMongoErr(err)
}

func (r *assignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &a, nil
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Assignment, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID}, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) ListByLesson(ctx context.Context, courseID, lessonID primitive.ObjectID) ([]domain.Assignment, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID, "lesson_id": lessonID}, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== ASSIGNMENT SUBMISSION REPOSITORY (file flow) ==========

type assignmentSubmissionRepo struct {
	db *mongo.Database
}

func NewAssignmentSubmissionRepository(db *mongo.Database) domain.AssignmentSubmissionRepository {
	return &assignmentSubmissionRepo{db}
}

func (r *assignmentSubmissionRepo) col() *mongo.Collection {
	return r.db.Collection("assignment_submissions")
}

func (r *assignmentSubmissionRepo) Create(ctx context.Context, s *domain.AssignmentSubmission) error {
	s.ID = primitive.NewObjectID()
	s.SubmittedAt = time.Now()
	_, err := r.col().InsertOne(ctx, s)
	return mapMongoErr(err)
}

func (r *assignmentSubmissionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AssignmentSubmission, error) {
	var s domain.AssignmentSubmission
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &s, nil
}

func (r *assignmentSubmissionRepo) GetByAssignmentStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*domain.AssignmentSubmission, error) {
	var s domain.AssignmentSubmission
	filter := bson.M{"assignment": assignmentID, "student": studentID}
	err := r.col().FindOne(ctx, filter).Decode(&s)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &s, nil
}

func (r *assignmentSubmissionRepo) Update(ctx context.Context, s *domain.AssignmentSubmission) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *assignmentSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]domain.AssignmentSubmission, error) {
	cursor, err := r.col().Find(ctx, bson.M{"assignment": assignmentID}, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []domain.AssignmentSubmission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
