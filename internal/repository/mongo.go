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

// mapMongoErr converts driver errors into the domain sentinels the
// usecases branch on.
func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return domain.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

// ========== USER REPOSITORY ==========

type userRepo struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepo{db}
}

func (r *userRepo) col() *mongo.Collection { return r.db.Collection("users") }

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Badges == nil {
		user.Badges = []domain.EarnedBadge{}
	}
	if user.CoursesEnrolled == nil {
		user.CoursesEnrolled = []primitive.ObjectID{}
	}
	_, err := r.col().InsertOne(ctx, user)
	return mapMongoErr(err)
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.col().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.col().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	cursor, err := r.col().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{})
}

func (r *userRepo) CountByRole(ctx context.Context) ([]domain.RoleCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []domain.RoleCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *userRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *userRepo) AddBadge(ctx context.Context, userID primitive.ObjectID, badge domain.EarnedBadge, points int) error {
	update := bson.M{
		"$push": bson.M{"badges": badge},
		"$inc":  bson.M{"badge_points": points},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col().UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) AdjustBadgePoints(ctx context.Context, userID primitive.ObjectID, delta int) error {
	update := bson.M{
		"$inc": bson.M{"badge_points": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := r.col().UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== COURSE REPOSITORY ==========

type courseRepo struct {
	db *mongo.Database
}

func NewCourseRepository(db *mongo.Database) domain.CourseRepository {
	return &courseRepo{db}
}

func (r *courseRepo) col() *mongo.Collection { return r.db.Collection("courses") }

func (r *courseRepo) Create(ctx context.Context, course *domain.Course) error {
	course.ID = primitive.NewObjectID()
	course.CreatedAt = time.Now()
	if course.Lessons == nil {
		course.Lessons = []domain.Lesson{}
	}
	if course.StudentsEnrolled == nil {
		course.StudentsEnrolled = []primitive.ObjectID{}
	}
	for i := range course.Lessons {
		if course.Lessons[i].ID.IsZero() {
			course.Lessons[i].ID = primitive.NewObjectID()
		}
	}
	_, err := r.col().InsertOne(ctx, course)
	return mapMongoErr(err)
}

func (r *courseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	var course domain.Course
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &course, nil
}

func (r *courseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	var course domain.Course
	err := r.col().FindOne(ctx, bson.M{"slug": slug}).Decode(&course)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["is_published"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"tags": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	return r.find(ctx, query)
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	return r.find(ctx, bson.M{"instructor": instructorID})
}

func (r *courseRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Course, error) {
	if len(ids) == 0 {
		return []domain.Course{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *courseRepo) ListAll(ctx context.Context) ([]domain.Course, error) {
	return r.find(ctx, bson.M{})
}

func (r *courseRepo) find(ctx context.Context, query bson.M) ([]domain.Course, error) {
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []domain.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) Update(ctx context.Context, course *domain.Course) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{})
}

func (r *courseRepo) CountPublished(ctx context.Context) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"is_published": true})
}

func (r *courseRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *courseRepo) UpdateRating(ctx context.Context, courseID primitive.ObjectID, average float64, quantity int) error {
	update := bson.M{"$set": bson.M{"ratings_average": average, "ratings_quantity": quantity}}
	res, err := r.col().UpdateByID(ctx, courseID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Enroll adds the user to the course roster and the course to the user's
// enrollment list in a single transaction.
func (r *courseRepo) Enroll(ctx context.Context, courseID, userID primitive.ObjectID) error {
	return r.withEnrollmentTx(ctx, func(sc mongo.SessionContext) error {
		res, err := r.col().UpdateByID(sc, courseID,
			bson.M{"$addToSet": bson.M{"students_enrolled": userID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		res, err = r.db.Collection("users").UpdateByID(sc, userID,
			bson.M{"$addToSet": bson.M{"courses_enrolled": courseID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Unenroll is the inverse of Enroll, same transactional shape.
func (r *courseRepo) Unenroll(ctx context.Context, courseID, userID primitive.ObjectID) error {
	return r.withEnrollmentTx(ctx, func(sc mongo.SessionContext) error {
		res, err := r.col().UpdateByID(sc, courseID,
			bson.M{"$pull": bson.M{"students_enrolled": userID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		res, err = r.db.Collection("users").UpdateByID(sc, userID,
			bson.M{"$pull": bson.M{"courses_enrolled": courseID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *courseRepo) withEnrollmentTx(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// ========== PROGRESS REPOSITORY ==========

type progressRepo struct {
	db *mongo.Database
}

func NewProgressRepository(db *mongo.Database) domain.ProgressRepository {
	return &progressRepo{db}
}

func (r *progressRepo) col() *mongo.Collection { return r.db.Collection("progress") }

func (r *progressRepo) Create(ctx context.Context, progress *domain.Progress) error {
	progress.ID = primitive.NewObjectID()
	progress.CreatedAt = time.Now()
	progress.UpdatedAt = progress.CreatedAt
	if progress.LessonsCompleted == nil {
		progress.LessonsCompleted = []domain.CompletedLesson{}
	}
	_, err := r.col().InsertOne(ctx, progress)
	return mapMongoErr(err)
}

func (r *progressRepo) GetByUserCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Progress, error) {
	var progress domain.Progress
	err := r.col().FindOne(ctx, bson.M{"user": userID, "course": courseID}).Decode(&progress)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &progress, nil
}

func (r *progressRepo) Update(ctx context.Context, progress *domain.Progress) error {
	progress.UpdatedAt = time.Now()
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": progress.ID}, progress)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *progressRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *progressRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Progress, error) {
	return r.find(ctx, bson.M{"course": courseID})
}

func (r *progressRepo) ListAll(ctx context.Context) ([]domain.Progress, error) {
	return r.find(ctx, bson.M{})
}

func (r *progressRepo) find(ctx context.Context, query bson.M) ([]domain.Progress, error) {
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "last_accessed", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.Progress
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *progressRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
