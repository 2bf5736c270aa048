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

// ========== REVIEW REPOSITORY ==========

type reviewRepo struct {
	db *mongo.Database
}

func NewReviewRepository(db *mongo.Database) domain.ReviewRepository {
	return &reviewRepo{db}
}

func (r *reviewRepo) col() *mongo.Collection { return r.db.Collection("reviews") }

func (r *reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, review)
	return mapMongoErr(err)
}

func (r *reviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &review, nil
}

func (r *reviewRepo) GetByCourseUser(ctx context.Context, courseID, userID primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.col().FindOne(ctx, bson.M{"course": courseID, "user": userID}).Decode(&review)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &review, nil
}

func (r *reviewRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []domain.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) Update(ctx context.Context, review *domain.Review) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) Stats(ctx context.Context, courseID primitive.ObjectID) (float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course": courseID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, nil
	}
	return result[0].Avg, result[0].Count, nil
}

// ========== BADGE REPOSITORY ==========

type badgeRepo struct {
	db *mongo.Database
}

func NewBadgeRepository(db *mongo.Database) domain.BadgeRepository {
	return &badgeRepo{db}
}

func (r *badgeRepo) col() *mongo.Collection { return r.db.Collection("badges") }

func (r *badgeRepo) Create(ctx context.Context, badge *domain.Badge) error {
	badge.ID = primitive.NewObjectID()
	badge.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, badge)
	return mapMongoErr(err)
}

func (r *badgeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Badge, error) {
	var badge domain.Badge
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&badge)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &badge, nil
}

func (r *badgeRepo) GetByName(ctx context.Context, name string) (*domain.Badge, error) {
	var badge domain.Badge
	err := r.col().FindOne(ctx, bson.M{"name": name}).Decode(&badge)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &badge, nil
}

func (r *badgeRepo) List(ctx context.Context) ([]domain.Badge, error) {
	cursor, err := r.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var badges []domain.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepo) Update(ctx context.Context, badge *domain.Badge) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": badge.ID}, badge)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *badgeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== ACHIEVEMENT REPOSITORY ==========

type achievementRepo struct {
	db *mongo.Database
}

func NewAchievementRepository(db *mongo.Database) domain.AchievementRepository {
	return &achievementRepo{db}
}

func (r *achievementRepo) col() *mongo.Collection { return r.db.Collection("achievements") }

// Create relies on the (user, badge, course) unique index for idempotence.
func (r *achievementRepo) Create(ctx context.Context, a *domain.Achievement) error {
	a.ID = primitive.NewObjectID()
	a.EarnedAt = time.Now()
	_, err := r.col().InsertOne(ctx, a)
	return mapMongoErr(err)
}

func (r *achievementRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Achievement, error) {
	cursor, err := r.col().Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var achievements []domain.Achievement
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// ========== CERTIFICATE REPOSITORY ==========

type certificateRepo struct {
	db *mongo.Database
}

func NewCertificateRepository(db *mongo.Database) domain.CertificateRepository {
	return &certificateRepo{db}
}

func (r *certificateRepo) col() *mongo.Collection { return r.db.Collection("certificates") }

func (r *certificateRepo) Create(ctx context.Context, cert *domain.Certificate) error {
	cert.ID = primitive.NewObjectID()
	cert.IssuedAt = time.Now()
	_, err := r.col().InsertOne(ctx, cert)
	return mapMongoErr(err)
}

func (r *certificateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&cert)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &cert, nil
}

func (r *certificateRepo) GetByUserCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := r.col().FindOne(ctx, bson.M{"user": userID, "course": courseID}).Decode(&cert)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &cert, nil
}

func (r *certificateRepo) GetByCertificateID(ctx context.Context, certificateID string) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := r.col().FindOne(ctx, bson.M{"certificate_id": certificateID}).Decode(&cert)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &cert, nil
}

func (r *certificateRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Certificate, error) {
	cursor, err := r.col().Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var certs []domain.Certificate
	if err := cursor.All(ctx, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Certificate, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID}, options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var certs []domain.Certificate
	if err := cursor.All(ctx, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

// ========== DISCUSSION REPOSITORY ==========

type discussionRepo struct {
	db *mongo.Database
}

func NewDiscussionRepository(db *mongo.Database) domain.DiscussionRepository {
	return &discussionRepo{db}
}

func (r *discussionRepo) col() *mongo.Collection { return r.db.Collection("discussions") }

func (r *discussionRepo) Create(ctx context.Context, d *domain.Discussion) error {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	if d.Replies == nil {
		d.Replies = []domain.Reply{}
	}
	_, err := r.col().InsertOne(ctx, d)
	return mapMongoErr(err)
}

func (r *discussionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Discussion, error) {
	var d domain.Discussion
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &d, nil
}

func (r *discussionRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Discussion, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var discussions []domain.Discussion
	if err := cursor.All(ctx, &discussions); err != nil {
		return nil, err
	}
	return discussions, nil
}

func (r *discussionRepo) AddReply(ctx context.Context, discussionID primitive.ObjectID, reply domain.Reply) error {
	update := bson.M{
		"$push": bson.M{"replies": reply},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col().UpdateByID(ctx, discussionID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *discussionRepo) RemoveReply(ctx context.Context, discussionID, replyID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"replies": bson.M{"_id": replyID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col().UpdateByID(ctx, discussionID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *discussionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== ANNOUNCEMENT REPOSITORY ==========

type announcementRepo struct {
	db *mongo.Database
}

func NewAnnouncementRepository(db *mongo.Database) domain.AnnouncementRepository {
	return &announcementRepo{db}
}

func (r *announcementRepo) col() *mongo.Collection { return r.db.Collection("announcements") }

func (r *announcementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, a)
	return mapMongoErr(err)
}

func (r *announcementRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &a, nil
}

func (r *announcementRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Announcement, error) {
	cursor, err := r.col().Find(ctx, bson.M{"course": courseID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var announcements []domain.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepo) Update(ctx context.Context, a *domain.Announcement) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *announcementRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ========== ATTENDANCE REPOSITORY ==========

type attendanceRepo struct {
	db *mongo.Database
}

func NewAttendanceRepository(db *mongo.Database) domain.AttendanceRepository {
	return &attendanceRepo{db}
}

func (r *attendanceRepo) col() *mongo.Collection { return r.db.Collection("attendance") }

// Upsert overwrites a re-marked session instead of duplicating it.
func (r *attendanceRepo) Upsert(ctx context.Context, a *domain.Attendance) error {
	filter := bson.M{"student": a.Student, "course": a.Course, "session": a.Session}
	update := bson.M{
		"$set": bson.M{
			"date":   a.Date,
			"status": a.Status,
			"notes":  a.Notes,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	res, err := r.col().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return mapMongoErr(err)
	}
	if res.UpsertedID != nil {
		a.ID = res.UpsertedID.(primitive.ObjectID)
	}
	return nil
}

func (r *attendanceRepo) ListByCourse(ctx context.Context, courseID primitive.ObjectID, date *time.Time) ([]domain.Attendance, error) {
	filter := bson.M{"course": courseID}
	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		filter["date"] = bson.M{"$gte": dayStart, "$lt": dayStart.Add(24 * time.Hour)}
	}
	return r.find(ctx, filter)
}

func (r *attendanceRepo) ListByStudentCourse(ctx context.Context, studentID, courseID primitive.ObjectID) ([]domain.Attendance, error) {
	return r.find(ctx, bson.M{"student": studentID, "course": courseID})
}

func (r *attendanceRepo) find(ctx context.Context, query bson.M) ([]domain.Attendance, error) {
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.Attendance
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ========== NOTIFICATION REPOSITORY ==========

type notificationRepo struct {
	db *mongo.Database
}

func NewNotificationRepository(db *mongo.Database) domain.NotificationRepository {
	return &notificationRepo{db}
}

func (r *notificationRepo) col() *mongo.Collection { return r.db.Collection("notifications") }

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, n)
	return mapMongoErr(err)
}

func (r *notificationRepo) CreateMany(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ns))
	now := time.Now()
	for i := range ns {
		ns[i].ID = primitive.NewObjectID()
		ns[i].CreatedAt = now
		docs = append(docs, ns[i])
	}
	_, err := r.col().InsertMany(ctx, docs)
	return mapMongoErr(err)
}

func (r *notificationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	var n domain.Notification
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Notification, error) {
	cursor, err := r.col().Find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []domain.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.col().CountDocuments(ctx, bson.M{"user": userID, "read": false})
}

func (r *notificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().UpdateByID(ctx, id, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col().UpdateMany(ctx, bson.M{"user": userID, "read": false}, bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *notificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
