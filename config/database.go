package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"intellilearn-backend/internal/domain"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	PG          *gorm.DB
	Mongo       *mongo.Database
	MongoClient *mongo.Client
}

func ConnectDB() *Database {
	err := godotenv.Load()
	if err != nil {
		log.Println("Note: .env file not found, using system environment variables")
	}

	// 1. PostgreSQL Connection
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	pgDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}

	// 2. MongoDB Connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoURI := os.Getenv("MONGO_URI")
	clientOptions := options.Client().ApplyURI(mongoURI)
	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}

	mongoDB := mongoClient.Database(os.Getenv("MONGO_DB_NAME"))

	log.Println("Connected to PostgreSQL and MongoDB successfully!")

	return &Database{
		PG:          pgDB,
		Mongo:       mongoDB,
		MongoClient: mongoClient,
	}
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Payment{},
		&domain.OutboxEvent{},
	)
	if err != nil {
		return err
	}
	log.Println("Database migration completed!")
	return nil
}

// EnsureIndexes creates the unique indexes the document collections rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		"courses": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"progress": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "course", Value: 1}}, Options: unique},
		},
		"reviews": {
			{Keys: bson.D{{Key: "course", Value: 1}, {Key: "user", Value: 1}}, Options: unique},
		},
		"achievements": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "badge", Value: 1}, {Key: "course", Value: 1}}, Options: unique},
		},
		"certificates": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "course", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "certificate_id", Value: 1}}, Options: unique},
		},
		"submissions": {
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "course", Value: 1}, {Key: "assignment", Value: 1}}, Options: unique},
		},
		"assignment_submissions": {
			{Keys: bson.D{{Key: "assignment", Value: 1}, {Key: "student", Value: 1}}, Options: unique},
		},
		"attendance": {
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "course", Value: 1}, {Key: "session", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", coll, err)
		}
	}
	log.Println("Mongo indexes ensured!")
	return nil
}
