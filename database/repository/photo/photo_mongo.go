package photoRepo

import (
	"context"
	"fmt"
	"time"

	"mayhouse/database"
	"mayhouse/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoPhotoRepo implements PhotoRepository using MongoDB.
type MongoPhotoRepo struct {
	coll *mongo.Collection
}

func NewMongoPhotoRepo() PhotoRepository {
	repo := &MongoPhotoRepo{coll: database.Collection("experience_photos")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create photo indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoPhotoRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "experience_id", Value: 1}, {Key: "display_order", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPhotoRepo) Create(photo *models.ExperiencePhoto) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, photo); err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *MongoPhotoRepo) GetByID(experienceID, photoID string) (*models.ExperiencePhoto, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var photo models.ExperiencePhoto
	err := r.coll.FindOne(ctx, bson.M{"id": photoID, "experience_id": experienceID}).Decode(&photo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch photo %s: %w", photoID, err)
	}
	return &photo, nil
}

func (r *MongoPhotoRepo) ListByExperiences(experienceIDs []string) ([]models.ExperiencePhoto, error) {
	if len(experienceIDs) == 0 {
		return []models.ExperiencePhoto{}, nil
	}
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "uploaded_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"experience_id": bson.M{"$in": experienceIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer cursor.Close(ctx)

	photos := []models.ExperiencePhoto{}
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos: %w", err)
	}
	return photos, nil
}

func (r *MongoPhotoRepo) Count(experienceID string) (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"experience_id": experienceID})
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return int(n), nil
}

func (r *MongoPhotoRepo) UnsetCovers(experienceID, keepID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"experience_id": experienceID, "id": bson.M{"$ne": keepID}, "is_cover_photo": true}
	if _, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_cover_photo": false}}); err != nil {
		return fmt.Errorf("failed to unset cover photos: %w", err)
	}
	return nil
}

func (r *MongoPhotoRepo) UpdateFields(photoID string, fields map[string]any) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": photoID}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update photo %s: %w", photoID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("photo %s: %w", photoID, database.ErrNotFound)
	}
	return nil
}

func (r *MongoPhotoRepo) Delete(photoID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": photoID})
	if err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", photoID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("photo %s: %w", photoID, database.ErrNotFound)
	}
	return nil
}
