package hostApplicationRepo

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

// MongoHostApplicationRepo implements HostApplicationRepository using MongoDB.
type MongoHostApplicationRepo struct {
	coll *mongo.Collection
}

func NewMongoHostApplicationRepo() HostApplicationRepository {
	repo := &MongoHostApplicationRepo{coll: database.Collection("host_applications")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create host application indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoHostApplicationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "applied_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoHostApplicationRepo) Create(app *models.HostApplication) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("failed to create host application: %w", err)
	}
	return nil
}

func (r *MongoHostApplicationRepo) findOne(filter bson.M, opts *options.FindOneOptions) (*models.HostApplication, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var app models.HostApplication
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&app); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch host application: %w", err)
	}
	return &app, nil
}

func (r *MongoHostApplicationRepo) GetByID(id string) (*models.HostApplication, error) {
	return r.findOne(bson.M{"id": id}, options.FindOne())
}

func (r *MongoHostApplicationRepo) LatestByUser(userID, status string) (*models.HostApplication, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.findOne(filter, options.FindOne().SetSort(bson.D{{Key: "applied_at", Value: -1}}))
}

func (r *MongoHostApplicationRepo) List(status string, limit, offset int) ([]models.HostApplication, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list host applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps := []models.HostApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode host applications: %w", err)
	}
	return apps, nil
}

func (r *MongoHostApplicationRepo) UpdateFields(id string, fields map[string]any) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update host application %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("host application %s: %w", id, database.ErrNotFound)
	}
	return nil
}
