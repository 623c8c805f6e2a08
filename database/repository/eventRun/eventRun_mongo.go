package eventRunRepo

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

// MongoEventRunRepo implements EventRunRepository using MongoDB.
type MongoEventRunRepo struct {
	coll *mongo.Collection
}

func NewMongoEventRunRepo() EventRunRepository {
	repo := &MongoEventRunRepo{coll: database.Collection("event_runs")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create event run indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoEventRunRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "experience_id", Value: 1}, {Key: "start_datetime", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_datetime", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}
	if len(q.IDs) > 0 {
		filter["id"] = bson.M{"$in": q.IDs}
	}
	if q.HostID != "" {
		filter["host_id"] = q.HostID
	}
	if len(q.ExperienceIDs) > 0 {
		filter["experience_id"] = bson.M{"$in": q.ExperienceIDs}
	}
	status := bson.M{}
	if len(q.Statuses) > 0 {
		status["$in"] = q.Statuses
	}
	if len(q.ExcludeStatuses) > 0 {
		status["$nin"] = q.ExcludeStatuses
	}
	if len(status) > 0 {
		filter["status"] = status
	}
	start := bson.M{}
	if q.StartFrom != nil {
		start["$gte"] = *q.StartFrom
	}
	if q.StartTo != nil {
		start["$lte"] = *q.StartTo
	}
	if len(start) > 0 {
		filter["start_datetime"] = start
	}
	if q.EndBefore != nil {
		filter["end_datetime"] = bson.M{"$lt": *q.EndBefore}
	}
	return filter
}

func (r *MongoEventRunRepo) Create(run *models.EventRun) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to create event run: %w", err)
	}
	return nil
}

func (r *MongoEventRunRepo) GetByID(id string) (*models.EventRun, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var run models.EventRun
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&run); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch event run %s: %w", id, err)
	}
	return &run, nil
}

func (r *MongoEventRunRepo) List(q Query) ([]models.EventRun, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	dir := -1
	if q.Ascending {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_datetime", Value: dir}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list event runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []models.EventRun{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode event runs: %w", err)
	}
	return runs, nil
}

func (r *MongoEventRunRepo) Count(q Query) (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, buildFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count event runs: %w", err)
	}
	return int(n), nil
}

func (r *MongoEventRunRepo) UpdateFields(id string, fields map[string]any) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update event run %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("event run %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoEventRunRepo) UpdateStatusWhere(q Query, status string) (int, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{"status": status, "updated_at": now}
	if status == models.EventRunCompleted {
		set["completed_at"] = now
	}
	result, err := r.coll.UpdateMany(ctx, buildFilter(q), bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to update event run statuses: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *MongoEventRunRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event run %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("event run %s: %w", id, database.ErrNotFound)
	}
	return nil
}
