package experienceRepo

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

// MongoExperienceRepo implements ExperienceRepository using MongoDB.
type MongoExperienceRepo struct {
	coll *mongo.Collection
}

func NewMongoExperienceRepo() ExperienceRepository {
	repo := &MongoExperienceRepo{coll: database.Collection("experiences")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create experience indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoExperienceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "experience_domain", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoExperienceRepo) Create(exp *models.Experience) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, exp); err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	return nil
}

func (r *MongoExperienceRepo) GetByID(id string) (*models.Experience, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var exp models.Experience
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&exp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch experience %s: %w", id, err)
	}
	return &exp, nil
}

func (r *MongoExperienceRepo) GetByIDs(ids []string) (map[string]*models.Experience, error) {
	out := make(map[string]*models.Experience, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.List(models.ExperienceFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func buildFilter(f models.ExperienceFilter) bson.M {
	filter := bson.M{}
	if len(f.IDs) > 0 {
		filter["id"] = bson.M{"$in": f.IDs}
	}
	if f.HostID != "" {
		filter["host_id"] = f.HostID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Domain != "" {
		filter["experience_domain"] = f.Domain
	}
	if f.Neighborhood != "" {
		filter["neighborhood"] = bson.M{"$regex": f.Neighborhood, "$options": "i"}
	}
	return filter
}

func (r *MongoExperienceRepo) List(f models.ExperienceFilter) ([]models.Experience, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "updated_at"
	}
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer cursor.Close(ctx)

	experiences := []models.Experience{}
	if err := cursor.All(ctx, &experiences); err != nil {
		return nil, fmt.Errorf("failed to decode experiences: %w", err)
	}
	return experiences, nil
}

func (r *MongoExperienceRepo) UpdateFields(id string, fields map[string]any) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update experience %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("experience %s: %w", id, database.ErrNotFound)
	}
	return nil
}
