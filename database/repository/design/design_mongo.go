package designRepo

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

// MongoDesignSessionRepo implements DesignSessionRepository using MongoDB.
type MongoDesignSessionRepo struct {
	coll *mongo.Collection
}

func NewMongoDesignSessionRepo() DesignSessionRepository {
	repo := &MongoDesignSessionRepo{coll: database.Collection("design_sessions")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create design session indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoDesignSessionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "experience_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoDesignSessionRepo) Create(session *models.DesignSession) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create design session: %w", err)
	}
	return nil
}

func (r *MongoDesignSessionRepo) findOne(filter bson.M) (*models.DesignSession, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	var session models.DesignSession
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch design session: %w", err)
	}
	return &session, nil
}

func (r *MongoDesignSessionRepo) Get(id, hostID string) (*models.DesignSession, error) {
	return r.findOne(bson.M{"id": id, "host_id": hostID})
}

func (r *MongoDesignSessionRepo) GetByExperience(experienceID, hostID string) (*models.DesignSession, error) {
	return r.findOne(bson.M{"experience_id": experienceID, "host_id": hostID})
}

func (r *MongoDesignSessionRepo) UpdateFields(id, hostID string, fields map[string]any) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "host_id": hostID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update design session %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("design session %s: %w", id, database.ErrNotFound)
	}
	return nil
}
