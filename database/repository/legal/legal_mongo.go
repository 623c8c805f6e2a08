package legalRepo

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

// MongoLegalRepo implements LegalRepository using MongoDB.
type MongoLegalRepo struct {
	policies    *mongo.Collection
	acceptances *mongo.Collection
}

func NewMongoLegalRepo() LegalRepository {
	repo := &MongoLegalRepo{
		policies:    database.Collection("legal_policies"),
		acceptances: database.Collection("policy_acceptances"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create legal indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return database.NewContext(timeout)
}

func (r *MongoLegalRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.policies.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "policy_type", Value: 1}, {Key: "version", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("failed to create policy indexes: %w", err)
	}
	if _, err := r.acceptances.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "policy_id", Value: 1}, {Key: "policy_version", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create acceptance indexes: %w", err)
	}
	return nil
}

func (r *MongoLegalRepo) UpsertPolicy(policy *models.LegalPolicy) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"policy_type": policy.PolicyType, "version": policy.Version}
	opts := options.Update().SetUpsert(true)
	result, err := r.policies.UpdateOne(ctx, filter, bson.M{"$setOnInsert": policy}, opts)
	if err != nil {
		return false, fmt.Errorf("failed to seed policy %s: %w", policy.ID, err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *MongoLegalRepo) ActivePolicy(policyType string) (*models.LegalPolicy, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"policy_type": policyType, "status": models.PolicyActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var policy models.LegalPolicy
	if err := r.policies.FindOne(ctx, filter, opts).Decode(&policy); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s policy: %w", policyType, err)
	}
	return &policy, nil
}

func (r *MongoLegalRepo) CreateAcceptance(acc *models.PolicyAcceptance) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.acceptances.InsertOne(ctx, acc); err != nil {
		return fmt.Errorf("failed to record policy acceptance: %w", err)
	}
	return nil
}

func (r *MongoLegalRepo) FindAcceptance(userID, policyID, version string) (*models.PolicyAcceptance, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "policy_id": policyID, "policy_version": version}
	var acc models.PolicyAcceptance
	if err := r.acceptances.FindOne(ctx, filter).Decode(&acc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch policy acceptance: %w", err)
	}
	return &acc, nil
}

func (r *MongoLegalRepo) ListAcceptances(userID string) ([]models.PolicyAcceptance, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "accepted_at", Value: -1}})
	cursor, err := r.acceptances.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy acceptances: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.PolicyAcceptance{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode policy acceptances: %w", err)
	}
	return out, nil
}
