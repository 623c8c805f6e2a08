package hostapp

import (
	"fmt"
	"math"
	"time"

	"mayhouse/models"
	"mayhouse/services/legal"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultHostApplicationService) Apply(userID string, data models.HostApplicationData, ac legal.AcceptanceContext) (*models.HostApplication, error) {
	logger := utils.GetLogger()

	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load user")
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	if user.IsHost() {
		return nil, utils.ErrBadRequest("User is already a host")
	}
	pending, err := s.Repo.LatestByUser(userID, models.ApplicationPending)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to check existing applications")
	}
	if pending != nil {
		return nil, utils.ErrConflict("You already have a pending host application")
	}

	if len(data.PolicyAcceptances) > 0 {
		if ac.Context == "" {
			ac.Context = models.ContextHostApplication
		}
		if err := s.Policies.RecordAcceptances(userID, ac, data.PolicyAcceptances); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	app := &models.HostApplication{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          models.ApplicationPending,
		ApplicationData: data,
		AppliedAt:       now,
	}
	if s.AutoApprove {
		app.Status = models.ApplicationApproved
		app.ReviewedAt = &now
		app.AdminNotes = AutoApproveNote
	}
	if err := s.Repo.Create(app); err != nil {
		return nil, utils.ErrInternal(err, "Failed to submit host application")
	}

	if app.Status == models.ApplicationApproved {
		if err := s.Upgrader.UpgradeToHost(userID); err != nil {
			return nil, err
		}
	}
	logger.Info("Host application submitted",
		zap.String("applicationID", app.ID), zap.String("userID", userID), zap.String("status", app.Status))
	return app, nil
}

func (s *DefaultHostApplicationService) GetMyApplication(userID string) (*models.HostApplication, error) {
	app, err := s.Repo.LatestByUser(userID, "")
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host application")
	}
	if app == nil {
		return nil, utils.ErrNotFound("No host application found")
	}
	return app, nil
}

func (s *DefaultHostApplicationService) Eligibility(userID string) (*models.HostEligibility, error) {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load user")
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	if user.IsHost() {
		return &models.HostEligibility{Reason: "already_host", Message: "You are already a host on the platform"}, nil
	}

	latest, err := s.Repo.LatestByUser(userID, "")
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host application")
	}
	if latest != nil {
		switch latest.Status {
		case models.ApplicationPending:
			applied := latest.AppliedAt
			return &models.HostEligibility{
				Reason:        "pending_application",
				Message:       "You already have a pending host application",
				ApplicationID: latest.ID,
				AppliedAt:     &applied,
			}, nil
		case models.ApplicationRejected:
			if latest.ReviewedAt != nil {
				reapply := latest.ReviewedAt.Add(ReapplyCooldown)
				if time.Now().Before(reapply) {
					days := int(math.Ceil(time.Until(reapply).Hours() / 24))
					return &models.HostEligibility{
						Reason:       "recent_rejection",
						Message:      fmt.Sprintf("Please wait %d more days before reapplying", days),
						CanReapplyAt: &reapply,
					}, nil
				}
			}
		}
	}

	docs := map[string]models.LegalDocumentRef{}
	for _, t := range legal.RequiredPolicies(models.ContextHostApplication) {
		if p, err := s.Policies.GetPolicy(t); err == nil {
			docs[t] = models.LegalDocumentRef{ID: p.ID, Version: p.Version, Title: p.Title}
		}
	}
	return &models.HostEligibility{
		Eligible:       true,
		Message:        "You are eligible to submit a host application",
		LegalDocuments: docs,
		NextSteps: []string{
			"Review Terms & Conditions",
			"Review Background Verification policy",
			"Complete host application form",
			"Submit for admin review",
		},
	}, nil
}
