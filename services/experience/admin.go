package experience

import (
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"go.uber.org/zap"
)

func (s *DefaultExperienceService) ListExperiences(status string, limit, offset int) ([]models.Experience, error) {
	if limit <= 0 {
		limit = 50
	}
	exps, err := s.Repo.List(models.ExperienceFilter{Status: status, SortBy: "created_at", Limit: limit, Offset: offset})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list experiences")
	}
	return exps, nil
}

func (s *DefaultExperienceService) ListPendingExperiences() ([]models.Experience, error) {
	return s.ListExperiences(models.ExperienceSubmitted, 0, 0)
}

func (s *DefaultExperienceService) GetExperience(experienceID string) (*models.Experience, error) {
	exp, err := s.Repo.GetByID(experienceID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience")
	}
	if exp == nil {
		return nil, utils.ErrNotFound("Experience not found")
	}
	return exp, nil
}

func (s *DefaultExperienceService) ReviewExperience(adminID, experienceID string, req models.ExperienceReview) (*models.Experience, error) {
	exp, err := s.GetExperience(experienceID)
	if err != nil {
		return nil, err
	}
	if exp.Status != models.ExperienceSubmitted {
		return nil, utils.ErrBadRequest("Cannot review experience with status '%s'. Only submitted experiences can be reviewed.", exp.Status)
	}

	feedback := req.AdminFeedback
	if feedback == "" {
		feedback = "Admin decision: " + req.Decision
	}
	fields := map[string]any{
		"status":         req.Decision,
		"admin_feedback": feedback,
	}
	if req.StructuredFeedback != nil {
		fields["structured_feedback"] = req.StructuredFeedback
	}
	if req.Decision == models.ExperienceApproved {
		fields["approved_at"] = time.Now().UTC()
		fields["approved_by"] = adminID
	}
	if err := s.Repo.UpdateFields(experienceID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to review experience")
	}
	utils.GetLogger().Info("Experience reviewed",
		zap.String("experienceID", experienceID),
		zap.String("decision", req.Decision),
		zap.String("adminID", adminID))
	return s.GetExperience(experienceID)
}

func (s *DefaultExperienceService) GetExperienceStats() (*models.ExperienceStats, error) {
	exps, err := s.Repo.List(models.ExperienceFilter{})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to compute experience stats")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	hosts := map[string]struct{}{}
	stats := &models.ExperienceStats{TotalExperiences: len(exps)}
	var approvalDays float64
	approvals := 0

	for _, e := range exps {
		switch e.Status {
		case models.ExperienceDraft:
			stats.DraftCount++
		case models.ExperienceSubmitted:
			stats.SubmittedCount++
		case models.ExperienceApproved:
			stats.ApprovedCount++
		case models.ExperienceRejected:
			stats.RejectedCount++
		}
		if !e.CreatedAt.Before(monthStart) {
			stats.ExperiencesThisMonth++
		}
		if e.ApprovedAt != nil {
			approvalDays += e.ApprovedAt.Sub(e.CreatedAt).Hours() / 24
			approvals++
		}
		hosts[e.HostID] = struct{}{}
	}
	stats.HostCount = len(hosts)
	if approvals > 0 {
		avg := utils.RoundTo(approvalDays/float64(approvals), 1)
		stats.AvgApprovalTimeDays = &avg
	}
	return stats, nil
}
