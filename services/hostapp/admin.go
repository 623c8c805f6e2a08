package hostapp

import (
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"go.uber.org/zap"
)

func (s *DefaultHostApplicationService) ListApplications(status string, limit, offset int) ([]models.HostApplicationSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	apps, err := s.Repo.List(status, limit, offset)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list host applications")
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.UserID)
	}
	users, err := s.Users.GetByIDs(ids)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load applicants")
	}

	out := make([]models.HostApplicationSummary, 0, len(apps))
	for _, a := range apps {
		row := models.HostApplicationSummary{
			ID:                a.ID,
			UserID:            a.UserID,
			Status:            a.Status,
			ExperienceDomains: a.ApplicationData.ExperienceDomains,
			AppliedAt:         a.AppliedAt,
			ReviewedAt:        a.ReviewedAt,
		}
		if u := users[a.UserID]; u != nil {
			row.UserName = u.FullName
			row.UserEmail = u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *DefaultHostApplicationService) GetApplication(id string) (*models.HostApplication, error) {
	app, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host application")
	}
	if app == nil {
		return nil, utils.ErrNotFound("Host application not found")
	}
	return app, nil
}

func (s *DefaultHostApplicationService) ReviewApplication(adminID, id string, req models.HostApplicationReview) (*models.HostApplication, error) {
	app, err := s.GetApplication(id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationPending {
		return nil, utils.ErrBadRequest("Cannot review application with status '%s'", app.Status)
	}

	fields := map[string]any{
		"status":      req.Decision,
		"admin_notes": req.AdminNotes,
		"reviewed_at": time.Now().UTC(),
		"reviewed_by": adminID,
	}
	if req.Feedback != nil {
		fields["admin_feedback"] = req.Feedback
	}
	if err := s.Repo.UpdateFields(id, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to review host application")
	}
	if req.Decision == models.ApplicationApproved {
		if err := s.Upgrader.UpgradeToHost(app.UserID); err != nil {
			return nil, err
		}
	}
	utils.GetLogger().Info("Host application reviewed",
		zap.String("applicationID", id), zap.String("decision", req.Decision), zap.String("adminID", adminID))
	return s.GetApplication(id)
}

func (s *DefaultHostApplicationService) GetStats() (*models.HostApplicationStats, error) {
	apps, err := s.Repo.List("", 0, 0)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host applications")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	stats := &models.HostApplicationStats{TotalApplications: len(apps)}
	var reviewDays float64
	reviewed := 0
	for _, a := range apps {
		switch a.Status {
		case models.ApplicationPending:
			stats.PendingCount++
		case models.ApplicationApproved:
			stats.ApprovedCount++
		case models.ApplicationRejected:
			stats.RejectedCount++
		}
		if !a.AppliedAt.Before(monthStart) {
			stats.ApplicationsThisMonth++
		}
		if a.Status != models.ApplicationPending && a.ReviewedAt != nil {
			reviewDays += float64(int(a.ReviewedAt.Sub(a.AppliedAt).Hours() / 24))
			reviewed++
		}
	}
	if reviewed > 0 {
		avg := utils.RoundTo(reviewDays/float64(reviewed), 1)
		stats.AvgReviewTimeDays = &avg
	}
	return stats, nil
}
