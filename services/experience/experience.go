package experience

import (
	"strings"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCountry = "India"
	defaultCity    = "Mumbai"
)

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s *DefaultExperienceService) CreateExperience(hostID string, req models.ExperienceCreate) (*models.Experience, error) {
	minCap := req.TravelerMinCapacity
	if minCap == 0 {
		minCap = 1
	}
	if minCap > req.TravelerMaxCapacity {
		return nil, utils.ErrBadRequest("traveler_min_capacity cannot exceed traveler_max_capacity")
	}
	if s.Upgrader != nil {
		if err := s.Upgrader.UpgradeToHost(hostID); err != nil {
			return nil, err
		}
	}

	exp := &models.Experience{
		ID:                          uuid.New().String(),
		HostID:                      hostID,
		Title:                       strings.TrimSpace(req.Title),
		Promise:                     req.Promise,
		Description:                 req.Description,
		UniqueElement:               req.UniqueElement,
		HostStory:                   req.HostStory,
		ExperienceDomain:            req.ExperienceDomain,
		ExperienceTheme:             req.ExperienceTheme,
		Country:                     orDefault(req.Country, defaultCountry),
		City:                        orDefault(req.City, defaultCity),
		Neighborhood:                req.Neighborhood,
		MeetingLandmark:             req.MeetingLandmark,
		MeetingPointDetails:         req.MeetingPointDetails,
		Latitude:                    req.Latitude,
		Longitude:                   req.Longitude,
		RouteData:                   req.RouteData,
		DurationMinutes:             req.DurationMinutes,
		TravelerMinCapacity:         minCap,
		TravelerMaxCapacity:         req.TravelerMaxCapacity,
		PriceINR:                    utils.RoundINR(req.PriceINR),
		Inclusions:                  nonNil(req.Inclusions),
		TravelerShouldBring:         nonNil(req.TravelerShouldBring),
		AccessibilityNotes:          nonNil(req.AccessibilityNotes),
		WeatherContingencyPlan:      req.WeatherContingencyPlan,
		PhotoSharingConsentRequired: req.PhotoSharingConsentRequired,
		ExperienceSafetyGuidelines:  req.ExperienceSafetyGuidelines,
		Status:                      models.ExperienceDraft,
	}
	if err := s.Repo.Create(exp); err != nil {
		return nil, utils.ErrInternal(err, "Failed to create experience")
	}
	utils.GetLogger().Info("Experience created", zap.String("experienceID", exp.ID), zap.String("hostID", hostID))
	return exp, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (s *DefaultExperienceService) ListHostExperiences(hostID, status string) ([]models.Experience, error) {
	exps, err := s.Repo.List(models.ExperienceFilter{HostID: hostID, Status: status, SortBy: "updated_at"})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list experiences")
	}
	if status != "" {
		return exps, nil
	}
	visible := exps[:0]
	for _, e := range exps {
		if e.Status != models.ExperienceArchived {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// GetHostExperience hides other hosts' experiences behind a 404.
func (s *DefaultExperienceService) GetHostExperience(hostID, experienceID string) (*models.Experience, error) {
	exp, err := s.GetExperience(experienceID)
	if err != nil {
		return nil, err
	}
	if exp.HostID != hostID {
		return nil, utils.ErrNotFound("Experience not found")
	}
	return exp, nil
}

func (s *DefaultExperienceService) UpdateExperience(hostID, experienceID string, req models.ExperienceUpdate) (*models.Experience, error) {
	exp, err := s.GetHostExperience(hostID, experienceID)
	if err != nil {
		return nil, err
	}
	if exp.Status != models.ExperienceDraft && exp.Status != models.ExperienceRejected {
		return nil, utils.ErrBadRequest("Cannot update experience with status '%s'. Only draft or rejected experiences can be edited.", exp.Status)
	}

	fields := updateFields(req)
	if len(fields) == 0 {
		return nil, utils.ErrBadRequest("No fields to update")
	}

	minCap, maxCap := exp.TravelerMinCapacity, exp.TravelerMaxCapacity
	if req.TravelerMinCapacity != nil {
		minCap = *req.TravelerMinCapacity
	}
	if req.TravelerMaxCapacity != nil {
		maxCap = *req.TravelerMaxCapacity
	}
	if minCap > maxCap {
		return nil, utils.ErrBadRequest("traveler_min_capacity cannot exceed traveler_max_capacity")
	}

	if exp.Status == models.ExperienceRejected {
		fields["status"] = models.ExperienceDraft
	}
	if err := s.Repo.UpdateFields(experienceID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to update experience")
	}
	return s.GetExperience(experienceID)
}

func updateFields(req models.ExperienceUpdate) map[string]any {
	fields := map[string]any{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setString("title", req.Title)
	setString("promise", req.Promise)
	setString("description", req.Description)
	setString("unique_element", req.UniqueElement)
	setString("host_story", req.HostStory)
	setString("experience_domain", req.ExperienceDomain)
	setString("experience_theme", req.ExperienceTheme)
	setString("country", req.Country)
	setString("city", req.City)
	setString("neighborhood", req.Neighborhood)
	setString("meeting_landmark", req.MeetingLandmark)
	setString("meeting_point_details", req.MeetingPointDetails)
	setString("weather_contingency_plan", req.WeatherContingencyPlan)
	setString("experience_safety_guidelines", req.ExperienceSafetyGuidelines)

	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.RouteData != nil {
		fields["route_data"] = req.RouteData
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.TravelerMinCapacity != nil {
		fields["traveler_min_capacity"] = *req.TravelerMinCapacity
	}
	if req.TravelerMaxCapacity != nil {
		fields["traveler_max_capacity"] = *req.TravelerMaxCapacity
	}
	if req.PriceINR != nil {
		fields["price_inr"] = utils.RoundINR(*req.PriceINR)
	}
	if req.Inclusions != nil {
		fields["inclusions"] = req.Inclusions
	}
	if req.TravelerShouldBring != nil {
		fields["traveler_should_bring"] = req.TravelerShouldBring
	}
	if req.AccessibilityNotes != nil {
		fields["accessibility_notes"] = req.AccessibilityNotes
	}
	if req.PhotoSharingConsentRequired != nil {
		fields["photo_sharing_consent_required"] = *req.PhotoSharingConsentRequired
	}
	return fields
}

func (s *DefaultExperienceService) SubmitExperience(hostID, experienceID string, req models.ExperienceSubmission) (*models.Experience, error) {
	exp, err := s.GetHostExperience(hostID, experienceID)
	if err != nil {
		return nil, err
	}
	if exp.Status != models.ExperienceDraft {
		return nil, utils.ErrBadRequest("Cannot submit experience with status '%s'. Only draft experiences can be submitted.", exp.Status)
	}

	fields := map[string]any{"status": models.ExperienceSubmitted}
	if notes := strings.TrimSpace(req.SubmissionNotes); notes != "" {
		fields["admin_feedback"] = "Host submission notes: " + notes
	}
	if err := s.Repo.UpdateFields(experienceID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to submit experience")
	}
	utils.GetLogger().Info("Experience submitted for review", zap.String("experienceID", experienceID))
	return s.GetExperience(experienceID)
}

// DeleteExperience archives a draft or rejected experience.
func (s *DefaultExperienceService) DeleteExperience(hostID, experienceID string) error {
	exp, err := s.GetHostExperience(hostID, experienceID)
	if err != nil {
		return err
	}
	if exp.Status != models.ExperienceDraft && exp.Status != models.ExperienceRejected {
		return utils.ErrBadRequest("Cannot delete experience with status '%s'. Only draft or rejected experiences can be deleted.", exp.Status)
	}
	if err := s.Repo.UpdateFields(experienceID, map[string]any{"status": models.ExperienceArchived}); err != nil {
		return utils.ErrInternal(err, "Failed to delete experience")
	}
	return nil
}
