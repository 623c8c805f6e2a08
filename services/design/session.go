package design

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCountry   = "India"
	defaultCity      = "Mumbai"
	defaultInclusion = "Professional local guide"
	defaultSafety    = "Stay with your guide at all times and follow local traffic rules."
	promiseMaxLen    = 200
)

// submitRequired lists the merged payload keys a submission needs; alternatives share a slot.
var submitRequired = [][]string{
	{"title"},
	{"description"},
	{"domain"},
	{"duration_minutes"},
	{"traveler_max_capacity", "max_capacity"},
	{"price_inr"},
	{"meeting_point"},
}

func emptySteps() map[string]bool {
	return map[string]bool{models.StepBasics: false, models.StepMedia: false, models.StepLogistics: false}
}

func (s *DefaultDesignService) StartSession(hostID string, req models.DesignSessionStart) (*models.DesignSessionStartResponse, error) {
	if req.ExperienceID != "" {
		existing, err := s.Sessions.GetByExperience(req.ExperienceID, hostID)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to load design session")
		}
		if existing != nil {
			return startResponse(existing), nil
		}
		exp, err := s.Experiences.GetByID(req.ExperienceID)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to load experience")
		}
		if exp == nil || exp.HostID != hostID {
			return nil, utils.ErrNotFound("Experience not found")
		}
	}

	session := &models.DesignSession{
		ID:               uuid.New().String(),
		HostID:           hostID,
		ExperienceID:     req.ExperienceID,
		StepCompletion:   emptySteps(),
		Basics:           map[string]any{},
		Media:            models.DesignMedia{PhotosPreview: []models.PhotoPreview{}},
		Logistics:        map[string]any{},
		IncompleteFields: missingFields(map[string]any{}),
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, utils.ErrInternal(err, "Failed to create design session")
	}
	utils.GetLogger().Info("Design session started", zap.String("sessionID", session.ID), zap.String("hostID", hostID))
	return startResponse(session), nil
}

func startResponse(s *models.DesignSession) *models.DesignSessionStartResponse {
	return &models.DesignSessionStartResponse{
		SessionID:        s.ID,
		ExperienceID:     s.ExperienceID,
		StepCompletion:   s.StepCompletion,
		IncompleteFields: s.IncompleteFields,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (s *DefaultDesignService) session(hostID, sessionID string) (*models.DesignSession, error) {
	session, err := s.Sessions.Get(sessionID, hostID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load design session")
	}
	if session == nil {
		return nil, utils.ErrNotFound("Design session not found")
	}
	return session, nil
}

// toMap drops nil fields by relying on the payload's omitempty tags.
func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	return out, json.Unmarshal(raw, &out)
}

func merged(parts ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

func missingFields(data map[string]any) []string {
	missing := []string{}
	for _, slot := range submitRequired {
		found := false
		for _, key := range slot {
			if present(data, key) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, slot[0])
		}
	}
	return missing
}

// invalidFields catches values saved outside the HTTP binding, such as AI-filled drafts.
func invalidFields(data map[string]any) []string {
	invalid := []string{}
	if !slices.Contains(models.ExperienceDomains, strings.ToLower(str(data, "domain"))) {
		invalid = append(invalid, "domain")
	}
	return invalid
}

func (s *DefaultDesignService) saveStep(session *models.DesignSession, step string, fields map[string]any) (*models.DesignSession, error) {
	now := time.Now().UTC()
	steps := emptySteps()
	for k, v := range session.StepCompletion {
		steps[k] = v
	}
	steps[step] = true
	fields["step_completion"] = steps
	fields["autosave_version"] = session.AutosaveVersion + 1
	fields["last_saved_at"] = now

	if err := s.Sessions.UpdateFields(session.ID, session.HostID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to save design session")
	}
	return s.session(session.HostID, session.ID)
}

func (s *DefaultDesignService) SaveBasics(hostID, sessionID string, req models.StepBasicsPayload) (*models.DesignSession, error) {
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	update, err := toMap(req)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid basics payload")
	}
	basics := merged(session.Basics, update)
	return s.saveStep(session, models.StepBasics, map[string]any{
		"basics":            basics,
		"incomplete_fields": missingFields(merged(basics, session.Logistics)),
	})
}

func (s *DefaultDesignService) SaveLogistics(hostID, sessionID string, req models.StepLogisticsPayload) (*models.DesignSession, error) {
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	update, err := toMap(req)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid logistics payload")
	}
	logistics := merged(session.Logistics, update)
	return s.saveStep(session, models.StepLogistics, map[string]any{
		"logistics":         logistics,
		"incomplete_fields": missingFields(merged(session.Basics, logistics)),
	})
}

func (s *DefaultDesignService) UploadMedia(ctx context.Context, hostID, sessionID string, file io.Reader) (*models.DesignSession, error) {
	if s.Storage == nil {
		return nil, utils.ErrUnavailable("Media storage is not configured")
	}
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	uploaded, err := s.Storage.UploadFile(ctx, file, "design-sessions/"+session.ID)
	if err != nil {
		return nil, utils.ErrBadGateway("Failed to upload media").WithDetails(err.Error())
	}
	photos := append(session.Media.PhotosPreview, models.PhotoPreview{
		URL:        uploaded.URL,
		PublicID:   uploaded.PublicID,
		UploadedAt: time.Now().UTC(),
	})
	return s.saveStep(session, models.StepMedia, map[string]any{
		"media": models.DesignMedia{PhotosPreview: photos},
	})
}

// ReorderMedia moves the listed public ids to the front in the given order; the rest keep theirs.
func (s *DefaultDesignService) ReorderMedia(hostID, sessionID string, req models.StepMediaReorder) (*models.DesignSession, error) {
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.PhotoPreview, len(session.Media.PhotosPreview))
	for _, p := range session.Media.PhotosPreview {
		byID[p.PublicID] = p
	}
	ordered := make([]models.PhotoPreview, 0, len(byID))
	used := map[string]bool{}
	for _, id := range req.PhotoOrder {
		if p, ok := byID[id]; ok && !used[id] {
			ordered = append(ordered, p)
			used[id] = true
		}
	}
	for _, p := range session.Media.PhotosPreview {
		if !used[p.PublicID] {
			ordered = append(ordered, p)
		}
	}
	return s.saveStep(session, models.StepMedia, map[string]any{
		"media": models.DesignMedia{PhotosPreview: ordered},
	})
}

func (s *DefaultDesignService) Review(hostID, sessionID string) (*models.DesignSessionReview, error) {
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	data := merged(session.Basics, session.Logistics)
	missing := missingFields(data)
	photos := session.Media.PhotosPreview
	if photos == nil {
		photos = []models.PhotoPreview{}
	}
	return &models.DesignSessionReview{
		SessionID:     session.ID,
		Experience:    data,
		PhotosPreview: photos,
		ValidationReport: models.ValidationReport{
			IncompleteFields: missing,
			ReadyForSubmit:   len(missing) == 0,
		},
	}, nil
}

func (s *DefaultDesignService) Submit(hostID, sessionID string) (*models.DesignSubmitResponse, error) {
	session, err := s.session(hostID, sessionID)
	if err != nil {
		return nil, err
	}
	data := merged(session.Basics, session.Logistics)
	if missing := missingFields(data); len(missing) > 0 {
		return nil, utils.ErrUnprocessable("Design session is incomplete").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	if invalid := invalidFields(data); len(invalid) > 0 {
		return nil, utils.ErrUnprocessable("Design session has invalid fields").
			WithDetails(map[string]any{"invalid_fields": invalid})
	}

	exp := experienceFromDesign(hostID, data)
	if session.ExperienceID != "" {
		existing, err := s.Experiences.GetByID(session.ExperienceID)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to load experience")
		}
		if existing != nil && existing.HostID == hostID {
			if err := s.Experiences.UpdateFields(existing.ID, submitFields(exp)); err != nil {
				return nil, utils.ErrInternal(err, "Failed to update experience")
			}
			exp.ID = existing.ID
		}
	}
	if exp.ID == "" {
		exp.ID = uuid.New().String()
		if err := s.Experiences.Create(exp); err != nil {
			return nil, utils.ErrInternal(err, "Failed to create experience")
		}
	}

	if err := s.Sessions.UpdateFields(session.ID, hostID, map[string]any{
		"experience_id":     exp.ID,
		"incomplete_fields": []string{},
	}); err != nil {
		return nil, utils.ErrInternal(err, "Failed to link design session")
	}
	utils.GetLogger().Info("Design session submitted",
		zap.String("sessionID", session.ID), zap.String("experienceID", exp.ID))
	return &models.DesignSubmitResponse{ExperienceID: exp.ID, Status: models.ExperienceSubmitted}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func nonEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func experienceFromDesign(hostID string, data map[string]any) *models.Experience {
	description := str(data, "description")
	meetingPoint := str(data, "meeting_point")
	duration, _ := num(data, "duration_minutes")
	capacity, _ := num(data, "traveler_max_capacity", "max_capacity")
	price, _ := num(data, "price_inr")

	exp := &models.Experience{
		HostID:                     hostID,
		Title:                      str(data, "title"),
		Promise:                    truncate(description, promiseMaxLen),
		Description:                description,
		UniqueElement:              str(data, "what_to_expect"),
		ExperienceDomain:           strings.ToLower(str(data, "domain")),
		ExperienceTheme:            str(data, "theme"),
		Country:                    defaultCountry,
		City:                       defaultCity,
		Neighborhood:               str(data, "neighborhood"),
		MeetingLandmark:            strings.TrimSpace(strings.SplitN(meetingPoint, ",", 2)[0]),
		MeetingPointDetails:        meetingPoint,
		DurationMinutes:            int(duration),
		TravelerMinCapacity:        1,
		TravelerMaxCapacity:        int(capacity),
		PriceINR:                   utils.RoundINR(price),
		Inclusions:                 []string{defaultInclusion},
		TravelerShouldBring:        nonEmpty(strList(data, "what_to_bring")),
		AccessibilityNotes:         nonEmpty(strList(data, "requirements")),
		ExperienceSafetyGuidelines: str(data, "safety_guidelines"),
		Status:                     models.ExperienceSubmitted,
	}
	if exp.ExperienceSafetyGuidelines == "" {
		exp.ExperienceSafetyGuidelines = defaultSafety
	}
	if lat, ok := num(data, "latitude"); ok {
		exp.Latitude = &lat
	}
	if lng, ok := num(data, "longitude"); ok {
		exp.Longitude = &lng
	}
	return exp
}

func submitFields(exp *models.Experience) map[string]any {
	fields := map[string]any{
		"title":                        exp.Title,
		"promise":                      exp.Promise,
		"description":                  exp.Description,
		"unique_element":               exp.UniqueElement,
		"experience_domain":            exp.ExperienceDomain,
		"experience_theme":             exp.ExperienceTheme,
		"neighborhood":                 exp.Neighborhood,
		"meeting_landmark":             exp.MeetingLandmark,
		"meeting_point_details":        exp.MeetingPointDetails,
		"duration_minutes":             exp.DurationMinutes,
		"traveler_max_capacity":        exp.TravelerMaxCapacity,
		"price_inr":                    exp.PriceINR,
		"traveler_should_bring":        exp.TravelerShouldBring,
		"accessibility_notes":          exp.AccessibilityNotes,
		"experience_safety_guidelines": exp.ExperienceSafetyGuidelines,
		"status":                       models.ExperienceSubmitted,
	}
	if exp.Latitude != nil {
		fields["latitude"] = *exp.Latitude
	}
	if exp.Longitude != nil {
		fields["longitude"] = *exp.Longitude
	}
	return fields
}
