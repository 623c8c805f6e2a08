package models

import "time"

const (
	ExperienceDraft     = "draft"
	ExperienceSubmitted = "submitted"
	ExperienceApproved  = "approved"
	ExperienceRejected  = "rejected"
	ExperienceArchived  = "archived"
)

// ExperienceDomains lists the categories an experience can be filed under.
var ExperienceDomains = []string{
	"food", "culture", "art", "history", "nature",
	"nightlife", "shopping", "adventure", "wellness", "other",
}

// Experience is a host's listing; event runs are scheduled against approved ones.
type Experience struct {
	ID                          string          `json:"id" bson:"id"`
	HostID                      string          `json:"host_id" bson:"host_id"`
	Title                       string          `json:"title" bson:"title"`
	Promise                     string          `json:"promise" bson:"promise"`
	Description                 string          `json:"description" bson:"description"`
	UniqueElement               string          `json:"unique_element" bson:"unique_element"`
	HostStory                   string          `json:"host_story" bson:"host_story"`
	ExperienceDomain            string          `json:"experience_domain" bson:"experience_domain"`
	ExperienceTheme             string          `json:"experience_theme,omitempty" bson:"experience_theme,omitempty"`
	Country                     string          `json:"country" bson:"country"`
	City                        string          `json:"city" bson:"city"`
	Neighborhood                string          `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
	MeetingLandmark             string          `json:"meeting_landmark,omitempty" bson:"meeting_landmark,omitempty"`
	MeetingPointDetails         string          `json:"meeting_point_details,omitempty" bson:"meeting_point_details,omitempty"`
	Latitude                    *float64        `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude                   *float64        `json:"longitude,omitempty" bson:"longitude,omitempty"`
	RouteData                   map[string]any  `json:"route_data,omitempty" bson:"route_data,omitempty"`
	DurationMinutes             int             `json:"duration_minutes" bson:"duration_minutes"`
	TravelerMinCapacity         int             `json:"traveler_min_capacity" bson:"traveler_min_capacity"`
	TravelerMaxCapacity         int             `json:"traveler_max_capacity" bson:"traveler_max_capacity"`
	PriceINR                    float64         `json:"price_inr" bson:"price_inr"`
	Inclusions                  []string        `json:"inclusions" bson:"inclusions"`
	TravelerShouldBring         []string        `json:"traveler_should_bring" bson:"traveler_should_bring"`
	AccessibilityNotes          []string        `json:"accessibility_notes" bson:"accessibility_notes"`
	WeatherContingencyPlan      string          `json:"weather_contingency_plan,omitempty" bson:"weather_contingency_plan,omitempty"`
	PhotoSharingConsentRequired bool            `json:"photo_sharing_consent_required" bson:"photo_sharing_consent_required"`
	ExperienceSafetyGuidelines  string          `json:"experience_safety_guidelines,omitempty" bson:"experience_safety_guidelines,omitempty"`
	Status                      string          `json:"status" bson:"status"`
	AdminFeedback               string          `json:"admin_feedback,omitempty" bson:"admin_feedback,omitempty"`
	StructuredFeedback          *ReviewFeedback `json:"structured_feedback,omitempty" bson:"structured_feedback,omitempty"`
	ApprovedAt                  *time.Time      `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovedBy                  string          `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	CreatedAt                   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt                   time.Time       `json:"updated_at" bson:"updated_at"`
}

// ExperienceCreate is the body for a new draft.
type ExperienceCreate struct {
	Title                       string         `json:"title" binding:"required,min=10,max=200"`
	Promise                     string         `json:"promise" binding:"required,min=20,max=200"`
	Description                 string         `json:"description" binding:"required,min=100,max=2000"`
	UniqueElement               string         `json:"unique_element" binding:"required,min=50,max=500"`
	HostStory                   string         `json:"host_story" binding:"max=1000"`
	ExperienceDomain            string         `json:"experience_domain" binding:"required,oneof=food culture art history nature nightlife shopping adventure wellness other"`
	ExperienceTheme             string         `json:"experience_theme" binding:"max=100"`
	Country                     string         `json:"country" binding:"max=100"`
	City                        string         `json:"city" binding:"max=100"`
	Neighborhood                string         `json:"neighborhood" binding:"max=100"`
	MeetingLandmark             string         `json:"meeting_landmark" binding:"max=200"`
	MeetingPointDetails         string         `json:"meeting_point_details" binding:"max=500"`
	Latitude                    *float64       `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude                   *float64       `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	RouteData                   map[string]any `json:"route_data"`
	DurationMinutes             int            `json:"duration_minutes" binding:"required,min=30,max=480"`
	TravelerMinCapacity         int            `json:"traveler_min_capacity" binding:"omitempty,min=1,max=4"`
	TravelerMaxCapacity         int            `json:"traveler_max_capacity" binding:"required,min=1,max=4"`
	PriceINR                    float64        `json:"price_inr" binding:"required,gt=0"`
	Inclusions                  []string       `json:"inclusions"`
	TravelerShouldBring         []string       `json:"traveler_should_bring"`
	AccessibilityNotes          []string       `json:"accessibility_notes"`
	WeatherContingencyPlan      string         `json:"weather_contingency_plan" binding:"max=500"`
	PhotoSharingConsentRequired bool           `json:"photo_sharing_consent_required"`
	ExperienceSafetyGuidelines  string         `json:"experience_safety_guidelines" binding:"max=1000"`
}

// ExperienceUpdate is a partial update; nil fields are left as they are.
type ExperienceUpdate struct {
	Title                       *string        `json:"title" binding:"omitempty,min=10,max=200"`
	Promise                     *string        `json:"promise" binding:"omitempty,min=20,max=200"`
	Description                 *string        `json:"description" binding:"omitempty,min=100,max=2000"`
	UniqueElement               *string        `json:"unique_element" binding:"omitempty,min=50,max=500"`
	HostStory                   *string        `json:"host_story" binding:"omitempty,max=1000"`
	ExperienceDomain            *string        `json:"experience_domain" binding:"omitempty,oneof=food culture art history nature nightlife shopping adventure wellness other"`
	ExperienceTheme             *string        `json:"experience_theme" binding:"omitempty,max=100"`
	Country                     *string        `json:"country" binding:"omitempty,max=100"`
	City                        *string        `json:"city" binding:"omitempty,max=100"`
	Neighborhood                *string        `json:"neighborhood" binding:"omitempty,max=100"`
	MeetingLandmark             *string        `json:"meeting_landmark" binding:"omitempty,max=200"`
	MeetingPointDetails         *string        `json:"meeting_point_details" binding:"omitempty,max=500"`
	Latitude                    *float64       `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude                   *float64       `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	RouteData                   map[string]any `json:"route_data"`
	DurationMinutes             *int           `json:"duration_minutes" binding:"omitempty,min=30,max=480"`
	TravelerMinCapacity         *int           `json:"traveler_min_capacity" binding:"omitempty,min=1,max=4"`
	TravelerMaxCapacity         *int           `json:"traveler_max_capacity" binding:"omitempty,min=1,max=4"`
	PriceINR                    *float64       `json:"price_inr" binding:"omitempty,gt=0"`
	Inclusions                  []string       `json:"inclusions"`
	TravelerShouldBring         []string       `json:"traveler_should_bring"`
	AccessibilityNotes          []string       `json:"accessibility_notes"`
	WeatherContingencyPlan      *string        `json:"weather_contingency_plan" binding:"omitempty,max=500"`
	PhotoSharingConsentRequired *bool          `json:"photo_sharing_consent_required"`
	ExperienceSafetyGuidelines  *string        `json:"experience_safety_guidelines" binding:"omitempty,max=1000"`
}

// ExperienceSubmission accompanies a submit-for-review request.
type ExperienceSubmission struct {
	SubmissionNotes string `json:"submission_notes" binding:"max=500"`
}

// ReviewFeedback is the structured part of an admin review.
type ReviewFeedback struct {
	DecisionReason         string `json:"decision_reason,omitempty" bson:"decision_reason,omitempty" binding:"max=500"`
	ContentQualityNotes    string `json:"content_quality_notes,omitempty" bson:"content_quality_notes,omitempty"`
	SafetyConcerns         string `json:"safety_concerns,omitempty" bson:"safety_concerns,omitempty"`
	ImprovementSuggestions string `json:"improvement_suggestions,omitempty" bson:"improvement_suggestions,omitempty"`
	PricingFeedback        string `json:"pricing_feedback,omitempty" bson:"pricing_feedback,omitempty"`
	NextSteps              string `json:"next_steps,omitempty" bson:"next_steps,omitempty"`
}

// ExperienceReview is an admin's decision on a submitted experience.
type ExperienceReview struct {
	Decision           string          `json:"decision" binding:"required,oneof=approved rejected"`
	AdminFeedback      string          `json:"admin_feedback" binding:"max=1000"`
	StructuredFeedback *ReviewFeedback `json:"structured_feedback"`
}

// ExperienceStats feeds the admin dashboard.
type ExperienceStats struct {
	TotalExperiences     int      `json:"total_experiences"`
	DraftCount           int      `json:"draft_count"`
	SubmittedCount       int      `json:"submitted_count"`
	ApprovedCount        int      `json:"approved_count"`
	RejectedCount        int      `json:"rejected_count"`
	ExperiencesThisMonth int      `json:"experiences_this_month"`
	AvgApprovalTimeDays  *float64 `json:"avg_approval_time_days"`
	HostCount            int      `json:"host_count"`
}

// ExperienceFilter narrows experience listings.
type ExperienceFilter struct {
	IDs          []string
	HostID       string
	Status       string
	Domain       string
	Neighborhood string
	// SortBy is a timestamp field sorted descending; defaults to updated_at.
	SortBy string
	Limit  int
	Offset int
}
