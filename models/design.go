package models

import "time"

const (
	StepBasics    = "basics"
	StepMedia     = "media"
	StepLogistics = "logistics"
)

// PhotoPreview is a media upload attached to a design session before submission.
type PhotoPreview struct {
	URL        string    `json:"url" bson:"url"`
	PublicID   string    `json:"public_id" bson:"public_id"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

type DesignMedia struct {
	PhotosPreview []PhotoPreview `json:"photos_preview" bson:"photos_preview"`
}

// DesignSession is a host's in-progress experience wizard.
type DesignSession struct {
	ID               string          `json:"id" bson:"id"`
	HostID           string          `json:"host_id" bson:"host_id"`
	ExperienceID     string          `json:"experience_id,omitempty" bson:"experience_id,omitempty"`
	StepCompletion   map[string]bool `json:"step_completion" bson:"step_completion"`
	Basics           map[string]any  `json:"basics" bson:"basics"`
	Media            DesignMedia     `json:"media" bson:"media"`
	Logistics        map[string]any  `json:"logistics" bson:"logistics"`
	IncompleteFields []string        `json:"incomplete_fields" bson:"incomplete_fields"`
	AutosaveVersion  int             `json:"autosave_version" bson:"autosave_version"`
	LastSavedAt      *time.Time      `json:"last_saved_at,omitempty" bson:"last_saved_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at"`
}

type DesignSessionStart struct {
	ExperienceID string `json:"experience_id"`
}

type DesignSessionStartResponse struct {
	SessionID        string          `json:"session_id"`
	ExperienceID     string          `json:"experience_id,omitempty"`
	StepCompletion   map[string]bool `json:"step_completion"`
	IncompleteFields []string        `json:"incomplete_fields"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// StepBasicsPayload is the basics step; nil fields are ignored.
type StepBasicsPayload struct {
	Title           *string  `json:"title,omitempty" binding:"omitempty,max=200"`
	Description     *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	WhatToExpect    *string  `json:"what_to_expect,omitempty" binding:"omitempty,max=500"`
	Domain          *string  `json:"domain,omitempty" binding:"omitempty,oneof=food culture art history nature nightlife shopping adventure wellness other"`
	Theme           *string  `json:"theme,omitempty" binding:"omitempty,max=100"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" binding:"omitempty,min=30,max=480"`
	MaxCapacity     *int     `json:"max_capacity,omitempty" binding:"omitempty,min=1,max=4"`
	PriceINR        *float64 `json:"price_inr,omitempty" binding:"omitempty,gt=0"`
	Neighborhood    *string  `json:"neighborhood,omitempty"`
	MeetingPoint    *string  `json:"meeting_point,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	WhatToBring     []string `json:"what_to_bring,omitempty"`
	WhatToKnow      *string  `json:"what_to_know,omitempty"`
}

type StepLogisticsPayload struct {
	MeetingPoint        *string  `json:"meeting_point,omitempty"`
	Neighborhood        *string  `json:"neighborhood,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude           *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	DurationMinutes     *int     `json:"duration_minutes,omitempty" binding:"omitempty,min=30,max=480"`
	TravelerMaxCapacity *int     `json:"traveler_max_capacity,omitempty" binding:"omitempty,min=1,max=4"`
	PriceINR            *float64 `json:"price_inr,omitempty" binding:"omitempty,gt=0"`
	SafetyGuidelines    *string  `json:"safety_guidelines,omitempty"`
	Requirements        []string `json:"requirements,omitempty"`
}

type StepMediaReorder struct {
	PhotoOrder []string `json:"photo_order" binding:"required"`
}

type ValidationReport struct {
	IncompleteFields []string `json:"incomplete_fields"`
	ReadyForSubmit   bool     `json:"ready_for_submit"`
}

type DesignSessionReview struct {
	SessionID        string           `json:"session_id"`
	Experience       map[string]any   `json:"experience"`
	PhotosPreview    []PhotoPreview   `json:"photos_preview"`
	ValidationReport ValidationReport `json:"validation_report"`
}

type DesignSubmitResponse struct {
	ExperienceID string `json:"experience_id"`
	Status       string `json:"status"`
}

// QAAnswer is one answered question from the guided questionnaire.
type QAAnswer struct {
	QuestionID     string         `json:"question_id" binding:"required"`
	QuestionText   string         `json:"question_text" binding:"required"`
	Answer         string         `json:"answer,omitempty"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
	PhotoIDs       []string       `json:"photo_ids,omitempty"`
	AnsweredAt     string         `json:"answered_at,omitempty"`
	CharacterCount *int           `json:"character_count,omitempty"`
}

type QAGenerationRequest struct {
	Answers []QAAnswer `json:"answers" binding:"required,min=1,dive"`
}

// ExperienceGenerationResponse is the structured listing the LLM drafts.
type ExperienceGenerationResponse struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	WhatToExpect    string   `json:"what_to_expect"`
	Domain          string   `json:"domain"`
	Theme           string   `json:"theme,omitempty"`
	DurationMinutes int      `json:"duration_minutes"`
	MaxCapacity     int      `json:"max_capacity"`
	PriceINR        *float64 `json:"price_inr,omitempty"`
	Neighborhood    string   `json:"neighborhood,omitempty"`
	MeetingPoint    string   `json:"meeting_point,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	WhatToBring     []string `json:"what_to_bring,omitempty"`
	WhatToKnow      string   `json:"what_to_know,omitempty"`
}

type TranscriptionResponse struct {
	Transcript string `json:"transcript"`
}

const (
	IntentRead       = "READ"
	IntentModify     = "MODIFY"
	IntentGenerate   = "GENERATE"
	IntentAdvice     = "ADVICE"
	IntentValidate   = "VALIDATE"
	IntentNavigation = "NAVIGATION"
)

type ChatRequest struct {
	SessionID string         `json:"session_id"`
	Message   string         `json:"message" binding:"required,min=1,max=2000"`
	FormState map[string]any `json:"form_state"`
}

type FieldSuggestion struct {
	Field          string  `json:"field"`
	CurrentValue   any     `json:"current_value"`
	SuggestedValue any     `json:"suggested_value"`
	Reasoning      string  `json:"reasoning"`
	Confidence     float64 `json:"confidence"`
	AutoApplySafe  bool    `json:"auto_apply_safe"`
	ChangeType     string  `json:"change_type"`
}

type ChatResponse struct {
	NaturalResponse      string            `json:"natural_response"`
	Intent               string            `json:"intent"`
	DetectedFields       []string          `json:"detected_fields"`
	Suggestions          []FieldSuggestion `json:"suggestions"`
	ValidationWarnings   []string          `json:"validation_warnings"`
	ProactiveSuggestions []string          `json:"proactive_suggestions"`
	Confidence           float64           `json:"confidence"`
	Reasoning            string            `json:"reasoning"`
}

// ChatMessage is one turn of a user's stored chat history.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
