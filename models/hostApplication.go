package models

import "time"

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type Availability struct {
	Days           []string `json:"days" bson:"days" binding:"required,min=1,max=7,dive,weekday"`
	TimePreference string   `json:"time_preference" bson:"time_preference" binding:"required,oneof=morning afternoon evening flexible"`
	Notes          string   `json:"notes,omitempty" bson:"notes,omitempty" binding:"max=200"`
}

// ApplicationPolicyAcceptance is one policy the applicant ticked on the form.
type ApplicationPolicyAcceptance struct {
	PolicyType    string `json:"policy_type" bson:"policy_type" binding:"required,oneof=terms_conditions background_verification privacy_policy host_agreement cancellation_policy"`
	PolicyVersion string `json:"policy_version" bson:"policy_version" binding:"required"`
	Accepted      bool   `json:"accepted" bson:"accepted"`
}

// HostApplicationData is the applicant-supplied part of a host application.
type HostApplicationData struct {
	ExperienceDomains      []string                      `json:"experience_domains" bson:"experience_domains" binding:"required,min=1,max=5,dive,oneof=food culture art history nature nightlife shopping adventure wellness other"`
	HostingExperience      string                        `json:"hosting_experience" bson:"hosting_experience" binding:"required,min=50,max=1000"`
	WhyHost                string                        `json:"why_host" bson:"why_host" binding:"required,min=100,max=1500"`
	SampleExperienceIdea   string                        `json:"sample_experience_idea" bson:"sample_experience_idea" binding:"required,min=100,max=2000"`
	Availability           Availability                  `json:"availability" bson:"availability" binding:"required"`
	LanguagesSpoken        []string                      `json:"languages_spoken" bson:"languages_spoken" binding:"required,min=1,max=10"`
	SpecialSkills          []string                      `json:"special_skills,omitempty" bson:"special_skills,omitempty" binding:"max=10"`
	BackgroundCheckConsent bool                          `json:"background_check_consent" bson:"background_check_consent" binding:"eq=true"`
	TermsAccepted          bool                          `json:"terms_accepted" bson:"terms_accepted" binding:"eq=true"`
	MarketingConsent       bool                          `json:"marketing_consent" bson:"marketing_consent"`
	PolicyAcceptances      []ApplicationPolicyAcceptance `json:"policy_acceptances,omitempty" bson:"policy_acceptances,omitempty" binding:"dive"`
}

type ApplicationFeedback struct {
	DecisionReason string   `json:"decision_reason,omitempty" bson:"decision_reason,omitempty" binding:"max=500"`
	Strengths      []string `json:"strengths,omitempty" bson:"strengths,omitempty"`
	Improvements   []string `json:"improvements,omitempty" bson:"improvements,omitempty"`
	NextSteps      []string `json:"next_steps,omitempty" bson:"next_steps,omitempty"`
}

type HostApplication struct {
	ID              string               `json:"id" bson:"id"`
	UserID          string               `json:"user_id" bson:"user_id"`
	Status          string               `json:"status" bson:"status"`
	ApplicationData HostApplicationData  `json:"application_data" bson:"application_data"`
	AdminNotes      string               `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	AdminFeedback   *ApplicationFeedback `json:"admin_feedback,omitempty" bson:"admin_feedback,omitempty"`
	AppliedAt       time.Time            `json:"applied_at" bson:"applied_at"`
	ReviewedAt      *time.Time           `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewedBy      string               `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
}

// HostApplicationSummary is the admin list row, joined with the applicant.
type HostApplicationSummary struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	UserName          string     `json:"user_name"`
	UserEmail         string     `json:"user_email"`
	Status            string     `json:"status"`
	ExperienceDomains []string   `json:"experience_domains"`
	AppliedAt         time.Time  `json:"applied_at"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
}

type HostApplicationReview struct {
	Decision   string               `json:"decision" binding:"required,oneof=approved rejected"`
	AdminNotes string               `json:"admin_notes" binding:"max=1000"`
	Feedback   *ApplicationFeedback `json:"feedback"`
}

type HostApplicationStats struct {
	TotalApplications     int      `json:"total_applications"`
	PendingCount          int      `json:"pending_count"`
	ApprovedCount         int      `json:"approved_count"`
	RejectedCount         int      `json:"rejected_count"`
	ApplicationsThisMonth int      `json:"applications_this_month"`
	AvgReviewTimeDays     *float64 `json:"avg_review_time_days"`
}

// LegalDocumentRef identifies a policy version in the eligibility response.
type LegalDocumentRef struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Title   string `json:"title"`
}

type HostEligibility struct {
	Eligible       bool                        `json:"eligible"`
	Reason         string                      `json:"reason,omitempty"`
	Message        string                      `json:"message"`
	ApplicationID  string                      `json:"application_id,omitempty"`
	AppliedAt      *time.Time                  `json:"applied_at,omitempty"`
	CanReapplyAt   *time.Time                  `json:"can_reapply_at,omitempty"`
	LegalDocuments map[string]LegalDocumentRef `json:"legal_documents,omitempty"`
	NextSteps      []string                    `json:"next_steps,omitempty"`
}
