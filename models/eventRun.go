package models

import "time"

const (
	EventRunScheduled = "scheduled"
	EventRunLowSeats  = "low_seats"
	EventRunSoldOut   = "sold_out"
	EventRunCompleted = "completed"
	EventRunCancelled = "cancelled"
)

// EventRunStatuses lists every run status in display order.
var EventRunStatuses = []string{
	EventRunScheduled, EventRunLowSeats, EventRunSoldOut, EventRunCompleted, EventRunCancelled,
}

// ActiveEventRunStatuses are the statuses that count toward a host's run limit.
var ActiveEventRunStatuses = []string{EventRunScheduled, EventRunLowSeats, EventRunSoldOut}

// BookableEventRunStatuses are the statuses that accept new bookings.
var BookableEventRunStatuses = []string{EventRunScheduled, EventRunLowSeats}

const (
	ChainStatusPending   = "pending"
	ChainStatusConfirmed = "confirmed"
	ChainStatusFailed    = "failed"
)

// EventRun is a scheduled, bookable slot of an experience.
type EventRun struct {
	ID                      string     `json:"id" bson:"id"`
	ExperienceID            string     `json:"experience_id" bson:"experience_id"`
	HostID                  string     `json:"host_id" bson:"host_id"`
	StartDatetime           time.Time  `json:"start_datetime" bson:"start_datetime"`
	EndDatetime             time.Time  `json:"end_datetime" bson:"end_datetime"`
	MaxCapacity             int        `json:"max_capacity" bson:"max_capacity"`
	SpecialPricingINR       *float64   `json:"special_pricing_inr,omitempty" bson:"special_pricing_inr,omitempty"`
	Status                  string     `json:"status" bson:"status"`
	HostMeetingInstructions string     `json:"host_meeting_instructions,omitempty" bson:"host_meeting_instructions,omitempty"`
	GroupPairingEnabled     bool       `json:"group_pairing_enabled" bson:"group_pairing_enabled"`
	BlockchainEventRunID    *int64     `json:"blockchain_event_run_id,omitempty" bson:"blockchain_event_run_id,omitempty"`
	BlockchainTxHash        string     `json:"blockchain_tx_hash,omitempty" bson:"blockchain_tx_hash,omitempty"`
	BlockchainStatus        string     `json:"blockchain_status,omitempty" bson:"blockchain_status,omitempty"`
	CompletedAt             *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt               time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" bson:"updated_at"`
}

// EffectivePrice is the run's special price, falling back to the experience price.
// A zero special price means none was set.
func (r *EventRun) EffectivePrice(exp *Experience) float64 {
	if r.SpecialPricingINR != nil && *r.SpecialPricingINR > 0 {
		return *r.SpecialPricingINR
	}
	if exp == nil {
		return 0
	}
	return exp.PriceINR
}

type EventRunCreate struct {
	ExperienceID            string    `json:"experience_id" binding:"required"`
	StartDatetime           time.Time `json:"start_datetime" binding:"required,future"`
	EndDatetime             time.Time `json:"end_datetime" binding:"required,gtfield=StartDatetime"`
	MaxCapacity             int       `json:"max_capacity" binding:"required,min=1,max=4"`
	SpecialPricingINR       *float64  `json:"special_pricing_inr" binding:"omitempty,gte=0"`
	HostMeetingInstructions string    `json:"host_meeting_instructions" binding:"max=500"`
	GroupPairingEnabled     bool      `json:"group_pairing_enabled"`
}

type EventRunUpdate struct {
	StartDatetime           *time.Time `json:"start_datetime"`
	EndDatetime             *time.Time `json:"end_datetime"`
	MaxCapacity             *int       `json:"max_capacity" binding:"omitempty,min=1,max=4"`
	SpecialPricingINR       *float64   `json:"special_pricing_inr" binding:"omitempty,gte=0"`
	Status                  *string    `json:"status" binding:"omitempty,oneof=scheduled low_seats sold_out completed cancelled"`
	HostMeetingInstructions *string    `json:"host_meeting_instructions" binding:"omitempty,max=500"`
	GroupPairingEnabled     *bool      `json:"group_pairing_enabled"`
}

// EventRunStatusUpdate is the admin status override body.
type EventRunStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=scheduled low_seats sold_out completed cancelled"`
}

type EventRunBookingSummary struct {
	TotalBookings     int `json:"total_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	TotalTravelers    int `json:"total_travelers"`
	AvailableSpots    int `json:"available_spots"`
}

// DetailedBooking is a booking row as shown to the run's host.
type DetailedBooking struct {
	ID             string    `json:"id"`
	TravelerID     string    `json:"traveler_id"`
	TravelerName   string    `json:"traveler_name"`
	TravelerEmail  string    `json:"traveler_email,omitempty"`
	TravelerPhone  string    `json:"traveler_phone,omitempty"`
	TravelerCount  int       `json:"traveler_count"`
	BookingStatus  string    `json:"booking_status"`
	TotalCostINR   float64   `json:"total_experience_cost_inr"`
	HostEarningINR float64   `json:"host_earnings_inr"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventRunResponse is a run enriched with its experience, host and booking figures.
type EventRunResponse struct {
	EventRun
	BookingSummary   *EventRunBookingSummary `json:"booking_summary,omitempty"`
	DetailedBookings []DetailedBooking       `json:"detailed_bookings,omitempty"`
	ExperienceTitle  string                  `json:"experience_title,omitempty"`
	ExperienceDomain string                  `json:"experience_domain,omitempty"`
	HostName         string                  `json:"host_name,omitempty"`
	PriceINR         float64                 `json:"price_inr"`
	AvailableSpots   int                     `json:"available_spots"`
}

// EventRunSummary is the compact row used in lists.
type EventRunSummary struct {
	ID               string    `json:"id"`
	ExperienceID     string    `json:"experience_id"`
	StartDatetime    time.Time `json:"start_datetime"`
	EndDatetime      time.Time `json:"end_datetime"`
	MaxCapacity      int       `json:"max_capacity"`
	Status           string    `json:"status"`
	AvailableSpots   int       `json:"available_spots"`
	PriceINR         float64   `json:"price_inr"`
	ExperienceTitle  string    `json:"experience_title"`
	ExperienceDomain string    `json:"experience_domain"`
	Neighborhood     string    `json:"neighborhood,omitempty"`
}

// ExploreEventRun is the public card for an upcoming run.
type ExploreEventRun struct {
	ID                      string    `json:"id"`
	StartDatetime           time.Time `json:"start_datetime"`
	EndDatetime             time.Time `json:"end_datetime"`
	MaxCapacity             int       `json:"max_capacity"`
	AvailableSpots          int       `json:"available_spots"`
	PriceINR                float64   `json:"price_inr"`
	Status                  string    `json:"status"`
	ExperienceID            string    `json:"experience_id"`
	ExperienceTitle         string    `json:"experience_title"`
	ExperiencePromise       string    `json:"experience_promise,omitempty"`
	ExperienceDomain        string    `json:"experience_domain"`
	ExperienceTheme         string    `json:"experience_theme,omitempty"`
	Neighborhood            string    `json:"neighborhood,omitempty"`
	MeetingLandmark         string    `json:"meeting_landmark,omitempty"`
	DurationMinutes         int       `json:"duration_minutes"`
	CoverPhotoURL           string    `json:"cover_photo_url,omitempty"`
	HostID                  string    `json:"host_id"`
	HostName                string    `json:"host_name"`
	HostMeetingInstructions string    `json:"host_meeting_instructions,omitempty"`
	GroupPairingEnabled     bool      `json:"group_pairing_enabled"`
}

// EventRunFilter covers the public, host and admin listing parameters.
type EventRunFilter struct {
	ExperienceID  string     `form:"experience_id"`
	HostID        string     `form:"-"`
	Status        string     `form:"status" binding:"omitempty,oneof=scheduled low_seats sold_out completed cancelled"`
	StartDate     *time.Time `form:"start_date"`
	EndDate       *time.Time `form:"end_date"`
	Domain        string     `form:"domain"`
	Neighborhood  string     `form:"neighborhood"`
	MinPrice      *float64   `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice      *float64   `form:"max_price" binding:"omitempty,gte=0"`
	AvailableOnly *bool      `form:"available_only"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset        int        `form:"offset" binding:"omitempty,min=0"`
}

type EventRunStats struct {
	TotalEventRuns         int            `json:"total_event_runs"`
	ScheduledRuns          int            `json:"scheduled_runs"`
	CompletedRuns          int            `json:"completed_runs"`
	CancelledRuns          int            `json:"cancelled_runs"`
	UpcomingRuns7Days      int            `json:"upcoming_runs_7_days"`
	AvgCapacityUtilization float64        `json:"avg_capacity_utilization"`
	StatusCounts           map[string]int `json:"status_counts"`
	TotalCapacityOffered   int            `json:"total_capacity_offered"`
	TotalSpotsBooked       int            `json:"total_spots_booked"`
	UtilizationRate        float64        `json:"utilization_rate"`
}
