package models

import "time"

const (
	BookingConfirmed           = "confirmed"
	BookingCancelled           = "cancelled"
	BookingExperienceCompleted = "experience_completed"
	BookingNoShow              = "no_show"

	BookingTypeSolo = "solo_traveler"
)

// SeatHoldingStatuses are the booking statuses that consume a run's capacity.
var SeatHoldingStatuses = []string{BookingConfirmed, BookingExperienceCompleted}

const (
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentPending   = "pending"
)

// Payment records how a booking was paid for.
type Payment struct {
	PaymentID     string    `json:"payment_id" bson:"payment_id"`
	TransactionID string    `json:"transaction_id" bson:"transaction_id"`
	Amount        float64   `json:"amount" bson:"amount"`
	Currency      string    `json:"currency" bson:"currency"`
	Status        string    `json:"status" bson:"status"`
	PaymentMethod string    `json:"payment_method" bson:"payment_method"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
}

type Booking struct {
	ID                     string    `json:"id" bson:"id"`
	EventRunID             string    `json:"event_run_id" bson:"event_run_id"`
	TravelerID             string    `json:"traveler_id" bson:"traveler_id"`
	TravelerCount          int       `json:"traveler_count" bson:"traveler_count"`
	BookingStatus          string    `json:"booking_status" bson:"booking_status"`
	BookingType            string    `json:"booking_type" bson:"booking_type"`
	TotalExperienceCostINR float64   `json:"total_experience_cost_inr" bson:"total_experience_cost_inr"`
	StakeINR               float64   `json:"stake_inr" bson:"stake_inr"`
	MayhousePlatformFeeINR float64   `json:"mayhouse_platform_fee_inr" bson:"mayhouse_platform_fee_inr"`
	HostEarningsINR        float64   `json:"host_earnings_inr" bson:"host_earnings_inr"`
	Payment                *Payment  `json:"payment,omitempty" bson:"payment,omitempty"`
	CreatedAt              time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" bson:"updated_at"`
}

type BookingCreate struct {
	EventRunID      string `json:"event_run_id" binding:"required"`
	SeatCount       int    `json:"seat_count" binding:"required,min=1,max=4"`
	PaymentMethodID string `json:"payment_method_id"`
}

// BookingCostRequest asks for a cost breakdown without booking.
type BookingCostRequest struct {
	EventRunID string `json:"event_run_id" binding:"required"`
	SeatCount  int    `json:"seat_count" binding:"required,min=1,max=4"`
}

// BookingCost is the INR breakdown of a prospective booking.
type BookingCost struct {
	EventRunID   string  `json:"event_run_id"`
	SeatCount    int     `json:"seat_count"`
	PricePerSeat float64 `json:"price_per_seat_inr"`
	TotalPrice   float64 `json:"total_price_inr"`
	StakeAmount  float64 `json:"stake_inr"`
	TotalCost    float64 `json:"total_cost_inr"`
	PlatformFee  float64 `json:"platform_fee_inr"`
	HostEarnings float64 `json:"host_earnings_inr"`
}

// BookingResponse is what a traveler sees after booking.
type BookingResponse struct {
	ID             string    `json:"id"`
	EventRunID     string    `json:"event_run_id"`
	UserID         string    `json:"user_id"`
	SeatCount      int       `json:"seat_count"`
	TotalAmountINR float64   `json:"total_amount_inr"`
	BookingStatus  string    `json:"booking_status"`
	Payment        *Payment  `json:"payment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type BookingExperienceRef struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ExperienceDomain string `json:"experience_domain"`
}

type BookingEventRunRef struct {
	ID            string                `json:"id"`
	StartDatetime time.Time             `json:"start_datetime"`
	EndDatetime   time.Time             `json:"end_datetime"`
	Status        string                `json:"status"`
	Experience    *BookingExperienceRef `json:"experience,omitempty"`
}

// BookingWithEventRun is an item of the traveler's booking list.
type BookingWithEventRun struct {
	BookingResponse
	EventRun *BookingEventRunRef `json:"event_run,omitempty"`
}

// CompleteEventRequest marks a run finished and records attendance.
type CompleteEventRequest struct {
	EventRunID         string   `json:"event_run_id" binding:"required"`
	AttendedBookingIDs []string `json:"attended_booking_ids"`
}

type CompleteEventResponse struct {
	EventRunID    string `json:"event_run_id"`
	AttendedCount int    `json:"attended_count"`
	NoShowCount   int    `json:"no_show_count"`
	Message       string `json:"message"`
}
