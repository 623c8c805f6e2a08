package models

// Notification is a push message addressed to one user's device.
type Notification struct {
	UserID string            `json:"user_id"`
	Token  string            `json:"-"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

const (
	NotificationBookingReceived  = "booking_received"
	NotificationBookingConfirmed = "booking_confirmed"
)
