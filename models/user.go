package models

import "time"

const (
	RoleUser  = "user"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

const (
	AuthProviderPassword = "password"
	AuthProviderWallet   = "wallet"
	AuthProviderGoogle   = "google_oauth"
)

// User represents a platform user (traveler, host or admin).
type User struct {
	ID              string            `json:"id" bson:"id"`
	Email           string            `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash    string            `json:"-" bson:"password_hash,omitempty"`
	FullName        string            `json:"full_name" bson:"full_name"`
	Username        string            `json:"username,omitempty" bson:"username,omitempty"`
	Phone           string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio             string            `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImageURL string            `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	Preferences     map[string]any    `json:"preferences,omitempty" bson:"preferences,omitempty"`
	Role            string            `json:"role" bson:"role"`
	WalletAddress   string            `json:"wallet_address,omitempty" bson:"wallet_address,omitempty"`
	GoogleID        string            `json:"-" bson:"google_id,omitempty"`
	AuthProvider    string            `json:"auth_provider,omitempty" bson:"auth_provider,omitempty"`
	FCMToken        string            `json:"-" bson:"fcm_token,omitempty"`
	Metadata        map[string]string `json:"-" bson:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

// IsHost reports whether the user may act as a host. Admins can do everything a host can.
func (u *User) IsHost() bool {
	return u.Role == RoleHost || u.Role == RoleAdmin
}

// UserCreate is the email/password registration body.
type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// UserLogin is the email/password login body.
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserUpdate is a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	FullName        *string        `json:"full_name" binding:"omitempty,min=1,max=100"`
	Phone           *string        `json:"phone" binding:"omitempty,max=20"`
	Username        *string        `json:"username" binding:"omitempty,min=3,max=30"`
	Bio             *string        `json:"bio" binding:"omitempty,max=500"`
	ProfileImageURL *string        `json:"profile_image_url" binding:"omitempty,url"`
	Preferences     map[string]any `json:"preferences"`
	FCMToken        *string        `json:"fcm_token" binding:"omitempty,max=4096"`
}

// AuthResponse is returned by every login flow.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// WalletNonceRequest asks for a login challenge.
type WalletNonceRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,eth_addr"`
}

// WalletNonceResponse carries the message the wallet must sign.
type WalletNonceResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// WalletVerifyRequest submits the signed challenge.
type WalletVerifyRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,eth_addr"`
	Signature     string `json:"signature" binding:"required"`
}

// WalletAuthResponse mirrors AuthResponse with the wallet-specific user view.
type WalletAuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        map[string]any `json:"user"`
}

// HostStats summarises a host's activity on their public profile.
type HostStats struct {
	ExperienceCount int      `json:"experience_count"`
	EventRunCount   int      `json:"event_run_count"`
	TravelersHosted int      `json:"travelers_hosted"`
	AvgRating       *float64 `json:"avg_rating"`
	ReviewCount     int      `json:"review_count"`
	YearsHosting    float64  `json:"years_hosting"`
	ResponseRate    *float64 `json:"response_rate"`
}

// HostApplicationHighlights is the public slice of an approved application.
type HostApplicationHighlights struct {
	LanguagesSpoken   []string `json:"languages_spoken"`
	HostingExperience string   `json:"hosting_experience"`
	WhyHost           string   `json:"why_host"`
	SpecialSkills     []string `json:"special_skills"`
}

// PublicProfile is the profile view anyone can fetch.
type PublicProfile struct {
	ID              string                     `json:"id"`
	FullName        string                     `json:"full_name"`
	Username        string                     `json:"username,omitempty"`
	Bio             string                     `json:"bio,omitempty"`
	ProfileImageURL string                     `json:"profile_image_url,omitempty"`
	WalletAddress   string                     `json:"wallet_address,omitempty"`
	Role            string                     `json:"role"`
	Email           string                     `json:"email,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	HostStats       *HostStats                 `json:"host_stats,omitempty"`
	HostApplication *HostApplicationHighlights `json:"host_application,omitempty"`
}

// HostExperienceCard is a compact experience entry on a host profile.
type HostExperienceCard struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Domain        string    `json:"experience_domain"`
	PriceINR      float64   `json:"price_inr"`
	Neighborhood  string    `json:"neighborhood,omitempty"`
	City          string    `json:"city"`
	CoverPhotoURL string    `json:"cover_photo_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
