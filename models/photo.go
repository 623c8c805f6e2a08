package models

import "time"

// ExperiencePhoto is an image attached to an experience listing.
type ExperiencePhoto struct {
	ID           string    `json:"id" bson:"id"`
	ExperienceID string    `json:"experience_id" bson:"experience_id"`
	PhotoURL     string    `json:"photo_url" bson:"photo_url"`
	PublicID     string    `json:"-" bson:"public_id"`
	IsCoverPhoto bool      `json:"is_cover_photo" bson:"is_cover_photo"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
	Caption      string    `json:"caption,omitempty" bson:"caption,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

type ExperiencePhotoUpdate struct {
	IsCoverPhoto *bool   `json:"is_cover_photo"`
	DisplayOrder *int    `json:"display_order" binding:"omitempty,min=0"`
	Caption      *string `json:"caption" binding:"omitempty,max=500"`
}

type ExperiencePhotoUploadResponse struct {
	PhotoID      string `json:"photo_id"`
	PhotoURL     string `json:"photo_url"`
	IsCoverPhoto bool   `json:"is_cover_photo"`
	Message      string `json:"message"`
}
