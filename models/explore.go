package models

// ExploreFilter holds the public explore query parameters.
type ExploreFilter struct {
	Domain       string `form:"domain"`
	Neighborhood string `form:"neighborhood"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"offset" binding:"omitempty,min=0"`
}

// ExploreCategory counts approved experiences in a domain that have an upcoming run.
type ExploreCategory struct {
	Domain          string `json:"domain"`
	ExperienceCount int    `json:"experience_count"`
}

type HostSummary struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

// ExperienceDetail is the public page of an approved experience.
type ExperienceDetail struct {
	Experience   Experience        `json:"experience"`
	Photos       []ExperiencePhoto `json:"photos"`
	Host         *HostSummary      `json:"host,omitempty"`
	UpcomingRuns []ExploreEventRun `json:"upcoming_runs"`
}
