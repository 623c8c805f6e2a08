package profile

import (
	"math"
	"time"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	hostApplicationRepo "mayhouse/database/repository/hostApplication"
	photoRepo "mayhouse/database/repository/photo"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/utils"
)

// ProfileService renders public user and host profiles.
type ProfileService interface {
	GetPublicProfile(userID string) (*models.PublicProfile, error)
	GetHostExperiences(userID string, limit, offset int) ([]models.HostExperienceCard, error)
	GetHostStats(userID string) (*models.HostStats, error)
}

type DefaultProfileService struct {
	Users        userRepo.UserRepository
	Experiences  experienceRepo.ExperienceRepository
	EventRuns    eventRunRepo.EventRunRepository
	Bookings     bookingRepo.BookingRepository
	Applications hostApplicationRepo.HostApplicationRepository
	Photos       photoRepo.PhotoRepository
}

func (s *DefaultProfileService) loadUser(userID string) (*models.User, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load profile")
	}
	if u == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	return u, nil
}

func (s *DefaultProfileService) GetPublicProfile(userID string) (*models.PublicProfile, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	p := &models.PublicProfile{
		ID:              u.ID,
		FullName:        u.FullName,
		Username:        u.Username,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		WalletAddress:   u.WalletAddress,
		Role:            u.Role,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt,
	}
	if u.Role != models.RoleHost {
		return p, nil
	}

	if p.HostStats, err = s.hostStats(u.ID); err != nil {
		return nil, err
	}
	app, err := s.Applications.LatestByUser(u.ID, models.ApplicationApproved)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host application")
	}
	if app != nil {
		d := app.ApplicationData
		p.HostApplication = &models.HostApplicationHighlights{
			LanguagesSpoken:   d.LanguagesSpoken,
			HostingExperience: d.HostingExperience,
			WhyHost:           d.WhyHost,
			SpecialSkills:     d.SpecialSkills,
		}
	}
	return p, nil
}

// GetHostExperiences lists the host's approved experiences, newest approval first.
func (s *DefaultProfileService) GetHostExperiences(userID string, limit, offset int) ([]models.HostExperienceCard, error) {
	if _, err := s.loadUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 12
	}
	exps, err := s.Experiences.List(models.ExperienceFilter{
		HostID: userID,
		Status: models.ExperienceApproved,
		SortBy: "approved_at",
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host experiences")
	}

	ids := make([]string, 0, len(exps))
	for _, e := range exps {
		ids = append(ids, e.ID)
	}
	covers, err := CoverPhotos(s.Photos, ids)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience photos")
	}

	cards := make([]models.HostExperienceCard, 0, len(exps))
	for _, e := range exps {
		cards = append(cards, models.HostExperienceCard{
			ID:            e.ID,
			Title:         e.Title,
			Domain:        e.ExperienceDomain,
			PriceINR:      e.PriceINR,
			Neighborhood:  e.Neighborhood,
			City:          e.City,
			CoverPhotoURL: covers[e.ID],
			CreatedAt:     e.CreatedAt,
		})
	}
	return cards, nil
}

func (s *DefaultProfileService) GetHostStats(userID string) (*models.HostStats, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleHost {
		return nil, utils.ErrNotFound("User is not a host")
	}
	return s.hostStats(userID)
}

func (s *DefaultProfileService) hostStats(hostID string) (*models.HostStats, error) {
	exps, err := s.Experiences.List(models.ExperienceFilter{HostID: hostID, Status: models.ExperienceApproved})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host stats")
	}
	runs, err := s.EventRuns.List(eventRunRepo.Query{HostID: hostID})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host stats")
	}

	stats := &models.HostStats{ExperienceCount: len(exps), EventRunCount: len(runs)}

	if len(runs) > 0 {
		ids := make([]string, 0, len(runs))
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
		bookings, err := s.Bookings.ListByEventRuns(ids, models.SeatHoldingStatuses...)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to load host stats")
		}
		for _, b := range bookings {
			stats.TravelersHosted += b.TravelerCount
		}
	}

	var first *time.Time
	for _, e := range exps {
		if e.ApprovedAt != nil && (first == nil || e.ApprovedAt.Before(*first)) {
			first = e.ApprovedAt
		}
	}
	if first != nil {
		days := time.Since(*first).Hours() / 24
		stats.YearsHosting = utils.RoundTo(math.Max(0, days/365.25), 1)
	}
	return stats, nil
}

// CoverPhotos maps experience id to its cover photo URL, falling back to the first photo.
func CoverPhotos(repo photoRepo.PhotoRepository, experienceIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(experienceIDs))
	if len(experienceIDs) == 0 {
		return out, nil
	}
	photos, err := repo.ListByExperiences(experienceIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		if p.IsCoverPhoto {
			out[p.ExperienceID] = p.PhotoURL
		}
	}
	for _, p := range photos {
		if _, ok := out[p.ExperienceID]; !ok {
			out[p.ExperienceID] = p.PhotoURL
		}
	}
	return out, nil
}
