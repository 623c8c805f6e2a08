package explore

import (
	"sort"
	"time"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	photoRepo "mayhouse/database/repository/photo"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/services/profile"
	"mayhouse/utils"
)

const (
	defaultLimit         = 50
	defaultFeaturedLimit = 6
	maxFeaturedLimit     = 10
)

// ExploreService is the public, unauthenticated catalogue.
type ExploreService interface {
	ListUpcoming(filter models.ExploreFilter) ([]models.ExploreEventRun, error)
	Categories() ([]models.ExploreCategory, error)
	Featured(limit int) ([]models.ExploreEventRun, error)
	ExperienceDetail(experienceID string) (*models.ExperienceDetail, error)
}

type DefaultExploreService struct {
	Experiences experienceRepo.ExperienceRepository
	Runs        eventRunRepo.EventRunRepository
	Bookings    bookingRepo.BookingRepository
	Users       userRepo.UserRepository
	Photos      photoRepo.PhotoRepository
	// Now is overridable in tests.
	Now func() time.Time
}

func (s *DefaultExploreService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultExploreService) approved(filter models.ExploreFilter) (map[string]*models.Experience, []string, error) {
	exps, err := s.Experiences.List(models.ExperienceFilter{
		Status:       models.ExperienceApproved,
		Domain:       filter.Domain,
		Neighborhood: filter.Neighborhood,
	})
	if err != nil {
		return nil, nil, utils.ErrInternal(err, "Failed to load experiences")
	}
	byID := make(map[string]*models.Experience, len(exps))
	ids := make([]string, 0, len(exps))
	for i := range exps {
		byID[exps[i].ID] = &exps[i]
		ids = append(ids, exps[i].ID)
	}
	return byID, ids, nil
}

// upcoming returns not-cancelled runs starting from now, soonest first.
func (s *DefaultExploreService) upcoming(experienceIDs []string) ([]models.EventRun, error) {
	if len(experienceIDs) == 0 {
		return []models.EventRun{}, nil
	}
	now := s.now()
	runs, err := s.Runs.List(eventRunRepo.Query{
		ExperienceIDs:   experienceIDs,
		ExcludeStatuses: []string{models.EventRunCancelled, models.EventRunCompleted},
		StartFrom:       &now,
		Ascending:       true,
	})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list event runs")
	}
	return runs, nil
}

// cards joins runs with experience, cover photo, host and seat counts.
func (s *DefaultExploreService) cards(runs []models.EventRun, exps map[string]*models.Experience) ([]models.ExploreEventRun, error) {
	out := make([]models.ExploreEventRun, 0, len(runs))
	if len(runs) == 0 {
		return out, nil
	}
	runIDs := make([]string, 0, len(runs))
	expIDs := make([]string, 0, len(exps))
	hostIDs := make([]string, 0, len(runs))
	seen := map[string]bool{}
	for _, r := range runs {
		runIDs = append(runIDs, r.ID)
		hostIDs = append(hostIDs, r.HostID)
		if !seen[r.ExperienceID] {
			seen[r.ExperienceID] = true
			expIDs = append(expIDs, r.ExperienceID)
		}
	}

	bookings, err := s.Bookings.ListByEventRuns(runIDs, models.SeatHoldingStatuses...)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load bookings")
	}
	booked := make(map[string]int, len(runIDs))
	for _, b := range bookings {
		booked[b.EventRunID] += b.TravelerCount
	}
	covers, err := profile.CoverPhotos(s.Photos, expIDs)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience photos")
	}
	hosts, err := s.Users.GetByIDs(hostIDs)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load hosts")
	}

	for i := range runs {
		r := &runs[i]
		exp := exps[r.ExperienceID]
		if exp == nil {
			continue
		}
		card := models.ExploreEventRun{
			ID:                      r.ID,
			StartDatetime:           r.StartDatetime,
			EndDatetime:             r.EndDatetime,
			MaxCapacity:             r.MaxCapacity,
			AvailableSpots:          max(r.MaxCapacity-booked[r.ID], 0),
			PriceINR:                r.EffectivePrice(exp),
			Status:                  r.Status,
			ExperienceID:            exp.ID,
			ExperienceTitle:         exp.Title,
			ExperiencePromise:       exp.Promise,
			ExperienceDomain:        exp.ExperienceDomain,
			ExperienceTheme:         exp.ExperienceTheme,
			Neighborhood:            exp.Neighborhood,
			MeetingLandmark:         exp.MeetingLandmark,
			DurationMinutes:         exp.DurationMinutes,
			CoverPhotoURL:           covers[exp.ID],
			HostID:                  r.HostID,
			HostMeetingInstructions: r.HostMeetingInstructions,
			GroupPairingEnabled:     r.GroupPairingEnabled,
		}
		if h := hosts[r.HostID]; h != nil {
			card.HostName = h.FullName
		}
		out = append(out, card)
	}
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *DefaultExploreService) ListUpcoming(filter models.ExploreFilter) ([]models.ExploreEventRun, error) {
	exps, ids, err := s.approved(filter)
	if err != nil {
		return nil, err
	}
	runs, err := s.upcoming(ids)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	runs = paginate(runs, limit, max(filter.Offset, 0))
	return s.cards(runs, exps)
}

func (s *DefaultExploreService) Categories() ([]models.ExploreCategory, error) {
	exps, ids, err := s.approved(models.ExploreFilter{})
	if err != nil {
		return nil, err
	}
	runs, err := s.upcoming(ids)
	if err != nil {
		return nil, err
	}
	withRuns := map[string]bool{}
	for _, r := range runs {
		withRuns[r.ExperienceID] = true
	}
	counts := map[string]int{}
	for id := range withRuns {
		if exp := exps[id]; exp != nil {
			counts[exp.ExperienceDomain]++
		}
	}

	out := make([]models.ExploreCategory, 0, len(counts))
	for domain, n := range counts {
		out = append(out, models.ExploreCategory{Domain: domain, ExperienceCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExperienceCount != out[j].ExperienceCount {
			return out[i].ExperienceCount > out[j].ExperienceCount
		}
		return out[i].Domain < out[j].Domain
	})
	return out, nil
}

// Featured returns the soonest runs that still have seats.
func (s *DefaultExploreService) Featured(limit int) ([]models.ExploreEventRun, error) {
	if limit <= 0 || limit > maxFeaturedLimit {
		limit = defaultFeaturedLimit
	}
	exps, ids, err := s.approved(models.ExploreFilter{})
	if err != nil {
		return nil, err
	}
	runs, err := s.upcoming(ids)
	if err != nil {
		return nil, err
	}
	all, err := s.cards(runs, exps)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExploreEventRun, 0, limit)
	for _, c := range all {
		if c.Status == models.EventRunSoldOut || c.AvailableSpots == 0 {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *DefaultExploreService) ExperienceDetail(experienceID string) (*models.ExperienceDetail, error) {
	exp, err := s.Experiences.GetByID(experienceID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience")
	}
	if exp == nil || exp.Status != models.ExperienceApproved {
		return nil, utils.ErrNotFound("Experience not found")
	}

	photos, err := s.Photos.ListByExperiences([]string{exp.ID})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience photos")
	}
	runs, err := s.upcoming([]string{exp.ID})
	if err != nil {
		return nil, err
	}
	cards, err := s.cards(runs, map[string]*models.Experience{exp.ID: exp})
	if err != nil {
		return nil, err
	}

	detail := &models.ExperienceDetail{Experience: *exp, Photos: photos, UpcomingRuns: cards}
	if detail.Photos == nil {
		detail.Photos = []models.ExperiencePhoto{}
	}
	host, err := s.Users.GetByID(exp.HostID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host")
	}
	if host != nil {
		detail.Host = &models.HostSummary{
			ID:              host.ID,
			FullName:        host.FullName,
			ProfileImageURL: host.ProfileImageURL,
			Bio:             host.Bio,
		}
	}
	return detail, nil
}
