package explore

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func run(id, expID string, in time.Duration, capacity int, status string) models.EventRun {
	return models.EventRun{
		ID: id, ExperienceID: expID, HostID: "host-1",
		StartDatetime: now.Add(in), EndDatetime: now.Add(in + 2*time.Hour),
		MaxCapacity: capacity, Status: status,
		HostMeetingInstructions: "Blue gate",
	}
}

func newService() *DefaultExploreService {
	special := 1200.0
	r2 := run("run-2", "exp-food", 24*time.Hour, 4, models.EventRunScheduled)
	r2.SpecialPricingINR = &special
	return &DefaultExploreService{
		Experiences: memory.NewExperiences(
			models.Experience{ID: "exp-food", HostID: "host-1", Title: "Bandra bites", Promise: "Six stalls", ExperienceDomain: "food", Neighborhood: "Bandra West", MeetingLandmark: "Bandra Station", DurationMinutes: 150, PriceINR: 1500, Status: models.ExperienceApproved},
			models.Experience{ID: "exp-walk", HostID: "host-1", Title: "Fort walk", ExperienceDomain: "history", Neighborhood: "Fort", PriceINR: 900, Status: models.ExperienceApproved},
			models.Experience{ID: "exp-draft", HostID: "host-1", Title: "Draft", ExperienceDomain: "food", Status: models.ExperienceDraft},
			models.Experience{ID: "exp-idle", HostID: "host-1", Title: "Nothing scheduled", ExperienceDomain: "art", Status: models.ExperienceApproved},
		),
		Runs: memory.NewEventRuns(
			run("run-1", "exp-food", 48*time.Hour, 2, models.EventRunScheduled),
			r2,
			run("run-3", "exp-walk", 72*time.Hour, 4, models.EventRunScheduled),
			run("run-past", "exp-food", -24*time.Hour, 4, models.EventRunScheduled),
			run("run-cancel", "exp-walk", 12*time.Hour, 4, models.EventRunCancelled),
			run("run-draft", "exp-draft", 12*time.Hour, 4, models.EventRunScheduled),
		),
		Bookings: memory.NewBookings(
			models.Booking{ID: "b-1", EventRunID: "run-1", TravelerID: "t-1", TravelerCount: 2, BookingStatus: models.BookingConfirmed},
			models.Booking{ID: "b-2", EventRunID: "run-2", TravelerID: "t-2", TravelerCount: 1, BookingStatus: models.BookingCancelled},
		),
		Users: memory.NewUsers(models.User{ID: "host-1", FullName: "Asha Rao", Bio: "Born in Bandra", Role: models.RoleHost}),
		Photos: memory.NewPhotos(
			models.ExperiencePhoto{ID: "p-1", ExperienceID: "exp-food", PhotoURL: "https://cdn.example.com/first.jpg", DisplayOrder: 0},
			models.ExperiencePhoto{ID: "p-2", ExperienceID: "exp-food", PhotoURL: "https://cdn.example.com/cover.jpg", IsCoverPhoto: true, DisplayOrder: 1},
			models.ExperiencePhoto{ID: "p-3", ExperienceID: "exp-walk", PhotoURL: "https://cdn.example.com/fort.jpg"},
		),
		Now: func() time.Time { return now },
	}
}

func ids(cards []models.ExploreEventRun) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestListUpcoming(t *testing.T) {
	svc := newService()

	cards, err := svc.ListUpcoming(models.ExploreFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-1", "run-3"}, ids(cards))

	first := cards[0]
	assert.Equal(t, 1200.0, first.PriceINR)
	assert.Equal(t, 4, first.AvailableSpots)
	assert.Equal(t, "Six stalls", first.ExperiencePromise)
	assert.Equal(t, "Bandra Station", first.MeetingLandmark)
	assert.Equal(t, 150, first.DurationMinutes)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", first.CoverPhotoURL)
	assert.Equal(t, "Asha Rao", first.HostName)
	assert.Equal(t, "Blue gate", first.HostMeetingInstructions)
	assert.Equal(t, 0, cards[1].AvailableSpots)

	cards, err = svc.ListUpcoming(models.ExploreFilter{Domain: "history"})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-3"}, ids(cards))

	cards, err = svc.ListUpcoming(models.ExploreFilter{Neighborhood: "bandra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-1"}, ids(cards))

	cards, err = svc.ListUpcoming(models.ExploreFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids(cards))
}

func TestCategories(t *testing.T) {
	cats, err := newService().Categories()
	require.NoError(t, err)
	assert.Equal(t, []models.ExploreCategory{
		{Domain: "food", ExperienceCount: 1},
		{Domain: "history", ExperienceCount: 1},
	}, cats)
}

func TestFeaturedSkipsFullRuns(t *testing.T) {
	svc := newService()

	cards, err := svc.Featured(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-3"}, ids(cards))

	cards, err = svc.Featured(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2"}, ids(cards))
}

func TestExperienceDetail(t *testing.T) {
	svc := newService()

	detail, err := svc.ExperienceDetail("exp-food")
	require.NoError(t, err)
	assert.Equal(t, "Bandra bites", detail.Experience.Title)
	assert.Len(t, detail.Photos, 2)
	require.NotNil(t, detail.Host)
	assert.Equal(t, "Born in Bandra", detail.Host.Bio)
	assert.Equal(t, []string{"run-2", "run-1"}, ids(detail.UpcomingRuns))

	_, err = svc.ExperienceDetail("exp-draft")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	_, err = svc.ExperienceDetail("nope")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
