package profile

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

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func daysAgo(d float64) *time.Time {
	t := time.Now().Add(-time.Duration(d * 24 * float64(time.Hour)))
	return &t
}

func newService(exps []models.Experience, bookings []models.Booking, photos ...models.ExperiencePhoto) *DefaultProfileService {
	return &DefaultProfileService{
		Users: memory.NewUsers(
			models.User{ID: "host-1", FullName: "Asha", Role: models.RoleHost},
			models.User{ID: "trav-1", FullName: "Ravi", Role: models.RoleUser},
		),
		Experiences: memory.NewExperiences(exps...),
		EventRuns: memory.NewEventRuns(
			models.EventRun{ID: "run-1", ExperienceID: "exp-1", HostID: "host-1", Status: models.EventRunCompleted},
			models.EventRun{ID: "run-2", ExperienceID: "exp-1", HostID: "host-1", Status: models.EventRunScheduled},
			models.EventRun{ID: "run-9", ExperienceID: "exp-9", HostID: "host-2", Status: models.EventRunScheduled},
		),
		Bookings: memory.NewBookings(bookings...),
		Applications: memory.NewHostApplications(models.HostApplication{
			ID: "app-1", UserID: "host-1", Status: models.ApplicationApproved,
			ApplicationData: models.HostApplicationData{LanguagesSpoken: []string{"Marathi", "English"}},
		}),
		Photos: memory.NewPhotos(photos...),
	}
}

func TestHostStats(t *testing.T) {
	cases := []struct {
		name        string
		exps        []models.Experience
		bookings    []models.Booking
		experiences int
		travelers   int
		years       float64
	}{
		{
			name: "counts approved experiences only",
			exps: []models.Experience{
				{ID: "exp-1", HostID: "host-1", Status: models.ExperienceApproved, ApprovedAt: daysAgo(30)},
				{ID: "exp-2", HostID: "host-1", Status: models.ExperienceSubmitted},
				{ID: "exp-3", HostID: "host-1", Status: models.ExperienceDraft},
				{ID: "exp-9", HostID: "host-2", Status: models.ExperienceApproved, ApprovedAt: daysAgo(900)},
			},
			experiences: 1,
			years:       0.1,
		},
		{
			name: "travelers hosted counts confirmed and completed bookings",
			exps: []models.Experience{{ID: "exp-1", HostID: "host-1", Status: models.ExperienceApproved, ApprovedAt: daysAgo(1)}},
			bookings: []models.Booking{
				{ID: "b1", EventRunID: "run-1", TravelerCount: 3, BookingStatus: models.BookingExperienceCompleted},
				{ID: "b2", EventRunID: "run-2", TravelerCount: 2, BookingStatus: models.BookingConfirmed},
				{ID: "b3", EventRunID: "run-2", TravelerCount: 4, BookingStatus: models.BookingCancelled},
				{ID: "b4", EventRunID: "run-1", TravelerCount: 1, BookingStatus: models.BookingNoShow},
				{ID: "b5", EventRunID: "run-9", TravelerCount: 2, BookingStatus: models.BookingConfirmed},
			},
			experiences: 1,
			travelers:   5,
		},
		{
			name: "years hosting runs from the earliest approval",
			exps: []models.Experience{
				{ID: "exp-1", HostID: "host-1", Status: models.ExperienceApproved, ApprovedAt: daysAgo(400)},
				{ID: "exp-2", HostID: "host-1", Status: models.ExperienceApproved, ApprovedAt: daysAgo(10)},
			},
			experiences: 2,
			years:       1.1,
		},
		{
			name:  "no approvals means no hosting history",
			exps:  []models.Experience{{ID: "exp-1", HostID: "host-1", Status: models.ExperienceSubmitted}},
			years: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(tc.exps, tc.bookings)
			stats, err := svc.GetHostStats("host-1")
			require.NoError(t, err)
			assert.Equal(t, tc.experiences, stats.ExperienceCount)
			assert.Equal(t, 2, stats.EventRunCount)
			assert.Equal(t, tc.travelers, stats.TravelersHosted)
			assert.Equal(t, tc.years, stats.YearsHosting)
			assert.Nil(t, stats.AvgRating)
		})
	}
}

func TestGetHostStatsRejectsNonHosts(t *testing.T) {
	svc := newService(nil, nil)

	_, err := svc.GetHostStats("trav-1")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	_, err = svc.GetHostStats("nobody")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestGetPublicProfile(t *testing.T) {
	svc := newService([]models.Experience{{ID: "exp-1", HostID: "host-1", Status: models.ExperienceApproved, ApprovedAt: daysAgo(5)}}, nil)

	p, err := svc.GetPublicProfile("host-1")
	require.NoError(t, err)
	require.NotNil(t, p.HostStats)
	assert.Equal(t, 1, p.HostStats.ExperienceCount)
	require.NotNil(t, p.HostApplication)
	assert.Equal(t, []string{"Marathi", "English"}, p.HostApplication.LanguagesSpoken)

	p, err = svc.GetPublicProfile("trav-1")
	require.NoError(t, err)
	assert.Nil(t, p.HostStats)
	assert.Nil(t, p.HostApplication)
}

func TestGetHostExperiencesOrderAndCovers(t *testing.T) {
	svc := newService(
		[]models.Experience{
			{ID: "exp-old", HostID: "host-1", Title: "Sassoon Dock at dawn", Status: models.ExperienceApproved, ApprovedAt: daysAgo(60)},
			{ID: "exp-new", HostID: "host-1", Title: "Irani cafe trail", Status: models.ExperienceApproved, ApprovedAt: daysAgo(2)},
			{ID: "exp-mid", HostID: "host-1", Title: "Kala Ghoda murals", Status: models.ExperienceApproved, ApprovedAt: daysAgo(20)},
			{ID: "exp-draft", HostID: "host-1", Title: "Draft", Status: models.ExperienceDraft},
		},
		nil,
		models.ExperiencePhoto{ID: "p1", ExperienceID: "exp-new", PhotoURL: "https://cdn.example.com/new-1.jpg", DisplayOrder: 0},
		models.ExperiencePhoto{ID: "p2", ExperienceID: "exp-new", PhotoURL: "https://cdn.example.com/new-cover.jpg", DisplayOrder: 1, IsCoverPhoto: true},
		models.ExperiencePhoto{ID: "p3", ExperienceID: "exp-mid", PhotoURL: "https://cdn.example.com/mid-2.jpg", DisplayOrder: 2},
		models.ExperiencePhoto{ID: "p4", ExperienceID: "exp-mid", PhotoURL: "https://cdn.example.com/mid-1.jpg", DisplayOrder: 1},
	)

	cards, err := svc.GetHostExperiences("host-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "exp-new", cards[0].ID)
	assert.Equal(t, "exp-mid", cards[1].ID)
	assert.Equal(t, "exp-old", cards[2].ID)

	assert.Equal(t, "https://cdn.example.com/new-cover.jpg", cards[0].CoverPhotoURL)
	assert.Equal(t, "https://cdn.example.com/mid-1.jpg", cards[1].CoverPhotoURL)
	assert.Empty(t, cards[2].CoverPhotoURL)

	page, err := svc.GetHostExperiences("host-1", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "exp-mid", page[0].ID)

	_, err = svc.GetHostExperiences("nobody", 10, 0)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
