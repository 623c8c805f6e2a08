package experience

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/services/storage"
	"mayhouse/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploads []string
	deleted []string
	failDel bool
}

func (f *fakeStorage) UploadFile(_ context.Context, _ interface{}, folder string) (*storage.UploadedFile, error) {
	id := folder + "/p" + string(rune('0'+len(f.uploads)))
	f.uploads = append(f.uploads, id)
	return &storage.UploadedFile{PublicID: id, URL: "https://cdn.example.com/" + id + ".jpg"}, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, publicID string) error {
	if f.failDel {
		return errors.New("boom")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

type upgrader struct{ upgraded []string }

func (u *upgrader) UpgradeToHost(id string) error {
	u.upgraded = append(u.upgraded, id)
	return nil
}

func newService() (*DefaultExperienceService, *fakeStorage, *upgrader) {
	st := &fakeStorage{}
	up := &upgrader{}
	return &DefaultExperienceService{
		Repo:     memory.NewExperiences(),
		Photos:   memory.NewPhotos(),
		Storage:  st,
		Upgrader: up,
	}, st, up
}

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func validCreate() models.ExperienceCreate {
	return models.ExperienceCreate{
		Title:               "Bandra street food crawl",
		Promise:             "Taste six stalls the locals swear by",
		Description:         strings.Repeat("A slow walk through Bandra's lanes. ", 4),
		UniqueElement:       "Run by a third-generation vada pav family who know every vendor",
		ExperienceDomain:    "food",
		DurationMinutes:     120,
		TravelerMaxCapacity: 4,
		PriceINR:            1499.999,
	}
}

func TestCreateExperienceDefaults(t *testing.T) {
	svc, _, up := newService()

	exp, err := svc.CreateExperience("host-1", validCreate())
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceDraft, exp.Status)
	assert.Equal(t, "India", exp.Country)
	assert.Equal(t, "Mumbai", exp.City)
	assert.Equal(t, 1, exp.TravelerMinCapacity)
	assert.Equal(t, 1500.0, exp.PriceINR)
	assert.Equal(t, []string{"host-1"}, up.upgraded)

	bad := validCreate()
	bad.TravelerMinCapacity, bad.TravelerMaxCapacity = 3, 2
	_, err = svc.CreateExperience("host-1", bad)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestExperienceLifecycle(t *testing.T) {
	svc, _, _ := newService()
	exp, err := svc.CreateExperience("host-1", validCreate())
	require.NoError(t, err)

	_, err = svc.GetHostExperience("host-2", exp.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	submitted, err := svc.SubmitExperience("host-1", exp.ID, models.ExperienceSubmission{SubmissionNotes: "Ready"})
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceSubmitted, submitted.Status)
	assert.Equal(t, "Host submission notes: Ready", submitted.AdminFeedback)

	title := "A different title for the crawl"
	_, err = svc.UpdateExperience("host-1", exp.ID, models.ExperienceUpdate{Title: &title})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	pending, err := svc.ListPendingExperiences()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	rejected, err := svc.ReviewExperience("admin-1", exp.ID, models.ExperienceReview{Decision: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, "Admin decision: rejected", rejected.AdminFeedback)

	updated, err := svc.UpdateExperience("host-1", exp.ID, models.ExperienceUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceDraft, updated.Status)
	assert.Equal(t, title, updated.Title)

	_, err = svc.SubmitExperience("host-1", exp.ID, models.ExperienceSubmission{})
	require.NoError(t, err)
	approved, err := svc.ReviewExperience("admin-1", exp.ID, models.ExperienceReview{
		Decision:           "approved",
		StructuredFeedback: &models.ReviewFeedback{DecisionReason: "Strong local angle"},
	})
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "admin-1", approved.ApprovedBy)
	assert.Equal(t, "Strong local angle", approved.StructuredFeedback.DecisionReason)

	_, err = svc.ReviewExperience("admin-1", exp.ID, models.ExperienceReview{Decision: "approved"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, http.StatusBadRequest, statusOf(svc.DeleteExperience("host-1", exp.ID)))

	stats, err := svc.GetExperienceStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalExperiences)
	assert.Equal(t, 1, stats.ApprovedCount)
	assert.Equal(t, 1, stats.HostCount)
	require.NotNil(t, stats.AvgApprovalTimeDays)
}

func TestDeleteArchivesDraft(t *testing.T) {
	svc, _, _ := newService()
	exp, err := svc.CreateExperience("host-1", validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExperience("host-1", exp.ID))
	got, err := svc.GetExperience(exp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExperienceArchived, got.Status)

	mine, err := svc.ListHostExperiences("host-1", "")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestPhotoUploadAndCoverExclusivity(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newService()
	exp, err := svc.CreateExperience("host-1", validCreate())
	require.NoError(t, err)

	_, err = svc.UploadPhoto(ctx, "host-2", exp.ID, PhotoUpload{Filename: "a.jpg", Size: 10})
	assert.Equal(t, http.StatusForbidden, statusOf(err))
	_, err = svc.UploadPhoto(ctx, "host-1", "missing", PhotoUpload{Filename: "a.jpg", Size: 10})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	_, err = svc.UploadPhoto(ctx, "host-1", exp.ID, PhotoUpload{Filename: "a.gif", Size: 10})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	_, err = svc.UploadPhoto(ctx, "host-1", exp.ID, PhotoUpload{Filename: "a.png", Size: maxPhotoBytes + 1})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	first, err := svc.UploadPhoto(ctx, "host-1", exp.ID, PhotoUpload{Filename: "a.jpg", Size: 10, IsCoverPhoto: true})
	require.NoError(t, err)
	second, err := svc.UploadPhoto(ctx, "host-1", exp.ID, PhotoUpload{Filename: "b.webp", Size: 10, IsCoverPhoto: true})
	require.NoError(t, err)
	assert.Len(t, st.uploads, 2)

	photos, err := svc.ListPhotos(exp.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, first.PhotoID, photos[0].ID)
	assert.Equal(t, 1, photos[1].DisplayOrder)
	assert.False(t, photos[0].IsCoverPhoto)
	assert.True(t, photos[1].IsCoverPhoto)

	cover := true
	_, err = svc.UpdatePhoto("host-1", exp.ID, first.PhotoID, models.ExperiencePhotoUpdate{IsCoverPhoto: &cover})
	require.NoError(t, err)
	photos, _ = svc.ListPhotos(exp.ID)
	assert.True(t, photos[0].IsCoverPhoto)
	assert.False(t, photos[1].IsCoverPhoto)

	st.failDel = true
	require.NoError(t, svc.DeletePhoto(ctx, "host-1", exp.ID, second.PhotoID))
	photos, _ = svc.ListPhotos(exp.ID)
	assert.Len(t, photos, 1)

	assert.Equal(t, http.StatusNotFound, statusOf(svc.DeletePhoto(ctx, "host-1", exp.ID, second.PhotoID)))
}
