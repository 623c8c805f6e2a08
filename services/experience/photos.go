package experience

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPhotoBytes = 5 * 1024 * 1024

var photoExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// ownedExperience returns 404 for a missing experience and 403 for someone else's.
func (s *DefaultExperienceService) ownedExperience(userID, experienceID string) (*models.Experience, error) {
	exp, err := s.GetExperience(experienceID)
	if err != nil {
		return nil, err
	}
	if exp.HostID != userID {
		return nil, utils.ErrForbidden("You can only manage photos of your own experiences")
	}
	return exp, nil
}

func (s *DefaultExperienceService) UploadPhoto(ctx context.Context, userID, experienceID string, upload PhotoUpload) (*models.ExperiencePhotoUploadResponse, error) {
	if _, err := s.ownedExperience(userID, experienceID); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !photoExtensions[ext] {
		return nil, utils.ErrBadRequest("Unsupported file type '%s'. Allowed: .jpg, .jpeg, .png, .webp", ext)
	}
	if upload.Size > maxPhotoBytes {
		return nil, utils.ErrBadRequest("File too large. Maximum size is 5MB")
	}
	if s.Storage == nil {
		return nil, utils.ErrUnavailable("Photo storage is not configured")
	}

	order, err := s.Photos.Count(experienceID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to upload photo")
	}
	uploaded, err := s.Storage.UploadFile(ctx, upload.File, "experiences/"+experienceID)
	if err != nil {
		utils.GetLogger().Error("Photo upload failed", zap.String("experienceID", experienceID), zap.Error(err))
		return nil, utils.ErrBadGateway("Failed to upload photo")
	}

	photo := &models.ExperiencePhoto{
		ID:           uuid.New().String(),
		ExperienceID: experienceID,
		PhotoURL:     uploaded.URL,
		PublicID:     uploaded.PublicID,
		IsCoverPhoto: upload.IsCoverPhoto,
		DisplayOrder: order,
		Caption:      upload.Caption,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.Photos.Create(photo); err != nil {
		return nil, utils.ErrInternal(err, "Failed to save photo")
	}
	if photo.IsCoverPhoto {
		if err := s.Photos.UnsetCovers(experienceID, photo.ID); err != nil {
			return nil, utils.ErrInternal(err, "Failed to update cover photo")
		}
	}
	return &models.ExperiencePhotoUploadResponse{
		PhotoID:      photo.ID,
		PhotoURL:     photo.PhotoURL,
		IsCoverPhoto: photo.IsCoverPhoto,
		Message:      "Photo uploaded successfully",
	}, nil
}

func (s *DefaultExperienceService) ListPhotos(experienceID string) ([]models.ExperiencePhoto, error) {
	photos, err := s.Photos.ListByExperiences([]string{experienceID})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list photos")
	}
	return photos, nil
}

func (s *DefaultExperienceService) ownedPhoto(userID, experienceID, photoID string) (*models.ExperiencePhoto, error) {
	if _, err := s.ownedExperience(userID, experienceID); err != nil {
		return nil, err
	}
	photo, err := s.Photos.GetByID(experienceID, photoID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load photo")
	}
	if photo == nil {
		return nil, utils.ErrNotFound("Photo not found")
	}
	return photo, nil
}

func (s *DefaultExperienceService) UpdatePhoto(userID, experienceID, photoID string, req models.ExperiencePhotoUpdate) (*models.ExperiencePhoto, error) {
	photo, err := s.ownedPhoto(userID, experienceID, photoID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.IsCoverPhoto != nil {
		fields["is_cover_photo"] = *req.IsCoverPhoto
		photo.IsCoverPhoto = *req.IsCoverPhoto
	}
	if req.Caption != nil {
		fields["caption"] = *req.Caption
		photo.Caption = *req.Caption
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
		photo.DisplayOrder = *req.DisplayOrder
	}
	if len(fields) == 0 {
		return photo, nil
	}
	if err := s.Photos.UpdateFields(photoID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to update photo")
	}
	if req.IsCoverPhoto != nil && *req.IsCoverPhoto {
		if err := s.Photos.UnsetCovers(experienceID, photoID); err != nil {
			return nil, utils.ErrInternal(err, "Failed to update cover photo")
		}
	}
	return photo, nil
}

// DeletePhoto removes the record; the stored object is deleted best-effort.
func (s *DefaultExperienceService) DeletePhoto(ctx context.Context, userID, experienceID, photoID string) error {
	photo, err := s.ownedPhoto(userID, experienceID, photoID)
	if err != nil {
		return err
	}
	if err := s.Photos.Delete(photoID); err != nil {
		return utils.ErrInternal(err, "Failed to delete photo")
	}
	if s.Storage != nil && photo.PublicID != "" {
		if err := s.Storage.DeleteFile(ctx, photo.PublicID); err != nil {
			utils.GetLogger().Warn("Failed to delete photo from storage", zap.String("publicID", photo.PublicID), zap.Error(err))
		}
	}
	return nil
}
