package storage

import (
	"context"
	"errors"
	"fmt"

	"mayhouse/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService uploads media to object storage.
type StorageService interface {
	// UploadFile accepts a local path, URL or io.Reader.
	UploadFile(ctx context.Context, file interface{}, destFolder string) (*UploadedFile, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// UploadedFile is what callers persist after an upload.
type UploadedFile struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// StorageServiceImpl implements StorageService on Cloudinary.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary) *StorageServiceImpl {
	return &StorageServiceImpl{cld: cld}
}

// NewFromConfig builds the Cloudinary client from AppConfig.
func NewFromConfig() (*StorageServiceImpl, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, errors.New("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	return NewStorageService(cld), nil
}

// UploadFile uploads a file into destFolder and returns its public id and HTTPS URL.
func (s *StorageServiceImpl) UploadFile(ctx context.Context, file interface{}, destFolder string) (*UploadedFile, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: destFolder})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("storage: upload rejected: %s", result.Error.Message)
		}
		return nil, errors.New("storage: no public ID returned")
	}
	url := result.SecureURL
	if url == "" {
		img, err := s.cld.Image(result.PublicID)
		if err != nil {
			return nil, fmt.Errorf("storage: failed to build asset: %w", err)
		}
		if url, err = img.String(); err != nil {
			return nil, fmt.Errorf("storage: failed to build URL: %w", err)
		}
	}
	return &UploadedFile{PublicID: result.PublicID, URL: url}, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}
