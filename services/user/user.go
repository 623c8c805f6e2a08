package user

import (
	"context"
	"strings"

	"mayhouse/models"
	"mayhouse/utils"
)

func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load user")
	}
	if u == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of req.
func (s *DefaultUserService) UpdateProfile(userID string, req models.UserUpdate) (*models.User, error) {
	fields := map[string]any{}
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.ProfileImageURL != nil {
		fields["profile_image_url"] = *req.ProfileImageURL
	}
	if req.Preferences != nil {
		fields["preferences"] = req.Preferences
	}
	if req.FCMToken != nil {
		fields["fcm_token"] = *req.FCMToken
	}
	if req.Username != nil {
		taken, err := s.Repo.GetByUsername(*req.Username)
		if err != nil {
			return nil, utils.ErrInternal(err, "Failed to update profile")
		}
		if taken != nil && taken.ID != userID {
			return nil, utils.ErrConflict("Username is already taken")
		}
		fields["username"] = *req.Username
	}
	if len(fields) == 0 {
		return nil, utils.ErrBadRequest("No fields to update")
	}

	if err := s.Repo.UpdateFields(userID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to update profile")
	}
	return s.GetUserByID(userID)
}

// invalidateAuthCache is swapped in tests to observe role changes.
var invalidateAuthCache = utils.InvalidateAuthCache

// UpgradeToHost promotes a plain user to host; hosts and admins are left alone.
func (s *DefaultUserService) UpgradeToHost(userID string) error {
	u, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if u.Role != models.RoleUser {
		return nil
	}
	if err := s.Repo.SetRole(userID, models.RoleHost); err != nil {
		return utils.ErrInternal(err, "Failed to upgrade user to host")
	}
	invalidateAuthCache(context.Background(), userID)
	return nil
}
