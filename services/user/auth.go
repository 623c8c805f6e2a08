package user

import (
	"context"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func issueToken(u *models.User) (*models.AuthResponse, error) {
	ttl := utils.DefaultTokenTTL()
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, u.WalletAddress, ttl)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to issue access token")
	}
	return &models.AuthResponse{
		User:        u,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

// Register creates an email/password account and logs it in.
func (s *DefaultUserService) Register(req models.UserCreate) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, utils.ErrInternal(err, "Registration failed, please try again")
	}
	if existing != nil {
		return nil, utils.ErrConflict("A user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.ErrInternal(err, "Registration failed, please try again")
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(req.FullName),
		Username:     GenerateUsername(s.Repo),
		Phone:        req.Phone,
		Role:         models.RoleUser,
		AuthProvider: models.AuthProviderPassword,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, utils.ErrInternal(err, "Registration failed, please try again")
	}
	utils.GetLogger().Info("User registered", zap.String("userID", u.ID))
	return issueToken(u)
}

// Login checks an email/password pair.
func (s *DefaultUserService) Login(req models.UserLogin) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, utils.ErrInternal(err, "Authentication failed, please try again")
	}
	if u == nil || u.PasswordHash == "" {
		return nil, utils.ErrUnauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.ErrUnauthorized("Invalid email or password")
	}
	return issueToken(u)
}

// Logout revokes the token until it would have expired and drops the cached user.
func (s *DefaultUserService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseClaims(token)
	if err != nil {
		return utils.ErrUnauthorized("Invalid token")
	}
	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(utils.DefaultTokenTTL())
	}
	if err := s.Blacklist.Revoke(ctx, utils.HashToken(token), expiresAt); err != nil {
		return utils.ErrInternal(err, "Failed to log out")
	}
	invalidateAuthCache(ctx, claims.Subject)
	return nil
}
