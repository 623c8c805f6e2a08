package user

import (
	"context"

	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/services/wallet"
	"mayhouse/utils"
)

// UserService covers account creation, every login flow and self-service profile edits.
type UserService interface {
	// Email/password
	Register(req models.UserCreate) (*models.AuthResponse, error)
	Login(req models.UserLogin) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// Wallet
	WalletNonce(ctx context.Context, address string) (*models.WalletNonceResponse, error)
	WalletVerify(ctx context.Context, req models.WalletVerifyRequest) (*models.WalletAuthResponse, error)

	// Google
	GoogleLoginURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, state, code string) (string, error)

	// Accounts
	GetUserByID(userID string) (*models.User, error)
	UpdateProfile(userID string, req models.UserUpdate) (*models.User, error)
	UpgradeToHost(userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	Nonces    wallet.NonceStore
	Blacklist utils.TokenBlacklist
	Google    *GoogleOAuth
}
