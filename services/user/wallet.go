package user

import (
	"context"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/services/wallet"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const walletTokenTTL = 7 * 24 * time.Hour

// WalletNonce issues a login challenge for the address.
func (s *DefaultUserService) WalletNonce(ctx context.Context, address string) (*models.WalletNonceResponse, error) {
	nonce, err := wallet.NewNonce()
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to generate nonce")
	}
	now := time.Now()
	c := wallet.Challenge{
		Nonce:     nonce,
		Timestamp: now.Unix(),
		Message:   wallet.ChallengeMessage(nonce, now.Unix()),
		ExpiresAt: now.Add(wallet.NonceTTL),
	}
	if err := s.Nonces.Put(ctx, address, c); err != nil {
		return nil, utils.ErrInternal(err, "Failed to store nonce")
	}
	return &models.WalletNonceResponse{Nonce: c.Nonce, Message: c.Message}, nil
}

// WalletVerify checks the signed challenge and logs the wallet in, creating its account on first use.
func (s *DefaultUserService) WalletVerify(ctx context.Context, req models.WalletVerifyRequest) (*models.WalletAuthResponse, error) {
	address := strings.ToLower(req.WalletAddress)
	invalid := utils.ErrUnauthorized("Invalid signature or expired nonce")

	c, err := s.Nonces.Take(ctx, address)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load nonce")
	}
	if c == nil || time.Now().After(c.ExpiresAt) {
		return nil, invalid
	}
	signer, err := wallet.RecoverPersonalSign(c.Message, req.Signature)
	if err != nil || !wallet.SameAddress(signer.Hex(), address) {
		return nil, invalid
	}

	u, err := s.Repo.GetByWallet(address)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load user")
	}
	if u == nil {
		u = &models.User{
			ID:            uuid.New().String(),
			WalletAddress: address,
			FullName:      "User " + wallet.ShortAddress(address),
			Role:          models.RoleUser,
			AuthProvider:  models.AuthProviderWallet,
		}
		if err := s.Repo.Create(u); err != nil {
			return nil, utils.ErrInternal(err, "Failed to create user")
		}
		utils.GetLogger().Info("Wallet user created", zap.String("userID", u.ID))
	}

	token, err := utils.GenerateToken(u.ID, "", u.Role, address, walletTokenTTL)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to issue access token")
	}

	var email any
	if u.Email != "" {
		email = u.Email
	}
	return &models.WalletAuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(walletTokenTTL.Seconds()),
		User: map[string]any{
			"id":             u.ID,
			"wallet_address": u.WalletAddress,
			"full_name":      u.FullName,
			"email":          email,
			"role":           u.Role,
			"created_at":     u.CreatedAt,
		},
	}, nil
}
