package user

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/services/wallet"
	"mayhouse/utils"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService(seed ...models.User) (*DefaultUserService, *memory.Users) {
	repo := memory.NewUsers(seed...)
	return &DefaultUserService{
		Repo:      repo,
		Nonces:    wallet.NewMemoryNonceStore(),
		Blacklist: utils.NewMemoryBlacklist(),
	}, repo
}

func status(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T", err)
	return appErr.Status
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.Register(models.UserCreate{Email: "Asha@Example.com", Password: "s3cretpass", FullName: "Asha Rao"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "asha@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.User.Username)

	stored, _ := repo.GetByEmail("asha@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)

	_, err = svc.Register(models.UserCreate{Email: "asha@example.com", Password: "another12", FullName: "Dup"})
	assert.Equal(t, http.StatusConflict, status(t, err))

	login, err := svc.Login(models.UserLogin{Email: "asha@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	claims, err := utils.ParseClaims(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.Subject)

	_, err = svc.Login(models.UserLogin{Email: "asha@example.com", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
	_, err = svc.Login(models.UserLogin{Email: "nobody@example.com", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService()
	resp, err := svc.Register(models.UserCreate{Email: "a@b.co", Password: "password1", FullName: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	revoked, err := svc.Blacklist.IsRevoked(context.Background(), utils.HashToken(resp.AccessToken))
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Error(t, svc.Logout(context.Background(), "not-a-token"))
}

func signChallenge(t *testing.T, message string) (string, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestWalletLoginCreatesUser(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	challenge, err := svc.WalletNonce(ctx, address)
	require.NoError(t, err)
	assert.Len(t, challenge.Nonce, 64)
	assert.Contains(t, challenge.Message, challenge.Nonce)

	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge.Message)), key)
	require.NoError(t, err)
	sig[64] += 27

	resp, err := svc.WalletVerify(ctx, models.WalletVerifyRequest{WalletAddress: address, Signature: hexutil.Encode(sig)})
	require.NoError(t, err)
	assert.Equal(t, int64(7*24*3600), resp.ExpiresIn)
	assert.Nil(t, resp.User["email"])

	lower := strings.ToLower(address)
	u, _ := repo.GetByWallet(lower)
	require.NotNil(t, u)
	assert.Equal(t, "User "+lower[:6]+"..."+lower[len(lower)-4:], u.FullName)

	// The nonce is single use.
	_, err = svc.WalletVerify(ctx, models.WalletVerifyRequest{WalletAddress: address, Signature: hexutil.Encode(sig)})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestWalletVerifyRejectsOtherSigner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	challenge, err := svc.WalletNonce(ctx, address)
	require.NoError(t, err)
	_, otherSig := signChallenge(t, challenge.Message)

	_, err = svc.WalletVerify(ctx, models.WalletVerifyRequest{WalletAddress: address, Signature: otherSig})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestWalletVerifyExpiredNonce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	key, _ := crypto.GenerateKey()
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	msg := wallet.ChallengeMessage("abc", time.Now().Add(-time.Hour).Unix())
	require.NoError(t, svc.Nonces.Put(ctx, address, wallet.Challenge{Nonce: "abc", Message: msg, ExpiresAt: time.Now().Add(-time.Minute)}))
	sig, _ := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	sig[64] += 27

	_, err := svc.WalletVerify(ctx, models.WalletVerifyRequest{WalletAddress: address, Signature: hexutil.Encode(sig)})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestUpdateProfileAndUpgrade(t *testing.T) {
	svc, _ := newTestService(
		models.User{ID: "u1", FullName: "One", Username: "One111", Role: models.RoleUser},
		models.User{ID: "u2", FullName: "Two", Username: "Taken222", Role: models.RoleAdmin},
	)

	bio := "Chai walks in Fort"
	u, err := svc.UpdateProfile("u1", models.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, u.Bio)

	taken := "Taken222"
	_, err = svc.UpdateProfile("u1", models.UserUpdate{Username: &taken})
	assert.Equal(t, http.StatusConflict, status(t, err))

	_, err = svc.UpdateProfile("u1", models.UserUpdate{})
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	require.NoError(t, svc.UpgradeToHost("u1"))
	u, _ = svc.GetUserByID("u1")
	assert.Equal(t, models.RoleHost, u.Role)

	require.NoError(t, svc.UpgradeToHost("u2"))
	u, _ = svc.GetUserByID("u2")
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = svc.GetUserByID("missing")
	assert.True(t, utils.IsNotFound(err))
}

func TestGenerateUsernameIsFree(t *testing.T) {
	_, repo := newTestService()
	name := GenerateUsername(repo)
	assert.NotEmpty(t, name)
	existing, err := repo.GetByUsername(name)
	require.NoError(t, err)
	assert.Nil(t, existing)
}

func recordInvalidations(t *testing.T) *[]string {
	var ids []string
	prev := invalidateAuthCache
	invalidateAuthCache = func(_ context.Context, userID string) { ids = append(ids, userID) }
	t.Cleanup(func() { invalidateAuthCache = prev })
	return &ids
}

func TestGoogleFlow(t *testing.T) {
	ctx := context.Background()
	invalidated := recordInvalidations(t)
	svc, repo := newTestService(models.User{ID: "g1", Email: "meera@example.com", FullName: "Meera", Role: models.RoleUser})
	svc.Google = &GoogleOAuth{
		Config: &oauth2.Config{
			ClientID:    "client",
			RedirectURL: "http://localhost:8000/auth/google/callback",
			Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: "https://accounts.example.com/token"},
		},
		States:      NewMemoryStateStore(),
		FrontendURL: "http://localhost:3000",
		FetchProfile: func(_ context.Context, code string) (*GoogleProfile, error) {
			return &GoogleProfile{ID: "google-" + code, Email: "meera@example.com", Name: "Meera"}, nil
		},
	}

	loginURL, err := svc.GoogleLoginURL(ctx)
	require.NoError(t, err)
	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	redirect, err := svc.GoogleCallback(ctx, state, "abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(redirect, "http://localhost:3000/auth/callback#access_token="))

	u, _ := repo.GetByID("g1")
	assert.Equal(t, models.RoleHost, u.Role)
	assert.Equal(t, "google-abc", u.GoogleID)
	assert.Equal(t, []string{"g1"}, *invalidated, "upgraded user's cached role is dropped")

	// State cannot be replayed.
	redirect, err = svc.GoogleCallback(ctx, state, "abc")
	require.NoError(t, err)
	assert.Contains(t, redirect, "error=invalid_state")

	// An existing host signing in again keeps its role and cache entry.
	loginURL, err = svc.GoogleLoginURL(ctx)
	require.NoError(t, err)
	parsed, err = url.Parse(loginURL)
	require.NoError(t, err)
	_, err = svc.GoogleCallback(ctx, parsed.Query().Get("state"), "def")
	require.NoError(t, err)
	u, _ = repo.GetByID("g1")
	assert.Equal(t, models.RoleHost, u.Role)
	assert.Equal(t, "google-def", u.GoogleID)
	assert.Len(t, *invalidated, 1)
}

func TestGoogleNotConfigured(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GoogleLoginURL(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, status(t, err))
}
