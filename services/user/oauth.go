package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"mayhouse/config"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 10 * time.Minute
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// StateStore holds one-shot OAuth state values.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume deletes the state and reports whether it existed.
	Consume(ctx context.Context, state string) (bool, error)
}

type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, oauthStatePrefix+state, 1, ttl).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]time.Time{}}
}

func (s *MemoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	delete(s.states, state)
	return ok && time.Now().Before(exp), nil
}

// GoogleProfile is the v2 userinfo payload.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleOAuth runs the authorization-code flow against Google.
type GoogleOAuth struct {
	Config      *oauth2.Config
	States      StateStore
	FrontendURL string
	// FetchProfile exchanges the code and loads the user's profile; replaced in tests.
	FetchProfile func(ctx context.Context, code string) (*GoogleProfile, error)
}

// NewGoogleOAuth returns nil when the client credentials are not configured.
func NewGoogleOAuth(states StateStore) *GoogleOAuth {
	cfg := config.AppConfig
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil
	}
	g := &GoogleOAuth{
		Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		States:      states,
		FrontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}
	g.FetchProfile = g.exchange
	return g
}

func (g *GoogleOAuth) exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	resp, err := g.Config.Client(ctx, tok).Get(googleUserInfo)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	var p GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &p, nil
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GoogleLoginURL starts the flow and returns the consent-screen URL.
func (s *DefaultUserService) GoogleLoginURL(ctx context.Context) (string, error) {
	if s.Google == nil {
		return "", utils.ErrUnavailable("Google login is not configured")
	}
	state, err := newState()
	if err != nil {
		return "", utils.ErrInternal(err, "Failed to start Google login")
	}
	if err := s.Google.States.Save(ctx, state, oauthStateTTL); err != nil {
		return "", utils.ErrInternal(err, "Failed to start Google login")
	}
	return s.Google.Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// GoogleCallback finishes the flow and returns the frontend redirect, which carries
// either the access token or an error.
func (s *DefaultUserService) GoogleCallback(ctx context.Context, state, code string) (string, error) {
	if s.Google == nil {
		return "", utils.ErrUnavailable("Google login is not configured")
	}
	fail := func(reason string) string {
		return s.Google.FrontendURL + "/auth/callback?error=" + url.QueryEscape(reason)
	}

	ok, err := s.Google.States.Consume(ctx, state)
	if err != nil || !ok {
		return fail("invalid_state"), nil
	}
	if code == "" {
		return fail("missing_code"), nil
	}
	profile, err := s.Google.FetchProfile(ctx, code)
	if err != nil {
		utils.GetLogger().Warn("Google OAuth exchange failed", zap.Error(err))
		return fail("oauth_failed"), nil
	}
	if profile.Email == "" {
		return fail("email_missing"), nil
	}

	u, err := s.upsertGoogleUser(profile)
	if err != nil {
		utils.GetLogger().Error("Google OAuth user upsert failed", zap.Error(err))
		return fail("account_error"), nil
	}
	resp, err := issueToken(u)
	if err != nil {
		return fail("token_error"), nil
	}
	return fmt.Sprintf("%s/auth/callback#access_token=%s&token_type=bearer", s.Google.FrontendURL, url.QueryEscape(resp.AccessToken)), nil
}

func (s *DefaultUserService) upsertGoogleUser(p *GoogleProfile) (*models.User, error) {
	u, err := s.Repo.GetByEmail(p.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &models.User{
			ID:              uuid.New().String(),
			Email:           strings.ToLower(p.Email),
			FullName:        p.Name,
			Username:        GenerateUsername(s.Repo),
			ProfileImageURL: p.Picture,
			Role:            models.RoleHost,
			GoogleID:        p.ID,
			AuthProvider:    models.AuthProviderGoogle,
		}
		return u, s.Repo.Create(u)
	}

	if err := s.Repo.UpdateFields(u.ID, map[string]any{"google_id": p.ID, "auth_provider": models.AuthProviderGoogle}); err != nil {
		return nil, err
	}
	if u.Role == models.RoleUser {
		if err := s.UpgradeToHost(u.ID); err != nil {
			return nil, err
		}
		u.Role = models.RoleHost
	}
	u.GoogleID = p.ID
	u.AuthProvider = models.AuthProviderGoogle
	return u, nil
}
