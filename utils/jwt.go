package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"mayhouse/config"

	"github.com/golang-jwt/jwt"
)

const devSecret = "mayhouse-dev-secret"

func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte(devSecret)
}

// TokenClaims is the subset of JWT claims the API relies on.
type TokenClaims struct {
	Subject       string
	Email         string
	Role          string
	WalletAddress string
	ExpiresAt     time.Time
}

// GenerateToken creates a signed JWT for the subject. Empty optional claims are omitted.
func GenerateToken(subject, email, role, walletAddress string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	if walletAddress != "" {
		claims["wallet_address"] = walletAddress
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// DefaultTokenTTL is the configured access token lifetime.
func DefaultTokenTTL() time.Duration {
	if config.AppConfig.JWTExpiryMinutes > 0 {
		return time.Duration(config.AppConfig.JWTExpiryMinutes) * time.Minute
	}
	return 7 * 24 * time.Hour
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseClaims validates the token and extracts its claims.
func ParseClaims(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	out := &TokenClaims{Subject: sub}
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	out.WalletAddress, _ = claims["wallet_address"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

// ExtractIDFromToken extracts the subject from a valid JWT token string.
func ExtractIDFromToken(tokenString string) (string, error) {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
