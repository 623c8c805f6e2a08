package middleware

import (
	"context"
	"net/http"
	"strings"

	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": 0})
}

// resolveRole checks the token and returns the subject and its current role.
// The role comes from the auth cache when present, else from the repository.
func resolveRole(ctx context.Context, repo userRepo.UserRepository, token string) (string, string, bool) {
	if token == "" {
		return "", "", false
	}
	if revoked, err := utils.GetBlacklist().IsRevoked(ctx, utils.HashToken(token)); err != nil {
		utils.GetLogger().Warn("Blacklist lookup failed", zap.Error(err))
	} else if revoked {
		return "", "", false
	}
	claims, err := utils.ParseClaims(token)
	if err != nil {
		return "", "", false
	}
	userID := claims.Subject

	authCache := utils.GetAuthCacheClient()
	if authCache != nil {
		role, err := authCache.Get(ctx, utils.AuthCachePrefix+userID).Result()
		if err == nil && role != "" {
			return userID, role, true
		}
		if err != nil && err != redis.Nil {
			utils.GetLogger().Warn("Auth cache lookup failed, falling back to DB", zap.Error(err))
		}
	}

	u, err := repo.GetByID(userID)
	if err != nil || u == nil {
		return "", "", false
	}
	if authCache != nil {
		_ = authCache.Set(ctx, utils.AuthCachePrefix+userID, u.Role, utils.AuthCacheTTL).Err()
	}
	return u.ID, u.Role, true
}

// JWTAuthUserMiddleware requires a valid, unrevoked bearer token for an existing user.
func JWTAuthUserMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Insufficient authorization")
			return
		}
		userID, role, ok := resolveRole(c.Request.Context(), repo, token)
		if !ok {
			unauthorized(c, "Could not validate credentials")
			return
		}
		c.Set(utils.CtxUserID, userID)
		c.Set(utils.CtxUserRole, role)
		c.Next()
	}
}

// RequireRole runs after JWTAuthUserMiddleware. Admins pass every check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(utils.CtxUserRole)
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
			"code":  utils.CodeForbidden,
		})
	}
}
