package handlers

import (
	"strconv"

	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the process logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

func handlerLogger(name string) *zap.Logger {
	return utils.GetLogger().With(zap.String("handler", name))
}

// currentUserID returns the user set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(utils.CtxUserID)
}

func currentUserRole(c *gin.Context) string {
	return c.GetString(utils.CtxUserRole)
}

// queryInt parses an optional integer query parameter within [min, max].
func queryInt(c *gin.Context, key string, def, min, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, utils.ErrBadRequest("Query parameter '%s' must be an integer between %d and %d", key, min, max)
	}
	return n, nil
}
