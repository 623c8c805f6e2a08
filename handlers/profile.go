package handlers

import (
	"net/http"

	"mayhouse/models"
	"mayhouse/services/profile"
	"mayhouse/services/user"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	Users    user.UserService
	Profiles profile.ProfileService
	Logger   *zap.Logger
}

func NewProfileHandler(users user.UserService, profiles profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{Users: users, Profiles: profiles, Logger: handlerLogger("profile")}
}

// GetMyProfile handles GET /users/profile.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	u, err := h.Users.GetUserByID(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateMyProfile handles PUT /users/profile.
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	u, err := h.Users.UpdateProfile(currentUserID(c), req)
	if err != nil {
		h.Logger.Info("UpdateMyProfile: rejected", zap.String("userID", currentUserID(c)), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetPublicProfile handles GET /users/:id/profile.
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	p, err := h.Profiles.GetPublicProfile(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetHostExperiences handles GET /users/:id/experiences.
func (h *ProfileHandler) GetHostExperiences(c *gin.Context) {
	limit, err := queryInt(c, "limit", 12, 1, 50)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, 1<<30)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	cards, err := h.Profiles.GetHostExperiences(c.Param("id"), limit, offset)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetHostStats handles GET /users/:id/stats.
func (h *ProfileHandler) GetHostStats(c *gin.Context) {
	stats, err := h.Profiles.GetHostStats(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
