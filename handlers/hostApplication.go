package handlers

import (
	"net/http"

	"mayhouse/middleware"
	"mayhouse/models"
	"mayhouse/services/hostapp"
	"mayhouse/services/legal"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HostApplicationHandler serves host onboarding for users and its admin review.
type HostApplicationHandler struct {
	Svc    hostapp.HostApplicationService
	Logger *zap.Logger
}

func NewHostApplicationHandler(svc hostapp.HostApplicationService) *HostApplicationHandler {
	return &HostApplicationHandler{Svc: svc, Logger: handlerLogger("hostApplication")}
}

// Apply handles POST /users/host-application.
func (h *HostApplicationHandler) Apply(c *gin.Context) {
	var req models.HostApplicationData
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	app, err := h.Svc.Apply(currentUserID(c), req, legal.AcceptanceContext{
		Context:   models.ContextHostApplication,
		UserIP:    middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Host application received", zap.String("applicationID", app.ID), zap.String("status", app.Status))
	c.JSON(http.StatusCreated, app)
}

// GetMine handles GET /users/host-application.
func (h *HostApplicationHandler) GetMine(c *gin.Context) {
	app, err := h.Svc.GetMyApplication(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Eligibility handles GET /users/host-application/eligibility.
func (h *HostApplicationHandler) Eligibility(c *gin.Context) {
	resp, err := h.Svc.Eligibility(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminList handles GET /admin/host-applications.
func (h *HostApplicationHandler) AdminList(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50, 1, 100)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, 1<<30)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	apps, err := h.Svc.ListApplications(c.Query("status"), limit, offset)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// AdminGet handles GET /admin/host-applications/:id.
func (h *HostApplicationHandler) AdminGet(c *gin.Context) {
	app, err := h.Svc.GetApplication(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// AdminReview handles POST /admin/host-applications/:id/review.
func (h *HostApplicationHandler) AdminReview(c *gin.Context) {
	var req models.HostApplicationReview
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	app, err := h.Svc.ReviewApplication(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Host application reviewed", zap.String("applicationID", app.ID), zap.String("decision", req.Decision))
	c.JSON(http.StatusOK, app)
}

// AdminStats handles GET /admin/host-applications/stats.
func (h *HostApplicationHandler) AdminStats(c *gin.Context) {
	stats, err := h.Svc.GetStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
