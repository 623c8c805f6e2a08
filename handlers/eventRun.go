package handlers

import (
	"net/http"

	"mayhouse/models"
	"mayhouse/services/eventrun"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventRunHandler serves the host, public and admin views of event runs.
type EventRunHandler struct {
	Svc    eventrun.EventRunService
	Logger *zap.Logger
}

func NewEventRunHandler(svc eventrun.EventRunService) *EventRunHandler {
	return &EventRunHandler{Svc: svc, Logger: handlerLogger("eventRun")}
}

func bindRunFilter(c *gin.Context) (models.EventRunFilter, bool) {
	var filter models.EventRunFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return filter, false
	}
	return filter, true
}

// HostCreate handles POST /hosts/event-runs.
func (h *EventRunHandler) HostCreate(c *gin.Context) {
	var req models.EventRunCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	run, err := h.Svc.CreateEventRun(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Event run scheduled", zap.String("eventRunID", run.ID), zap.String("experienceID", run.ExperienceID))
	c.JSON(http.StatusCreated, run)
}

// HostList handles GET /hosts/event-runs.
func (h *EventRunHandler) HostList(c *gin.Context) {
	filter, ok := bindRunFilter(c)
	if !ok {
		return
	}
	runs, err := h.Svc.ListHostEventRuns(currentUserID(c), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// HostGet handles GET /hosts/event-runs/:id.
func (h *EventRunHandler) HostGet(c *gin.Context) {
	run, err := h.Svc.GetHostEventRun(currentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// HostUpdate handles PUT /hosts/event-runs/:id.
func (h *EventRunHandler) HostUpdate(c *gin.Context) {
	var req models.EventRunUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	run, err := h.Svc.UpdateEventRun(currentUserID(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// HostDelete handles DELETE /hosts/event-runs/:id.
func (h *EventRunHandler) HostDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.DeleteEventRun(currentUserID(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event run deleted successfully", "id": id})
}

// PublicList handles GET /event-runs.
func (h *EventRunHandler) PublicList(c *gin.Context) {
	filter, ok := bindRunFilter(c)
	if !ok {
		return
	}
	runs, err := h.Svc.ListPublicEventRuns(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// PublicGet handles GET /event-runs/:id.
func (h *EventRunHandler) PublicGet(c *gin.Context) {
	run, err := h.Svc.GetPublicEventRun(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// AdminList handles GET /admin/event-runs.
func (h *EventRunHandler) AdminList(c *gin.Context) {
	filter, ok := bindRunFilter(c)
	if !ok {
		return
	}
	runs, err := h.Svc.ListAllEventRuns(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// AdminStats handles GET /admin/event-runs/stats.
func (h *EventRunHandler) AdminStats(c *gin.Context) {
	stats, err := h.Svc.GetEventRunStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminGet handles GET /admin/event-runs/:id.
func (h *EventRunHandler) AdminGet(c *gin.Context) {
	run, err := h.Svc.GetEventRunDetails(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// AdminBookings handles GET /admin/event-runs/:id/bookings.
func (h *EventRunHandler) AdminBookings(c *gin.Context) {
	bookings, err := h.Svc.ListEventRunBookings(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AdminSetStatus handles PUT /admin/event-runs/:id/status.
func (h *EventRunHandler) AdminSetStatus(c *gin.Context) {
	var req models.EventRunStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	run, err := h.Svc.SetEventRunStatus(c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Event run status overridden", zap.String("eventRunID", run.ID), zap.String("status", req.Status))
	c.JSON(http.StatusOK, run)
}
