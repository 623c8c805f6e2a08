package handlers

import (
	"net/http"

	"mayhouse/models"
	"mayhouse/services/booking"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves traveler bookings.
type BookingHandler struct {
	BookingSvc booking.BookingService
	Logger     *zap.Logger
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingSvc: svc, Logger: handlerLogger("booking")}
}

// CalculateCost handles POST /bookings/calculate-cost.
func (h *BookingHandler) CalculateCost(c *gin.Context) {
	var req models.BookingCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	cost, err := h.BookingSvc.CalculateCost(req.EventRunID, req.SeatCount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	userID := currentUserID(c)
	resp, err := h.BookingSvc.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		h.Logger.Info("Create: booking rejected", zap.String("userID", userID), zap.String("eventRunID", req.EventRunID), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Booking confirmed", zap.String("bookingID", resp.ID), zap.String("userID", userID), zap.Int("seats", resp.SeatCount))
	c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /bookings/my.
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.BookingSvc.ListMyBookings(currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	resp, err := h.BookingSvc.GetBooking(currentUserID(c), currentUserRole(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
