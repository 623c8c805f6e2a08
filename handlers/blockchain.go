package handlers

import (
	"net/http"
	"strconv"

	"mayhouse/models"
	"mayhouse/services/blockchain"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BlockchainHandler struct {
	Svc    blockchain.BlockchainService
	Logger *zap.Logger
}

func NewBlockchainHandler(svc blockchain.BlockchainService) *BlockchainHandler {
	return &BlockchainHandler{Svc: svc, Logger: handlerLogger("blockchain")}
}

// CalculateBookingCost handles POST /blockchain/calculate-booking-cost.
func (h *BlockchainHandler) CalculateBookingCost(c *gin.Context) {
	var req models.BookingCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.CalculateBookingCost(c.Request.Context(), req.EventRunID, req.SeatCount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteEvent handles POST /blockchain/complete-event.
func (h *BlockchainHandler) CompleteEvent(c *gin.Context) {
	var req models.CompleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	resp, err := h.Svc.CompleteEvent(c.Request.Context(), currentUserID(c), currentUserRole(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Event completed",
		zap.String("eventRunID", resp.EventRunID),
		zap.Int("attended", resp.AttendedCount),
		zap.Int("noShows", resp.NoShowCount))
	c.JSON(http.StatusOK, resp)
}

// Status handles GET /blockchain/status/:event_run_id.
func (h *BlockchainHandler) Status(c *gin.Context) {
	resp, err := h.Svc.Status(c.Request.Context(), c.Param("event_run_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// INRToWei handles GET /blockchain/conversion/inr-to-wei.
func (h *BlockchainHandler) INRToWei(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount_inr"), 64)
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Query parameter 'amount_inr' must be a number"))
		return
	}
	resp, err := h.Svc.INRToWei(c.Request.Context(), amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WeiToINR handles GET /blockchain/conversion/wei-to-inr.
func (h *BlockchainHandler) WeiToINR(c *gin.Context) {
	amount := c.Query("amount_wei")
	if amount == "" {
		utils.RespondError(c, utils.ErrBadRequest("Query parameter 'amount_wei' is required"))
		return
	}
	resp, err := h.Svc.WeiToINR(c.Request.Context(), amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EthPrice handles GET /blockchain/eth-price.
func (h *BlockchainHandler) EthPrice(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.EthPrice(c.Request.Context()))
}

// HostEvents handles GET /blockchain/host-events/:address.
func (h *BlockchainHandler) HostEvents(c *gin.Context) {
	resp, err := h.Svc.HostEvents(c.Request.Context(), c.Param("address"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UserBookings handles GET /blockchain/user-bookings/:address.
func (h *BlockchainHandler) UserBookings(c *gin.Context) {
	resp, err := h.Svc.UserBookings(c.Request.Context(), c.Param("address"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
