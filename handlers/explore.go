package handlers

import (
	"net/http"

	"mayhouse/models"
	"mayhouse/services/explore"
	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExploreHandler struct {
	Svc    explore.ExploreService
	Logger *zap.Logger
}

func NewExploreHandler(svc explore.ExploreService) *ExploreHandler {
	return &ExploreHandler{Svc: svc, Logger: handlerLogger("explore")}
}

// List handles GET /explore.
func (h *ExploreHandler) List(c *gin.Context) {
	var filter models.ExploreFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, utils.BindError(err))
		return
	}
	runs, err := h.Svc.ListUpcoming(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Categories handles GET /explore/categories.
func (h *ExploreHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.Categories()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// Featured handles GET /explore/featured.
func (h *ExploreHandler) Featured(c *gin.Context) {
	limit, err := queryInt(c, "limit", 6, 1, 10)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	runs, err := h.Svc.Featured(limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Detail handles GET /explore/:experience_id.
func (h *ExploreHandler) Detail(c *gin.Context) {
	detail, err := h.Svc.ExperienceDetail(c.Param("experience_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
