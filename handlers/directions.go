package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"mayhouse/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const osrmTimeout = 10 * time.Second

// RouteHandler proxies walking directions from an OSRM server.
type RouteHandler struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewRouteHandler(baseURL string) *RouteHandler {
	return &RouteHandler{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Logger:  handlerLogger("routes"),
	}
}

var waypointsPattern = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?(;-?\d+(\.\d+)?,-?\d+(\.\d+)?)+$`)

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Walking handles GET /routes/walking?waypoints=lon,lat;lon,lat.
func (h *RouteHandler) Walking(c *gin.Context) {
	waypoints := strings.TrimSpace(c.Query("waypoints"))
	if !strings.Contains(waypoints, ";") {
		utils.RespondError(c, utils.ErrBadRequest("At least two waypoints separated by ';' are required"))
		return
	}
	if !waypointsPattern.MatchString(waypoints) {
		utils.RespondError(c, utils.ErrBadRequest("Waypoints must be lon,lat pairs separated by ';'"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), osrmTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/route/v1/foot/%s?overview=full&geometries=geojson", h.BaseURL, waypoints)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Invalid waypoints"))
		return
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			utils.RespondError(c, utils.ErrGatewayTimeout("Routing service timed out"))
			return
		}
		h.Logger.Warn("Walking: OSRM request failed", zap.Error(err))
		utils.RespondError(c, utils.ErrBadGateway("Routing service unavailable"))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			utils.RespondError(c, utils.ErrGatewayTimeout("Routing service timed out"))
			return
		}
		utils.RespondError(c, utils.ErrBadGateway("Routing service unavailable"))
		return
	}
	if resp.StatusCode != http.StatusOK {
		h.Logger.Warn("Walking: OSRM returned an error", zap.Int("status", resp.StatusCode))
		utils.RespondError(c, utils.ErrBadGateway("Routing service returned status %d", resp.StatusCode))
		return
	}

	if code := gjson.GetBytes(body, "code").String(); code != "Ok" {
		c.JSON(http.StatusOK, gin.H{
			"code":    code,
			"routes":  []any{},
			"message": "No route found between waypoints",
		})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
