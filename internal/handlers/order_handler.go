package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fineops/internal/api/middleware"
	"fineops/internal/config"
	"fineops/internal/models"
	"fineops/internal/services"
	"fineops/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

// OrderHandler serves the campaign list and the pending order lines of
// one campaign.
type OrderHandler struct {
	store  *config.Store
	orders *services.OrdersService
	log    *logger.Logger
}

func NewOrderHandler(store *config.Store, orders *services.OrdersService) *OrderHandler {
	return &OrderHandler{
		store:  store,
		orders: orders,
		log:    logger.New("OrderHandler"),
	}
}

// ListCampaigns handles GET /campaigns (admin only).
func (h *OrderHandler) ListCampaigns(c echo.Context) error {
	campaigns := h.store.Campaigns()
	out := make([]map[string]interface{}, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, map[string]interface{}{
			"id":   campaign.ID,
			"name": campaign.Name,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetOrders handles GET /orders/:campaign_id. The campaign must exist
// and be in the requesting user's assignment set.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	campaignID, err := strconv.ParseInt(c.Param("campaign_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Campaign not found"})
	}

	campaign, ok := h.store.Campaign(campaignID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Campaign not found"})
	}

	user, _ := middleware.CurrentUser(c)
	if !user.IsAssigned(campaignID) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
	}

	records, err := h.orders.Fetch(c.Request().Context(), campaign)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Orders error: " + upstream.Body})
		}
		h.log.Warn("order fetch failed for campaign %d: %v", campaignID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	if records == nil {
		records = []models.OrderLineRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
