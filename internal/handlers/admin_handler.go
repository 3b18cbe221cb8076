package handlers

import (
	"errors"
	"net/http"

	"fineops/internal/config"
	"fineops/internal/events"
	"fineops/internal/models"
	"fineops/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler covers the admin-only mutation and reporting endpoints.
type AdminHandler struct {
	store *config.Store
	log   *logger.Logger
}

func NewAdminHandler(store *config.Store) *AdminHandler {
	return &AdminHandler{store: store, log: logger.New("AdminHandler")}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,user_role"`
}

type AssignCampaignRequest struct {
	Username   string `json:"username" validate:"required"`
	CampaignID int64  `json:"campaign_id" validate:"required"`
}

// CreateUser handles POST /create_user.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Status:       "active",
		IsAdmin:      req.Role == "admin",
	}
	if err := h.store.CreateUser(user); err != nil {
		if errors.Is(err, config.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "User already exists"})
		}
		h.log.Warn("failed to create user %s: %v", req.Username, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	events.Emit("users.created", user.Username)
	return c.JSON(http.StatusOK, map[string]string{"status": "created"})
}

// AssignCampaign handles POST /assign_campaign. Assigning an already
// assigned campaign is a no-op.
func (h *AdminHandler) AssignCampaign(c echo.Context) error {
	var req AssignCampaignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.store.AssignCampaign(req.Username, req.CampaignID); err != nil {
		if errors.Is(err, config.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		h.log.Warn("failed to assign campaign %d to %s: %v", req.CampaignID, req.Username, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to assign campaign"})
	}

	events.Emit("campaigns.assigned", req)
	return c.JSON(http.StatusOK, map[string]string{"status": "assigned"})
}

// Stats handles GET /stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}
