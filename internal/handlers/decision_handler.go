package handlers

import (
	"net/http"

	"fineops/internal/api/middleware"
	"fineops/internal/models"
	"fineops/internal/services"
	"fineops/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

// DecisionHandler records a batch of worker decisions.
type DecisionHandler struct {
	decisions *services.DecisionService
	log       *logger.Logger
}

func NewDecisionHandler(decisions *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{
		decisions: decisions,
		log:       logger.New("DecisionHandler"),
	}
}

// SaveDecisions handles POST /save_decisions. The body is a list of
// decisions; unknown decision values are rejected with 400. Once the
// batch is accepted the endpoint reports saved regardless of downstream
// failures.
func (h *DecisionHandler) SaveDecisions(c echo.Context) error {
	var decisions []models.Decision
	if err := c.Bind(&decisions); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	for _, d := range decisions {
		if err := c.Validate(d); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	user, _ := middleware.CurrentUser(c)
	if err := h.decisions.Save(c.Request().Context(), user, decisions); err != nil {
		h.log.Warn("decision save finished with error: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}
