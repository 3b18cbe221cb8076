package handlers

import (
	"net/http"

	"fineops/internal/config"
	"fineops/internal/utils"
	"fineops/internal/utils/crypto"
	"fineops/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler verifies the signed mini-app handshake plus the user's
// password and issues a session token.
type AuthHandler struct {
	store     *config.Store
	jwtSecret string
	secret    []byte
	log       *logger.Logger
}

func NewAuthHandler(store *config.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		store:     store,
		jwtSecret: jwtSecret,
		secret:    crypto.InitDataSecret(store.Telegram().BotToken),
		log:       logger.New("AuthHandler"),
	}
}

// Auth handles POST /auth. The body is the flat signed handshake
// payload carrying username and password. Every failure, expected or
// not, maps to a 401.
func (h *AuthHandler) Auth(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid data"})
	}

	if !crypto.VerifyInitData(payload, h.secret) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid data"})
	}

	username, _ := payload["username"].(string)
	password, _ := payload["password"].(string)

	user, ok := h.store.User(username)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
	}

	token, err := utils.GenerateJWT(user, h.jwtSecret)
	if err != nil {
		h.log.Warn("failed to issue session token for %s: %v", username, err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Auth error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":  user.Profile(),
		"token": token,
	})
}
