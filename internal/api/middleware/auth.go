package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"fineops/internal/config"
	"fineops/internal/models"
	"fineops/internal/utils"
	"fineops/internal/utils/crypto"
	"fineops/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

var log = logger.New("auth_middleware")

// AuthMiddleware authenticates requests either with a session JWT
// issued by POST /auth or with the raw signed handshake payload
// (X-Init-Data header, or init_data query parameter for GETs).
type AuthMiddleware struct {
	store     *config.Store
	jwtSecret string
	secret    []byte
}

func NewAuthMiddleware(store *config.Store, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		store:     store,
		jwtSecret: jwtSecret,
		secret:    crypto.InitDataSecret(store.Telegram().BotToken),
	}
}

func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				tokenParts := strings.Split(authHeader, " ")
				if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
				}
				return m.validateJWT(c, tokenParts[1], next)
			}

			initData := c.Request().Header.Get("X-Init-Data")
			if initData == "" {
				initData = c.QueryParam("init_data")
			}
			if initData == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing credentials")
			}
			return m.validateInitData(c, initData, next)
		}
	}
}

// RequireAdmin guards the admin-only surface. It must run after
// Middleware.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin only")
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims, err := utils.ParseJWT(tokenString, m.jwtSecret)
	if err != nil {
		log.Warn("rejected session token: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	user, ok := m.store.User(claims.Username)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	c.Set("user", user)
	return next(c)
}

func (m *AuthMiddleware) validateInitData(c echo.Context, raw string, next echo.HandlerFunc) error {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid init data")
	}
	if !crypto.VerifyInitData(payload, m.secret) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid init data")
	}

	username, _ := payload["username"].(string)
	user, ok := m.store.User(username)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	c.Set("user", user)
	return next(c)
}

// CurrentUser returns the authenticated user set by the middleware.
func CurrentUser(c echo.Context) (models.User, bool) {
	user, ok := c.Get("user").(models.User)
	return user, ok
}
