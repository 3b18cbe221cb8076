package api

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"fineops/internal/api/validator"
	"fineops/internal/config"
	"fineops/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Deps carries the wired service layer into the HTTP server.
type Deps struct {
	Orders    *services.OrdersService
	Decisions *services.DecisionService
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	store  *config.Store
	deps   Deps
}

func NewServer(cfg *config.Config, store *config.Store, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = validator.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Init-Data"},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = customHTTPErrorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		store:  store,
		deps:   deps,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	return s.echo.Start(s.config.Addr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
	)

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		message = e.Message
	case validator.ValidationErrors:
		code = http.StatusBadRequest
		message = e.Error()
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		if writeErr := c.JSON(code, map[string]interface{}{
			"error": message,
			"code":  code,
			"time":  time.Now().Format(time.RFC3339),
		}); writeErr != nil {
			c.Echo().Logger.Error(writeErr)
		}
	}
}
