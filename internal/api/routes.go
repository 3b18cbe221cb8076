package api

import (
	"fineops/internal/api/middleware"
	"fineops/internal/handlers"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.healthCheck)

	authHandler := handlers.NewAuthHandler(s.store, s.config.JWT.Secret)
	orderHandler := handlers.NewOrderHandler(s.store, s.deps.Orders)
	decisionHandler := handlers.NewDecisionHandler(s.deps.Decisions)
	adminHandler := handlers.NewAdminHandler(s.store)

	// Public: the handshake payload itself is the credential.
	s.echo.POST("/auth", authHandler.Auth)

	auth := middleware.NewAuthMiddleware(s.store, s.config.JWT.Secret)
	protected := s.echo.Group("", auth.Middleware())

	protected.GET("/orders/:campaign_id", orderHandler.GetOrders)
	protected.POST("/save_decisions", decisionHandler.SaveDecisions)

	admin := protected.Group("", middleware.RequireAdmin())
	admin.GET("/campaigns", orderHandler.ListCampaigns)
	admin.POST("/create_user", adminHandler.CreateUser)
	admin.POST("/assign_campaign", adminHandler.AssignCampaign)
	admin.GET("/stats", adminHandler.Stats)
}
