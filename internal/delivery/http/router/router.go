// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authsvc/internal/delivery/http/middleware"
	"authsvc/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	InternalHandler    *handler.InternalHandler
	InternalMiddleware *middleware.InternalMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	internalHandler    *handler.InternalHandler
	internalMiddleware *middleware.InternalMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		internalHandler:    params.InternalHandler,
		internalMiddleware: params.InternalMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/validate", r.authHandler.Validate)
	}

	// Service-to-service routes, gated on the internal-call marker
	internalGroup := e.Group("/api/internal/auth")
	internalGroup.Use(r.internalMiddleware.RequireInternalCall)
	{
		internalGroup.DELETE("/user/:id", r.internalHandler.DeleteCredential)
	}
}
