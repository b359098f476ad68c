// Package router builds the echo instance: global middleware in order,
// then the system and API routes.
package router

import (
	"github.com/deppfellow/coursegen/internal/handler"
	"github.com/deppfellow/coursegen/internal/middleware"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// RequestID must precede the context enhancer, and New Relic must
	// precede both so trace ids reach the request logger.
	router.Use(
		middlewares.Global.BodyLimit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerAPIRoutes(router.Group("/api"), h)

	return router
}
