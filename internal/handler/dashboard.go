package handler

import (
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	Handler
	dashboard *service.DashboardService
}

func NewDashboardHandler(s *server.Server, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		Handler:   NewHandler(s),
		dashboard: dashboard,
	}
}

type DashboardRequest struct{}

func (r *DashboardRequest) Validate() error {
	return nil
}

func (h *DashboardHandler) Summary(c echo.Context, _ *DashboardRequest) (*model.Dashboard, error) {
	return h.dashboard.Summary(c.Request().Context())
}
