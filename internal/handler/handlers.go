// Package handler is the HTTP layer. It binds and validates requests,
// calls the service layer and shapes the JSON responses.
package handler

import (
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health       *HealthHandler
	OpenAPI      *OpenAPIHandler
	Generation   *GenerationHandler
	Media        *MediaHandler
	Notification *NotificationHandler
	Course       *CourseHandler
	Dashboard    *DashboardHandler
	Resume       *ResumeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s),
		OpenAPI:      NewOpenAPIHandler(s),
		Generation:   NewGenerationHandler(s, services.Generation),
		Media:        NewMediaHandler(s, services.Media),
		Notification: NewNotificationHandler(s, services.Notification),
		Course:       NewCourseHandler(s, services.Course),
		Dashboard:    NewDashboardHandler(s, services.Dashboard),
		Resume:       NewResumeHandler(s, services.Resume),
	}
}
