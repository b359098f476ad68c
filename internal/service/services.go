// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, calls the provider clients and the
// repositories, and translates provider failures into HTTP errors.
package service

import (
	"github.com/deppfellow/coursegen/internal/lib/job"
	"github.com/deppfellow/coursegen/internal/repository"
	"github.com/deppfellow/coursegen/internal/server"
)

type Services struct {
	Generation   *GenerationService
	Media        *MediaService
	Notification *NotificationService
	Course       *CourseService
	Dashboard    *DashboardService
	Resume       *ResumeService
	Job          *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	clients := s.Clients
	logger := s.Logger

	// A nil *job.JobService must not end up as a non-nil EmailQueue.
	var queue EmailQueue
	if s.Job != nil {
		queue = s.Job
	}

	return &Services{
		Generation: NewGenerationService(clients.Gemini, logger),
		Media: NewMediaService(
			clients.Unsplash,
			clients.YouTube,
			clients.Transcript,
			clients.MediaCache,
			s.Config.Integration.Unsplash.PlaceholderURL,
			logger,
		),
		Notification: NewNotificationService(clients.Email, queue, logger),
		Course:       NewCourseService(repos.Course, clients.Unsplash, logger),
		Dashboard:    NewDashboardService(repos.User, repos.Course, logger),
		Resume:       NewResumeService(repos.Resume, clients.Storage, logger),
		Job:          s.Job,
	}, nil
}
