package service

import (
	"context"

	"github.com/deppfellow/coursegen/internal/lib/utils"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates platform counters for the admin panel.
type DashboardService struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	logger  *zerolog.Logger
}

func NewDashboardService(users repository.UserRepository, courses repository.CourseRepository, logger *zerolog.Logger) *DashboardService {
	return &DashboardService{users: users, courses: courses, logger: logger}
}

// Summary runs every count concurrently. The counts are not taken in one
// transaction, so they may disagree slightly under concurrent writes.
func (s *DashboardService) Summary(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	countUsers := func(dst *int64, filter model.UserFilter) {
		g.Go(func() error {
			n, err := s.users.CountUsers(ctx, filter)
			*dst = n
			return err
		})
	}
	countCourses := func(dst *int64, filter model.CourseFilter) {
		g.Go(func() error {
			n, err := s.courses.CountCourses(ctx, filter)
			*dst = n
			return err
		})
	}

	countUsers(&d.Users, model.UserFilter{})
	countUsers(&d.Admins, model.UserFilter{Role: model.RoleAdmin})
	countUsers(&d.Frees, model.UserFilter{Type: model.PlanFree})
	countUsers(&d.Paids, model.UserFilter{Type: model.PlanPaid})
	countCourses(&d.Courses, model.CourseFilter{})
	countCourses(&d.VideoAndTextCourses, model.CourseFilter{Type: model.CourseTypeVideoAndText})
	countCourses(&d.TextAndImageCourses, model.CourseFilter{Type: model.CourseTypeTextAndImage})
	countCourses(&d.CompletedCourses, model.CourseFilter{Completed: utils.Ptr(true)})

	if err := g.Wait(); err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Msg("failed to aggregate dashboard counts")
		return nil, err
	}

	return &d, nil
}
