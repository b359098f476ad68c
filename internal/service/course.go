package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/repository"
	"github.com/rs/zerolog"
)

type CreateCourseInput struct {
	User      string
	Content   json.RawMessage
	Type      string
	MainTopic string
}

type CourseService struct {
	repo   repository.CourseRepository
	images ImageSearcher
	logger *zerolog.Logger
	now    func() time.Time
}

func NewCourseService(repo repository.CourseRepository, images ImageSearcher, logger *zerolog.Logger) *CourseService {
	return &CourseService{
		repo:   repo,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// CreateCourse stores a new course. The cover photo is best effort: when
// the image search fails the course is saved with no photo.
func (s *CourseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	logger := requestLogger(ctx, s.logger)

	course := &model.Course{
		User:      in.User,
		Content:   in.Content,
		Type:      in.Type,
		MainTopic: in.MainTopic,
		Progress:  0,
		Completed: false,
		Date:      s.now().UTC(),
	}

	url, err := s.images.FirstImageURL(ctx, in.MainTopic, unsplash.SearchOptions{
		PerPage:     1,
		Orientation: unsplash.OrientationLandscape,
	})
	switch {
	case err == nil && url != "":
		course.Photo = &url
	case err != nil && !errors.Is(err, unsplash.ErrNoResults):
		logger.Warn().Err(err).Str("main_topic", in.MainTopic).Msg("cover image lookup failed")
	}

	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	logger.Info().
		Str("course_id", id).
		Bool("with_photo", course.Photo != nil).
		Msg("course created")

	return course, nil
}

func (s *CourseService) UpdateContent(ctx context.Context, courseID string, content json.RawMessage) error {
	return s.repo.UpdateContent(ctx, courseID, content)
}

// FinishCourse marks the course completed at full progress.
func (s *CourseService) FinishCourse(ctx context.Context, courseID string) error {
	return s.repo.FinishCourse(ctx, courseID, s.now().UTC())
}

// UpdateProgress stores progress; reaching full progress completes the course.
func (s *CourseService) UpdateProgress(ctx context.Context, courseID string, progress int, completed bool) error {
	completed = completed || progress == model.MaxProgress
	return s.repo.UpdateProgress(ctx, courseID, progress, completed)
}

func (s *CourseService) GetCoursesByUser(ctx context.Context, userID string) ([]model.Course, error) {
	return s.repo.GetCoursesByUser(ctx, userID)
}

func (s *CourseService) GetAllCourses(ctx context.Context) ([]model.Course, error) {
	return s.repo.GetAllCourses(ctx)
}
