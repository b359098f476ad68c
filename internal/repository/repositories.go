// Package repository handles all interactions with the document store.
//
// Each record type has one interface and two implementations: postgres
// (pgx, JSONB payload columns) and mongo (one collection per type). The
// server's database.driver picks which set NewRepositories returns.
//
// Not-found errors are wrapped as "table:<name>: <driver sentinel>" so
// sqlerr.HandleError can name the missing entity.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/server"
)

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) (string, error)
	UpdateContent(ctx context.Context, id string, content json.RawMessage) error
	FinishCourse(ctx context.Context, id string, endedAt time.Time) error
	UpdateProgress(ctx context.Context, id string, progress int, completed bool) error
	GetCoursesByUser(ctx context.Context, userID string) ([]model.Course, error)
	GetAllCourses(ctx context.Context) ([]model.Course, error)
	CountCourses(ctx context.Context, filter model.CourseFilter) (int64, error)
}

type ResumeRepository interface {
	// CreateResume stores resume and fills in its ID and CreatedAt.
	CreateResume(ctx context.Context, resume *model.Resume) error
	GetResumeByUID(ctx context.Context, uid string) (*model.Resume, error)
}

type UserRepository interface {
	CountUsers(ctx context.Context, filter model.UserFilter) (int64, error)
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Course CourseRepository
	Resume ResumeRepository
	User   UserRepository
}

// NewRepositories builds the repositories for whichever store the server
// connected to.
func NewRepositories(s *server.Server) *Repositories {
	if s.Mongo != nil {
		return &Repositories{
			Course: NewMongoCourseRepository(s.Mongo.DB),
			Resume: NewMongoResumeRepository(s.Mongo.DB),
			User:   NewMongoUserRepository(s.Mongo.DB),
		}
	}

	return &Repositories{
		Course: NewCourseRepository(s.DB.Pool),
		Resume: NewResumeRepository(s.DB.Pool),
		User:   NewUserRepository(s.DB.Pool),
	}
}
