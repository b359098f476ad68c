package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/deppfellow/coursegen/internal/lib/gemini"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type fakeGenerator struct {
	text     string
	err      error
	requests []gemini.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.text, f.err
}

type fakeImages struct {
	url   string
	err   error
	calls int
	opts  unsplash.SearchOptions
}

func (f *fakeImages) FirstImageURL(_ context.Context, _ string, opts unsplash.SearchOptions) (string, error) {
	f.calls++
	f.opts = opts
	return f.url, f.err
}

type fakeVideos struct {
	id    string
	err   error
	calls int
}

func (f *fakeVideos) FirstVideoID(context.Context, string) (string, error) {
	f.calls++
	return f.id, f.err
}

type fakeTranscripts struct {
	segments []transcript.Segment
	err      error
}

func (f *fakeTranscripts) Fetch(context.Context, string) ([]transcript.Segment, error) {
	return f.segments, f.err
}

type fakeMailer struct {
	err          error
	sent         []email.Message
	certificates []string
}

func (f *fakeMailer) Send(_ context.Context, msg email.Message) (*email.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &email.Receipt{MessageID: "<1@test>", Accepted: msg.To, Response: "250 ok"}, nil
}

func (f *fakeMailer) SendCertificate(_ context.Context, to, _ string) (*email.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.certificates = append(f.certificates, to)
	return &email.Receipt{Accepted: []string{to}}, nil
}

type fakeQueue struct {
	err    error
	queued []email.Message
}

func (f *fakeQueue) EnqueueEmail(_ context.Context, msg email.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.queued = append(f.queued, msg)
	return fmt.Sprintf("task-%d", len(f.queued)), nil
}

// fakeCourseRepo keeps courses in memory and reports unknown ids the way
// the postgres repository does.
type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
	countFn func(model.CourseFilter) (int64, error)
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*model.Course{}}
}

func (f *fakeCourseRepo) notFound() error {
	return fmt.Errorf("table:courses: %w", pgx.ErrNoRows)
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, course *model.Course) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("course-%d", len(f.courses)+1)
	stored := *course
	stored.ID = id
	f.courses[id] = &stored
	return id, nil
}

func (f *fakeCourseRepo) get(id string) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, f.notFound()
	}
	return course, nil
}

func (f *fakeCourseRepo) UpdateContent(_ context.Context, id string, content json.RawMessage) error {
	course, err := f.get(id)
	if err != nil {
		return err
	}
	course.Content = content
	return nil
}

func (f *fakeCourseRepo) FinishCourse(_ context.Context, id string, endedAt time.Time) error {
	course, err := f.get(id)
	if err != nil {
		return err
	}
	course.Completed = true
	course.Progress = model.MaxProgress
	course.End = &endedAt
	return nil
}

func (f *fakeCourseRepo) UpdateProgress(_ context.Context, id string, progress int, completed bool) error {
	course, err := f.get(id)
	if err != nil {
		return err
	}
	course.Progress = progress
	course.Completed = completed
	return nil
}

func (f *fakeCourseRepo) GetCoursesByUser(_ context.Context, userID string) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if c.User == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) GetAllCourses(context.Context) ([]model.Course, error) {
	out := make([]model.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourseRepo) CountCourses(_ context.Context, filter model.CourseFilter) (int64, error) {
	if f.countFn != nil {
		return f.countFn(filter)
	}
	return 0, nil
}

type fakeUserRepo struct {
	countFn func(model.UserFilter) (int64, error)
}

func (f *fakeUserRepo) CountUsers(_ context.Context, filter model.UserFilter) (int64, error) {
	return f.countFn(filter)
}

type fakeResumeRepo struct {
	byUID     map[string]*model.Resume
	createErr error
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{byUID: map[string]*model.Resume{}}
}

func (f *fakeResumeRepo) CreateResume(_ context.Context, resume *model.Resume) error {
	if f.createErr != nil {
		return f.createErr
	}
	resume.ID = fmt.Sprintf("resume-%d", len(f.byUID)+1)
	resume.CreatedAt = time.Now().UTC()
	stored := *resume
	f.byUID[resume.UID] = &stored
	return nil
}

func (f *fakeResumeRepo) GetResumeByUID(_ context.Context, uid string) (*model.Resume, error) {
	resume, ok := f.byUID[uid]
	if !ok {
		return nil, fmt.Errorf("table:resumes: %w", pgx.ErrNoRows)
	}
	return resume, nil
}

type fakeFileStore struct {
	err   error
	owner string
	data  []byte
}

func (f *fakeFileStore) Save(_ context.Context, owner string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.owner = owner
	f.data = data
	return owner + "/file.pdf", nil
}
