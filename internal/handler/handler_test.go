package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/deppfellow/coursegen/internal/lib/gemini"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/deppfellow/coursegen/internal/middleware"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text string
	err  error
	last *gemini.Request
}

func (s stubGenerator) Generate(_ context.Context, req gemini.Request) (string, error) {
	if s.last != nil {
		*s.last = req
	}
	return s.text, s.err
}

type stubImages struct {
	url string
	err error
}

func (s stubImages) FirstImageURL(context.Context, string, unsplash.SearchOptions) (string, error) {
	return s.url, s.err
}

type stubVideos struct{}

func (stubVideos) FirstVideoID(context.Context, string) (string, error) {
	return "vid123", nil
}

type stubTranscripts struct{ err error }

func (s stubTranscripts) Fetch(context.Context, string) ([]transcript.Segment, error) {
	return nil, s.err
}

type stubMailer struct{}

func (stubMailer) Send(_ context.Context, msg email.Message) (*email.Receipt, error) {
	return &email.Receipt{MessageID: "<1@test>", Accepted: msg.To, Response: "250 ok"}, nil
}

func (stubMailer) SendCertificate(_ context.Context, to, _ string) (*email.Receipt, error) {
	return &email.Receipt{Accepted: []string{to}}, nil
}

type stubQueue struct{}

func (stubQueue) EnqueueEmail(context.Context, email.Message) (string, error) {
	return "task-1", nil
}

type memCourses struct {
	created []*model.Course
}

func (m *memCourses) CreateCourse(_ context.Context, course *model.Course) (string, error) {
	m.created = append(m.created, course)
	return "0b1d7c6e-8f2a-4c1e-9b7d-3f5a2e1c9d40", nil
}

func (m *memCourses) UpdateContent(context.Context, string, json.RawMessage) error {
	return fmt.Errorf("table:courses: %w", pgx.ErrNoRows)
}

func (m *memCourses) FinishCourse(context.Context, string, time.Time) error { return nil }

func (m *memCourses) UpdateProgress(context.Context, string, int, bool) error { return nil }

func (m *memCourses) GetCoursesByUser(context.Context, string) ([]model.Course, error) {
	return []model.Course{{ID: "c1", User: "user-1", Content: json.RawMessage(`{}`)}}, nil
}

func (m *memCourses) GetAllCourses(context.Context) ([]model.Course, error) {
	return []model.Course{}, nil
}

func (m *memCourses) CountCourses(context.Context, model.CourseFilter) (int64, error) { return 3, nil }

type memUsers struct{}

func (memUsers) CountUsers(context.Context, model.UserFilter) (int64, error) { return 2, nil }

type memResumes struct{ duplicate bool }

func (m memResumes) CreateResume(_ context.Context, resume *model.Resume) error {
	if m.duplicate {
		return &pgconn.PgError{Code: "23505", TableName: "resumes", ConstraintName: "resumes_uid_key"}
	}
	resume.ID = "r1"
	resume.CreatedAt = time.Now().UTC()
	return nil
}

func (memResumes) GetResumeByUID(context.Context, string) (*model.Resume, error) {
	return nil, fmt.Errorf("table:resumes: %w", pgx.ErrNoRows)
}

type memFiles struct{}

func (memFiles) Save(_ context.Context, owner string, _ []byte) (string, error) {
	return owner + "/resume.pdf", nil
}

type testEnv struct {
	echo    *echo.Echo
	courses *memCourses
}

func newTestEnv(t *testing.T, images stubImages, resumes memResumes) *testEnv {
	t.Helper()
	return newTestEnvWithGenerator(t, stubGenerator{text: "line one\n\nline two"}, images, resumes)
}

func newTestEnvWithGenerator(t *testing.T, generator stubGenerator, images stubImages, resumes memResumes) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:  config.Primary{Env: "test"},
			Database: config.DatabaseConfig{Driver: config.DriverPostgres},
		},
		Logger: &logger,
	}

	courses := &memCourses{}
	services := &service.Services{
		Generation:   service.NewGenerationService(generator, &logger),
		Media:        service.NewMediaService(images, stubVideos{}, stubTranscripts{err: transcript.ErrDisabled}, nil, "https://via.placeholder.com/150", &logger),
		Notification: service.NewNotificationService(stubMailer{}, stubQueue{}, &logger),
		Course:       service.NewCourseService(courses, images, &logger),
		Dashboard:    service.NewDashboardService(memUsers{}, courses, &logger),
		Resume:       service.NewResumeService(resumes, memFiles{}, &logger),
	}
	h := NewHandlers(s, services)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	api := e.Group("/api")
	api.POST("/prompt", Handle(h.Generation.Handler, h.Generation.Prompt, http.StatusOK, &GenerateRequest{}))
	api.POST("/generate", Handle(h.Generation.Handler, h.Generation.Generate, http.StatusOK, &GenerateRequest{}))
	api.POST("/chat", Handle(h.Generation.Handler, h.Generation.Chat, http.StatusOK, &PromptRequest{}))
	api.POST("/project-suggestions", Handle(h.Generation.Handler, h.Generation.ProjectSuggestions, http.StatusOK, &PromptRequest{}))
	api.POST("/image", Handle(h.Media.Handler, h.Media.Image, http.StatusOK, &PromptRequest{}))
	api.POST("/yt", Handle(h.Media.Handler, h.Media.Video, http.StatusOK, &PromptRequest{}))
	api.POST("/transcript", Handle(h.Media.Handler, h.Media.Transcript, http.StatusOK, &PromptRequest{}))
	api.POST("/sendmail", Handle(h.Notification.Handler, h.Notification.SendMail, http.StatusOK, &SendMailRequest{}))
	api.POST("/sendcertificate", Handle(h.Notification.Handler, h.Notification.SendCertificate, http.StatusOK, &SendCertificateRequest{}))
	api.POST("/course", Handle(h.Course.Handler, h.Course.Create, http.StatusOK, &CreateCourseRequest{}))
	api.POST("/update", Handle(h.Course.Handler, h.Course.Update, http.StatusOK, &UpdateCourseRequest{}))
	api.POST("/finish", Handle(h.Course.Handler, h.Course.Finish, http.StatusOK, &FinishCourseRequest{}))
	api.POST("/update-progress", Handle(h.Course.Handler, h.Course.UpdateProgress, http.StatusOK, &UpdateProgressRequest{}))
	api.GET("/courses", Handle(h.Course.Handler, h.Course.ListByUser, http.StatusOK, &ListCoursesRequest{}))
	api.GET("/getallcourses", Handle(h.Course.Handler, h.Course.ListAll, http.StatusOK, &ListAllCoursesRequest{}))
	api.POST("/dashboard", Handle(h.Dashboard.Handler, h.Dashboard.Summary, http.StatusOK, &DashboardRequest{}))
	api.POST("/resume", Handle(h.Resume.Handler, h.Resume.Create, http.StatusCreated, &CreateResumeRequest{}))
	api.GET("/resume/:uid", Handle(h.Resume.Handler, h.Resume.Get, http.StatusOK, &GetResumeRequest{}))
	api.POST("/resume/upload", Handle(h.Resume.Handler, h.Resume.Upload, http.StatusOK, &UploadResumeRequest{}))

	return &testEnv{echo: e, courses: courses}
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPromptEndpoint(t *testing.T) {
	var sent gemini.Request
	env := newTestEnvWithGenerator(t, stubGenerator{text: "hi **there**", last: &sent}, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/prompt", `{"prompt":"hello","useUserApiKey":false,"userApiKey":"ignored"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"generatedText":"hi **there**"}`, rec.Body.String())
	assert.Equal(t, "hello", sent.Prompt)
	assert.Empty(t, sent.APIKey)
}

func TestPromptEndpointProviderFailure(t *testing.T) {
	env := newTestEnvWithGenerator(t, stubGenerator{err: errors.New("quota exceeded")}, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/prompt", `{"prompt":"hello","useUserApiKey":false}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "GENERATION_FAILED", body["code"])
	assert.NotContains(t, rec.Body.String(), "quota exceeded")
}

func TestGenerateEndpointRendersHTML(t *testing.T) {
	var sent gemini.Request
	env := newTestEnvWithGenerator(t, stubGenerator{text: "hi **there**", last: &sent}, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/generate", `{"prompt":"hello","useUserApiKey":true,"userApiKey":"user-key"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["text"], "<strong>there</strong>")
	assert.Equal(t, "user-key", sent.APIKey)
}

func TestChatEndpoint(t *testing.T) {
	var sent gemini.Request
	env := newTestEnvWithGenerator(t, stubGenerator{text: "*answer*", last: &sent}, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/chat", `{"prompt":"what is go?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["text"], "<em>answer</em>")
	assert.True(t, sent.Chat)
}

func TestProjectSuggestionsEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/project-suggestions", `{"prompt":"go"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":["line one","line two"]}`, rec.Body.String())
}

func TestMissingPromptIsValidationError(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/yt", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "prompt", errs[0].(map[string]any)["field"])
}

func TestImageEndpointFallsBackToPlaceholder(t *testing.T) {
	env := newTestEnv(t, stubImages{err: errors.New("down")}, memResumes{})

	rec := env.do(http.MethodPost, "/api/image", `{"prompt":"golang"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://via.placeholder.com/150"}`, rec.Body.String())
}

func TestVideoEndpointUsesURLKey(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/yt", `{"prompt":"golang"}`)

	assert.JSONEq(t, `{"url":"vid123"}`, rec.Body.String())
}

func TestTranscriptDisabledIs403(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/transcript", `{"prompt":"vid123"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Transcript is disabled on this video.", decode(t, rec)["message"])
}

func TestSendMailEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/sendmail", `{"html":"<p>hi</p>","to":"a@example.com","subject":"Hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messageId":"<1@test>","accepted":["a@example.com"],"response":"250 ok"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/sendmail", `{"html":"<p>hi</p>","to":"a@example.com","subject":"Hi","queue":true}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"queued":true,"taskId":"task-1"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/sendmail", `{"html":"<p>hi</p>","to":"not-an-email","subject":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendCertificateEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/sendcertificate", `{"html":"<h1>Done</h1>","email":"a@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Email sent successfully"}`, rec.Body.String())
}

func TestCreateCourseMessages(t *testing.T) {
	body := `{"user":"user-1","content":{"chapters":[]},"type":"text & image course","mainTopic":"Go"}`

	withImage := newTestEnv(t, stubImages{url: "https://images.example.com/go.jpg"}, memResumes{})
	rec := withImage.do(http.MethodPost, "/api/course", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course created successfully", decode(t, rec)["message"])
	require.Len(t, withImage.courses.created, 1)
	assert.JSONEq(t, `{"chapters":[]}`, string(withImage.courses.created[0].Content))

	withoutImage := newTestEnv(t, stubImages{err: errors.New("down")}, memResumes{})
	rec = withoutImage.do(http.MethodPost, "/api/course", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Course created successfully (without image)", got["message"])
	assert.Equal(t, "0b1d7c6e-8f2a-4c1e-9b7d-3f5a2e1c9d40", got["courseId"])
}

func TestCreateCourseRequiresContent(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/course", `{"user":"u","content":null,"type":"t","mainTopic":"Go"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownCourseIs404(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/update", `{"courseId":"missing","content":{"a":1}}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", decode(t, rec)["message"])
}

func TestUpdateProgressValidatesRange(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/update-progress", `{"courseId":"c1","progress":101}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/update-progress", `{"courseId":"c1"}`).Code)

	rec := env.do(http.MethodPost, "/api/update-progress", `{"courseId":"c1","progress":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Progress updated successfully", decode(t, rec)["message"])
}

func TestFinishEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/finish", `{"courseId":"c1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Course completed successfully"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/finish", `{}`).Code)
}

func TestGetAllCoursesEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodGet, "/api/getallcourses", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListCoursesReturnsBareArray(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodGet, "/api/courses?userId=user-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var courses []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0]["_id"])

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/courses", "").Code)
}

func TestDashboardEndpoint(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/dashboard", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":2,"admins":2,"frees":2,"paids":2,"courses":3,
		"videoAndTextCourses":3,"textAndImageCourses":3,"completedCourses":3}`, rec.Body.String())
}

func TestResumeEndpoints(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{})

	rec := env.do(http.MethodPost, "/api/resume", `{"name":"Ada","email":"ada@example.com","uid":"u1","resumeData":{"skills":["go"]}}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Resume data uploaded successfully", body["message"])
	assert.Equal(t, "r1", body["data"].(map[string]any)["_id"])

	rec = env.do(http.MethodGet, "/api/resume/u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No resume found for this user", decode(t, rec)["message"])

	rec = env.do(http.MethodPost, "/api/resume/upload", `{"userName":"ada","resumeBlob":"JVBERi0xLjQ="}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada/resume.pdf", decode(t, rec)["filePath"])
}

func TestDuplicateResumeIsConflict(t *testing.T) {
	env := newTestEnv(t, stubImages{}, memResumes{duplicate: true})

	rec := env.do(http.MethodPost, "/api/resume", `{"name":"Ada","email":"ada@example.com","uid":"u1","resumeData":{}}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "RESUME_ALREADY_EXISTS", decode(t, rec)["code"])
}

func TestNewRequestIsFreshPerCall(t *testing.T) {
	a := newRequest[*PromptRequest]()
	a.Prompt = "first"
	b := newRequest[*PromptRequest]()

	assert.Empty(t, b.Prompt)
	assert.NotSame(t, a, b)
}

func TestHealthWithoutStoresIsHealthy(t *testing.T) {
	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:  config.Primary{Env: "test"},
			Database: config.DatabaseConfig{Driver: config.DriverMongo},
		},
		Logger: &logger,
	}

	e := echo.New()
	e.GET("/status", NewHealthHandler(s).CheckHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mongo", body["database"])
}
