package handler

import (
	"encoding/json"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/deppfellow/coursegen/internal/validation"
	"github.com/labstack/echo/v4"
)

type CourseHandler struct {
	Handler
	courses *service.CourseService
}

func NewCourseHandler(s *server.Server, courses *service.CourseService) *CourseHandler {
	return &CourseHandler{
		Handler: NewHandler(s),
		courses: courses,
	}
}

type CreateCourseRequest struct {
	User      string          `json:"user" validate:"required"`
	Content   json.RawMessage `json:"content" validate:"jsonvalue"`
	Type      string          `json:"type" validate:"required"`
	MainTopic string          `json:"mainTopic" validate:"required"`
}

func (r *CreateCourseRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateCourseRequest struct {
	CourseID string          `json:"courseId" validate:"required"`
	Content  json.RawMessage `json:"content" validate:"jsonvalue"`
}

func (r *UpdateCourseRequest) Validate() error {
	return validation.Struct(r)
}

type FinishCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

func (r *FinishCourseRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateProgressRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	Progress  *int   `json:"progress" validate:"required,min=0,max=100"`
	Completed bool   `json:"completed"`
}

func (r *UpdateProgressRequest) Validate() error {
	return validation.Struct(r)
}

type ListCoursesRequest struct {
	UserID string `query:"userId" validate:"required"`
}

func (r *ListCoursesRequest) Validate() error {
	return validation.Struct(r)
}

type ListAllCoursesRequest struct{}

func (r *ListAllCoursesRequest) Validate() error {
	return nil
}

type CreateCourseResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	CourseID string `json:"courseId"`
}

func (h *CourseHandler) Create(c echo.Context, req *CreateCourseRequest) (*CreateCourseResponse, error) {
	course, err := h.courses.CreateCourse(c.Request().Context(), service.CreateCourseInput{
		User:      req.User,
		Content:   req.Content,
		Type:      req.Type,
		MainTopic: req.MainTopic,
	})
	if err != nil {
		return nil, err
	}

	message := "Course created successfully"
	if course.Photo == nil {
		message = "Course created successfully (without image)"
	}

	return &CreateCourseResponse{Success: true, Message: message, CourseID: course.ID}, nil
}

func (h *CourseHandler) Update(c echo.Context, req *UpdateCourseRequest) (*MessageResponse, error) {
	if err := h.courses.UpdateContent(c.Request().Context(), req.CourseID, req.Content); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: "Course updated successfully"}, nil
}

func (h *CourseHandler) Finish(c echo.Context, req *FinishCourseRequest) (*MessageResponse, error) {
	if err := h.courses.FinishCourse(c.Request().Context(), req.CourseID); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: "Course completed successfully"}, nil
}

func (h *CourseHandler) UpdateProgress(c echo.Context, req *UpdateProgressRequest) (*MessageResponse, error) {
	if err := h.courses.UpdateProgress(c.Request().Context(), req.CourseID, *req.Progress, req.Completed); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: "Progress updated successfully"}, nil
}

// ListByUser answers with a bare array.
func (h *CourseHandler) ListByUser(c echo.Context, req *ListCoursesRequest) ([]model.Course, error) {
	return h.courses.GetCoursesByUser(c.Request().Context(), req.UserID)
}

func (h *CourseHandler) ListAll(c echo.Context, _ *ListAllCoursesRequest) ([]model.Course, error) {
	return h.courses.GetAllCourses(c.Request().Context())
}
