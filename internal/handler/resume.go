package handler

import (
	"encoding/json"

	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/deppfellow/coursegen/internal/validation"
	"github.com/labstack/echo/v4"
)

type ResumeHandler struct {
	Handler
	resumes *service.ResumeService
}

func NewResumeHandler(s *server.Server, resumes *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		Handler: NewHandler(s),
		resumes: resumes,
	}
}

type CreateResumeRequest struct {
	Name       string          `json:"name" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	UID        string          `json:"uid" validate:"required"`
	ResumeData json.RawMessage `json:"resumeData" validate:"jsonvalue"`
}

func (r *CreateResumeRequest) Validate() error {
	return validation.Struct(r)
}

type GetResumeRequest struct {
	UID string `param:"uid" validate:"required"`
}

func (r *GetResumeRequest) Validate() error {
	return validation.Struct(r)
}

// UploadResumeRequest carries the file as base64, optionally as a data URL.
type UploadResumeRequest struct {
	UserName   string `json:"userName" validate:"required"`
	ResumeBlob string `json:"resumeBlob" validate:"required"`
}

func (r *UploadResumeRequest) Validate() error {
	return validation.Struct(r)
}

type ResumeResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    *model.Resume `json:"data"`
}

type UploadResumeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"filePath"`
}

func (h *ResumeHandler) Create(c echo.Context, req *CreateResumeRequest) (*ResumeResponse, error) {
	resume := &model.Resume{
		Name:       req.Name,
		Email:      req.Email,
		UID:        req.UID,
		ResumeData: req.ResumeData,
	}

	if err := h.resumes.CreateResume(c.Request().Context(), resume); err != nil {
		return nil, err
	}

	return &ResumeResponse{Success: true, Message: "Resume data uploaded successfully", Data: resume}, nil
}

func (h *ResumeHandler) Get(c echo.Context, req *GetResumeRequest) (*ResumeResponse, error) {
	resume, err := h.resumes.GetResume(c.Request().Context(), req.UID)
	if err != nil {
		return nil, err
	}
	return &ResumeResponse{Success: true, Data: resume}, nil
}

func (h *ResumeHandler) Upload(c echo.Context, req *UploadResumeRequest) (*UploadResumeResponse, error) {
	path, err := h.resumes.UploadResume(c.Request().Context(), req.UserName, req.ResumeBlob)
	if err != nil {
		return nil, err
	}
	return &UploadResumeResponse{Success: true, Message: "Resume file uploaded successfully", FilePath: path}, nil
}
