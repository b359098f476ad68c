package handler

import (
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/labstack/echo/v4"
)

type MediaHandler struct {
	Handler
	media *service.MediaService
}

func NewMediaHandler(s *server.Server, media *service.MediaService) *MediaHandler {
	return &MediaHandler{
		Handler: NewHandler(s),
		media:   media,
	}
}

// URLResponse keeps the "url" key for every media lookup, including the
// video id.
type URLResponse struct {
	URL string `json:"url"`
}

type TranscriptResponse struct {
	URL []transcript.Segment `json:"url"`
}

func (h *MediaHandler) Image(c echo.Context, req *PromptRequest) (*URLResponse, error) {
	return &URLResponse{URL: h.media.ImageURL(c.Request().Context(), req.Prompt)}, nil
}

func (h *MediaHandler) Video(c echo.Context, req *PromptRequest) (*URLResponse, error) {
	id, err := h.media.VideoID(c.Request().Context(), req.Prompt)
	if err != nil {
		return nil, err
	}
	return &URLResponse{URL: id}, nil
}

// Transcript reads the video id from the prompt field.
func (h *MediaHandler) Transcript(c echo.Context, req *PromptRequest) (*TranscriptResponse, error) {
	segments, err := h.media.Transcript(c.Request().Context(), req.Prompt)
	if err != nil {
		return nil, err
	}
	return &TranscriptResponse{URL: segments}, nil
}
