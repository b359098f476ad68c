package handler

import (
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/deppfellow/coursegen/internal/validation"
	"github.com/labstack/echo/v4"
)

type GenerationHandler struct {
	Handler
	generation *service.GenerationService
}

func NewGenerationHandler(s *server.Server, generation *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		Handler:    NewHandler(s),
		generation: generation,
	}
}

// GenerateRequest may carry the caller's own Gemini key.
type GenerateRequest struct {
	Prompt        string `json:"prompt" validate:"required"`
	UseUserAPIKey bool   `json:"useUserApiKey"`
	UserAPIKey    string `json:"userApiKey"`
}

func (r *GenerateRequest) Validate() error {
	return validation.Struct(r)
}

func (r *GenerateRequest) input() service.GenerateInput {
	return service.GenerateInput{
		Prompt:        r.Prompt,
		UseUserAPIKey: r.UseUserAPIKey,
		UserAPIKey:    r.UserAPIKey,
	}
}

type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func (r *PromptRequest) Validate() error {
	return validation.Struct(r)
}

type GeneratedTextResponse struct {
	GeneratedText string `json:"generatedText"`
}

type TextResponse struct {
	Text string `json:"text"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (h *GenerationHandler) Prompt(c echo.Context, req *GenerateRequest) (*GeneratedTextResponse, error) {
	text, err := h.generation.Prompt(c.Request().Context(), req.input())
	if err != nil {
		return nil, err
	}
	return &GeneratedTextResponse{GeneratedText: text}, nil
}

func (h *GenerationHandler) Generate(c echo.Context, req *GenerateRequest) (*TextResponse, error) {
	html, err := h.generation.Generate(c.Request().Context(), req.input())
	if err != nil {
		return nil, err
	}
	return &TextResponse{Text: html}, nil
}

func (h *GenerationHandler) Chat(c echo.Context, req *PromptRequest) (*TextResponse, error) {
	html, err := h.generation.Chat(c.Request().Context(), req.Prompt)
	if err != nil {
		return nil, err
	}
	return &TextResponse{Text: html}, nil
}

func (h *GenerationHandler) ProjectSuggestions(c echo.Context, req *PromptRequest) (*SuggestionsResponse, error) {
	suggestions, err := h.generation.ProjectSuggestions(c.Request().Context(), req.Prompt)
	if err != nil {
		return nil, err
	}
	return &SuggestionsResponse{Suggestions: suggestions}, nil
}
