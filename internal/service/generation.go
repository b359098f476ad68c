package service

import (
	"context"

	"github.com/deppfellow/coursegen/internal/errs"
	"github.com/deppfellow/coursegen/internal/lib/gemini"
	"github.com/deppfellow/coursegen/internal/lib/markdown"
	"github.com/deppfellow/coursegen/internal/lib/utils"
	"github.com/rs/zerolog"
)

const projectSuggestionsPrefix = "Generate project suggestions based on: "

// GenerateInput is a generation request. UserAPIKey is only used when
// UseUserAPIKey is set and the key is not empty.
type GenerateInput struct {
	Prompt        string
	UseUserAPIKey bool
	UserAPIKey    string
}

func (in GenerateInput) request() gemini.Request {
	req := gemini.Request{Prompt: in.Prompt}
	if in.UseUserAPIKey && in.UserAPIKey != "" {
		req.APIKey = in.UserAPIKey
	}
	return req
}

type GenerationService struct {
	generator TextGenerator
	logger    *zerolog.Logger
}

func NewGenerationService(generator TextGenerator, logger *zerolog.Logger) *GenerationService {
	return &GenerationService{generator: generator, logger: logger}
}

// Prompt returns the model output unchanged.
func (s *GenerationService) Prompt(ctx context.Context, in GenerateInput) (string, error) {
	return s.generate(ctx, in.request())
}

// Generate returns the model output rendered from markdown to HTML.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (string, error) {
	text, err := s.generate(ctx, in.request())
	if err != nil {
		return "", err
	}
	return s.render(ctx, text)
}

// Chat answers with the chat model using the service key.
func (s *GenerationService) Chat(ctx context.Context, prompt string) (string, error) {
	text, err := s.generate(ctx, gemini.Request{Prompt: prompt, Chat: true})
	if err != nil {
		return "", err
	}
	return s.render(ctx, text)
}

// ProjectSuggestions returns one suggestion per non-blank output line.
func (s *GenerationService) ProjectSuggestions(ctx context.Context, prompt string) ([]string, error) {
	text, err := s.generate(ctx, gemini.Request{Prompt: projectSuggestionsPrefix + prompt})
	if err != nil {
		return nil, err
	}
	return utils.SplitNonEmptyLines(text), nil
}

func (s *GenerationService) generate(ctx context.Context, req gemini.Request) (string, error) {
	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		requestLogger(ctx, s.logger).Error().
			Err(err).
			Bool("user_api_key", req.APIKey != "").
			Bool("chat", req.Chat).
			Msg("text generation failed")
		return "", errs.NewServiceError("Internal server error", "GENERATION_FAILED")
	}
	return text, nil
}

func (s *GenerationService) render(ctx context.Context, text string) (string, error) {
	html, err := markdown.ToHTML(text)
	if err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Msg("failed to render markdown")
		return "", errs.NewInternalServerError()
	}
	return html, nil
}
