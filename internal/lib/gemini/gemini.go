// Package gemini generates text with the Google Gemini API.
package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// Request is one generation call.
//
// APIKey, when set, routes the call through a client built for that key
// instead of the service default. Chat selects the chat model.
type Request struct {
	Prompt string
	APIKey string
	Chat   bool
}

// Client holds the default genai client and model settings.
type Client struct {
	client    *genai.Client
	model     string
	chatModel string
	timeout   time.Duration
	httpOpts  genai.HTTPOptions
}

// safetySettings blocks medium and above for every harm category.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// NewClient builds the default client from config.
func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	return newClient(ctx, cfg, genai.HTTPOptions{})
}

func newClient(ctx context.Context, cfg *config.GeminiConfig, httpOpts genai.HTTPOptions) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &Client{
		client:    client,
		model:     cfg.Model,
		chatModel: cfg.ChatModel,
		timeout:   cfg.Timeout,
		httpOpts:  httpOpts,
	}, nil
}

// Generate sends the prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	client := c.client
	if req.APIKey != "" {
		userClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      req.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: c.httpOpts,
		})
		if err != nil {
			return "", errors.Wrap(err, "failed to create gemini client for caller key")
		}
		client = userClient
	}

	model := c.model
	if req.Chat {
		model = c.chatModel
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		SafetySettings: safetySettings,
	})
	if err != nil {
		return "", errors.Wrapf(err, "gemini %s generate failed", model)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
