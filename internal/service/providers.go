package service

import (
	"context"

	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/deppfellow/coursegen/internal/lib/gemini"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/rs/zerolog"
)

// Provider contracts. The lib clients satisfy them in production and
// tests substitute fakes.

type TextGenerator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

type ImageSearcher interface {
	FirstImageURL(ctx context.Context, query string, opts unsplash.SearchOptions) (string, error)
}

type VideoSearcher interface {
	FirstVideoID(ctx context.Context, query string) (string, error)
}

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error)
}

type Mailer interface {
	Send(ctx context.Context, msg email.Message) (*email.Receipt, error)
	SendCertificate(ctx context.Context, to, html string) (*email.Receipt, error)
}

// EmailQueue hands a message to the background worker.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg email.Message) (string, error)
}

// requestLogger prefers the request-scoped logger stored on ctx by the
// context enhancer middleware.
func requestLogger(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	return fallback
}
