// Package lib holds the third-party provider clients used by services.
//
// Clients are built once at startup by NewClients and shared by every
// request; none of them carries per-request state.
package lib

import (
	"context"
	"fmt"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/deppfellow/coursegen/internal/lib/cache"
	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/deppfellow/coursegen/internal/lib/gemini"
	"github.com/deppfellow/coursegen/internal/lib/storage"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/deppfellow/coursegen/internal/lib/youtube"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Clients is the set of provider clients.
type Clients struct {
	Gemini     *gemini.Client
	Unsplash   *unsplash.Client
	YouTube    *youtube.Client
	Transcript *transcript.Client
	Email      *email.Client
	Storage    storage.FileStore
	MediaCache *cache.MediaCache
}

// NewClients builds every provider client from config. rdb may be nil,
// which disables the media cache.
func NewClients(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *zerolog.Logger) (*Clients, error) {
	integration := &cfg.Integration

	geminiClient, err := gemini.NewClient(ctx, &integration.Gemini)
	if err != nil {
		return nil, err
	}

	youtubeClient, err := youtube.NewClient(ctx, &integration.YouTube)
	if err != nil {
		return nil, err
	}

	emailClient, err := email.NewClient(&integration.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create email client: %w", err)
	}

	fileStore, err := storage.New(&integration.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}

	return &Clients{
		Gemini:     geminiClient,
		Unsplash:   unsplash.New(&integration.Unsplash),
		YouTube:    youtubeClient,
		Transcript: transcript.NewClient(&integration.YouTube),
		Email:      emailClient,
		Storage:    fileStore,
		MediaCache: cache.NewMediaCache(rdb, integration.Cache.MediaTTL),
	}, nil
}
