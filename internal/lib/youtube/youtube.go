// Package youtube searches videos through the YouTube Data API v3.
package youtube

import (
	"context"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrNoResults is returned when a search matched no videos.
var ErrNoResults = errors.New("youtube: no videos found")

// Client wraps the generated YouTube service.
type Client struct {
	service *yt.Service
	timeout time.Duration
}

// NewClient builds a Client authenticated with an API key. Extra options
// (an alternate endpoint in tests) are appended.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)

	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create youtube service")
	}

	return &Client{service: service, timeout: cfg.Timeout}, nil
}

// FirstVideoID returns the id of the top search result for query.
func (c *Client) FirstVideoID(ctx context.Context, query string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.service.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "youtube search failed")
	}

	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			return item.Id.VideoId, nil
		}
	}

	return "", ErrNoResults
}
