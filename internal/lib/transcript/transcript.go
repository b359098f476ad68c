// Package transcript fetches YouTube caption tracks as timed segments.
package transcript

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/kkdai/youtube/v2"
)

// ErrDisabled reports that the video owner turned captions off.
var ErrDisabled = errors.New("transcript is disabled on this video")

// Segment is one caption line. Offset and Duration are milliseconds.
type Segment struct {
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
	Duration int    `json:"duration"`
}

// disabledPhrases are matched case-insensitively against provider error
// messages when no typed error is available.
var disabledPhrases = []string{
	"transcript is disabled",
	"transcripts are disabled",
	"transcripts disabled",
	"subtitles are disabled",
	"captions are disabled",
}

// IsDisabled reports whether err means captions are turned off for the video.
func IsDisabled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDisabled) || errors.Is(err, youtube.ErrTranscriptDisabled) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range disabledPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// Client fetches transcripts in a fixed language.
type Client struct {
	yt       *youtube.Client
	language string
	timeout  time.Duration
}

func NewClient(cfg *config.YouTubeConfig) *Client {
	return &Client{
		yt: &youtube.Client{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		},
		language: cfg.TranscriptLanguage,
		timeout:  cfg.Timeout,
	}
}

// Fetch returns the ordered caption segments for videoID. A disabled
// transcript is reported as ErrDisabled.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]Segment, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	video, err := c.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, classify(err)
	}

	raw, err := c.yt.GetTranscriptCtx(ctx, video, c.language)
	if err != nil {
		return nil, classify(err)
	}

	return fromProvider(raw), nil
}

func classify(err error) error {
	if IsDisabled(err) {
		return errors.Join(ErrDisabled, err)
	}
	return err
}

func fromProvider(raw youtube.VideoTranscript) []Segment {
	segments := make([]Segment, 0, len(raw))
	for _, s := range raw {
		segments = append(segments, Segment{
			Text:     s.Text,
			Offset:   s.StartMs,
			Duration: s.Duration,
		})
	}
	return segments
}
