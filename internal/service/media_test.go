package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/coursegen/internal/errs"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "https://via.placeholder.com/150"

func newMediaService(images ImageSearcher, videos VideoSearcher, transcripts TranscriptFetcher) *MediaService {
	return NewMediaService(images, videos, transcripts, nil, placeholder, nopLogger())
}

func TestImageURLReturnsFirstResult(t *testing.T) {
	images := &fakeImages{url: "https://images.example.com/go.jpg"}
	svc := newMediaService(images, nil, nil)

	assert.Equal(t, "https://images.example.com/go.jpg", svc.ImageURL(context.Background(), "golang"))
	assert.Equal(t, 1, images.opts.PerPage)
}

func TestImageURLFallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name   string
		images *fakeImages
	}{
		{"provider error", &fakeImages{err: errors.New("rate limited")}},
		{"no results", &fakeImages{err: unsplash.ErrNoResults}},
		{"empty url", &fakeImages{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMediaService(tt.images, nil, nil)
			assert.Equal(t, placeholder, svc.ImageURL(context.Background(), "golang"))
		})
	}
}

func TestVideoID(t *testing.T) {
	svc := newMediaService(nil, &fakeVideos{id: "dQw4w9WgXcQ"}, nil)

	id, err := svc.VideoID(context.Background(), "golang tutorial")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

func TestVideoIDProviderFailureIs500(t *testing.T) {
	svc := newMediaService(nil, &fakeVideos{err: errors.New("quota")}, nil)

	_, err := svc.VideoID(context.Background(), "golang tutorial")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestTranscript(t *testing.T) {
	segments := []transcript.Segment{{Text: "hello", Offset: 0, Duration: 1500}}

	tests := []struct {
		name       string
		fetcher    *fakeTranscripts
		wantStatus int
		wantMsg    string
	}{
		{"segments", &fakeTranscripts{segments: segments}, http.StatusOK, ""},
		{"empty", &fakeTranscripts{}, http.StatusNotFound, "Transcript is disabled or not available for this video."},
		{"typed disabled", &fakeTranscripts{err: transcript.ErrDisabled}, http.StatusForbidden, "Transcript is disabled on this video."},
		{"phrase disabled", &fakeTranscripts{err: errors.New("Transcripts are disabled for this video")}, http.StatusForbidden, "Transcript is disabled on this video."},
		{"other failure", &fakeTranscripts{err: errors.New("connection reset")}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMediaService(nil, nil, tt.fetcher)

			got, err := svc.Transcript(context.Background(), "abc123")
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, segments, got)
				return
			}

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, httpErr.Message)
			}
		})
	}
}
