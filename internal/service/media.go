package service

import (
	"context"
	"errors"

	"github.com/deppfellow/coursegen/internal/errs"
	"github.com/deppfellow/coursegen/internal/lib/cache"
	"github.com/deppfellow/coursegen/internal/lib/transcript"
	"github.com/deppfellow/coursegen/internal/lib/unsplash"
	"github.com/rs/zerolog"
)

const (
	msgTranscriptUnavailable = "Transcript is disabled or not available for this video."
	msgTranscriptDisabled    = "Transcript is disabled on this video."
)

// MediaService looks up images, videos and transcripts for course content.
type MediaService struct {
	images         ImageSearcher
	videos         VideoSearcher
	transcripts    TranscriptFetcher
	cache          *cache.MediaCache
	placeholderURL string
	logger         *zerolog.Logger
}

// NewMediaService wires the media providers. mediaCache may be nil.
func NewMediaService(
	images ImageSearcher,
	videos VideoSearcher,
	transcripts TranscriptFetcher,
	mediaCache *cache.MediaCache,
	placeholderURL string,
	logger *zerolog.Logger,
) *MediaService {
	return &MediaService{
		images:         images,
		videos:         videos,
		transcripts:    transcripts,
		cache:          mediaCache,
		placeholderURL: placeholderURL,
		logger:         logger,
	}
}

// ImageURL never fails: the placeholder stands in for any lookup problem.
func (s *MediaService) ImageURL(ctx context.Context, query string) string {
	logger := requestLogger(ctx, s.logger)

	if url, ok := s.cached(ctx, cache.KindImage, query); ok {
		return url
	}

	url, err := s.images.FirstImageURL(ctx, query, unsplash.SearchOptions{PerPage: 1})
	if err != nil || url == "" {
		if err != nil && !errors.Is(err, unsplash.ErrNoResults) {
			logger.Warn().Err(err).Str("query", query).Msg("image search failed, using placeholder")
		}
		return s.placeholderURL
	}

	s.store(ctx, cache.KindImage, query, url)
	return url
}

// VideoID returns the id of the first search result.
func (s *MediaService) VideoID(ctx context.Context, query string) (string, error) {
	if id, ok := s.cached(ctx, cache.KindVideo, query); ok {
		return id, nil
	}

	id, err := s.videos.FirstVideoID(ctx, query)
	if err != nil {
		requestLogger(ctx, s.logger).Error().Err(err).Str("query", query).Msg("video search failed")
		return "", errs.NewServiceError("Internal server error", "VIDEO_SEARCH_FAILED")
	}

	s.store(ctx, cache.KindVideo, query, id)
	return id, nil
}

// Transcript fetches caption segments for videoID.
func (s *MediaService) Transcript(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	segments, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		if transcript.IsDisabled(err) {
			return nil, errs.NewForbiddenError(msgTranscriptDisabled, true)
		}
		requestLogger(ctx, s.logger).Error().Err(err).Str("video_id", videoID).Msg("transcript fetch failed")
		return nil, errs.NewServiceError("Internal server error", "TRANSCRIPT_FAILED")
	}

	if len(segments) == 0 {
		return nil, errs.NewNotFoundError(msgTranscriptUnavailable, true, nil)
	}

	return segments, nil
}

func (s *MediaService) cached(ctx context.Context, kind, query string) (string, bool) {
	value, ok, err := s.cache.Get(ctx, kind, query)
	if err != nil {
		requestLogger(ctx, s.logger).Warn().Err(err).Str("kind", kind).Msg("media cache read failed")
		return "", false
	}
	return value, ok
}

func (s *MediaService) store(ctx context.Context, kind, query, value string) {
	if err := s.cache.Set(ctx, kind, query, value); err != nil {
		requestLogger(ctx, s.logger).Warn().Err(err).Str("kind", kind).Msg("media cache write failed")
	}
}
