package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/deppfellow/coursegen/internal/errs"
	"github.com/deppfellow/coursegen/internal/lib/storage"
	"github.com/deppfellow/coursegen/internal/model"
	"github.com/deppfellow/coursegen/internal/repository"
	"github.com/deppfellow/coursegen/internal/sqlerr"
	"github.com/rs/zerolog"
)

type ResumeService struct {
	repo   repository.ResumeRepository
	files  storage.FileStore
	logger *zerolog.Logger
}

func NewResumeService(repo repository.ResumeRepository, files storage.FileStore, logger *zerolog.Logger) *ResumeService {
	return &ResumeService{repo: repo, files: files, logger: logger}
}

// CreateResume stores resume. A second resume for the same uid surfaces as
// the driver's unique violation and is answered with 409.
func (s *ResumeService) CreateResume(ctx context.Context, resume *model.Resume) error {
	if err := s.repo.CreateResume(ctx, resume); err != nil {
		return err
	}

	requestLogger(ctx, s.logger).Info().Str("resume_id", resume.ID).Str("uid", resume.UID).Msg("resume created")
	return nil
}

func (s *ResumeService) GetResume(ctx context.Context, uid string) (*model.Resume, error) {
	resume, err := s.repo.GetResumeByUID(ctx, uid)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return nil, errs.NewNotFoundError("No resume found for this user", true, nil)
		}
		return nil, err
	}
	return resume, nil
}

// UploadResume decodes a base64 file (a data URL prefix is tolerated) and
// stores it for owner. It returns the stored path.
func (s *ResumeService) UploadResume(ctx context.Context, owner, blob string) (string, error) {
	data, err := decodeBlob(blob)
	if err != nil {
		code := "RESUME_FILE_INVALID"
		return "", errs.NewBadRequestError("Resume file must be base64 encoded", true, &code, nil, nil)
	}

	path, err := s.files.Save(ctx, owner, data)
	if err != nil {
		return "", s.uploadError(ctx, owner, err)
	}

	requestLogger(ctx, s.logger).Info().
		Str("owner", owner).
		Str("path", path).
		Int("size_bytes", len(data)).
		Msg("resume file stored")

	return path, nil
}

func (s *ResumeService) uploadError(ctx context.Context, owner string, err error) error {
	switch {
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrInvalidOwner):
		return errs.NewBadRequestError(capitalize(err.Error()), true, nil, nil, nil)
	case errors.Is(err, storage.ErrTooLarge):
		return errs.NewRequestEntityTooLargeError("Resume file exceeds the maximum allowed size")
	case errors.Is(err, storage.ErrUnsupportedType):
		return errs.NewUnsupportedMediaTypeError("Resume file must be a PDF, Word document or plain text")
	}

	requestLogger(ctx, s.logger).Error().Err(err).Str("owner", owner).Msg("failed to store resume file")
	return errs.NewServiceError("Failed to upload resume file", "RESUME_UPLOAD_FAILED")
}

func decodeBlob(blob string) ([]byte, error) {
	blob = strings.TrimSpace(blob)
	if strings.HasPrefix(blob, "data:") {
		if idx := strings.Index(blob, ";base64,"); idx >= 0 {
			blob = blob[idx+len(";base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(blob)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
