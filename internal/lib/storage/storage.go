// Package storage persists uploaded resume files.
//
// Files are validated (size, sniffed MIME type) and written to
// <owner>/<uuid><ext> on either a local directory or an SFTP server.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("file type is not supported")
	ErrInvalidOwner    = errors.New("invalid file owner")
)

// FileStore saves data on behalf of owner and returns the stored path.
type FileStore interface {
	Save(ctx context.Context, owner string, data []byte) (string, error)
}

// allowedTypes maps accepted MIME types to the extension used on disk.
var allowedTypes = []struct {
	mime string
	ext  string
}{
	{"application/pdf", ".pdf"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
	{"application/msword", ".doc"},
	{"application/x-ole-storage", ".doc"},
	{"text/plain", ".txt"},
}

// New returns the FileStore selected by cfg.Backend.
func New(cfg *config.StorageConfig, logger *zerolog.Logger) (FileStore, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal:
		return NewLocalStore(cfg.LocalDir, cfg.MaxFileBytes, logger), nil
	case config.StorageBackendSFTP:
		return NewSFTPStore(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// objectName validates data and returns the relative path it should be stored at.
func objectName(owner string, data []byte, maxBytes int64) (string, error) {
	owner, err := sanitizeOwner(owner)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	ext, err := extensionFor(data)
	if err != nil {
		return "", err
	}

	return path.Join(owner, uuid.NewString()+ext), nil
}

func extensionFor(data []byte) (string, error) {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedTypes {
		if detected.Is(allowed.mime) {
			return allowed.ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, detected.String())
}

// sanitizeOwner keeps the owner usable as a single directory name.
func sanitizeOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	owner = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, owner)

	if owner == "" || owner == "." || owner == ".." {
		return "", ErrInvalidOwner
	}
	return owner, nil
}
