package storage

import (
	"context"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// LocalStore writes files below a root directory.
type LocalStore struct {
	fs       afero.Fs
	root     string
	maxBytes int64
	logger   *zerolog.Logger
}

// NewLocalStore stores files on the OS filesystem under root.
func NewLocalStore(root string, maxBytes int64, logger *zerolog.Logger) *LocalStore {
	return NewLocalStoreWithFs(afero.NewOsFs(), root, maxBytes, logger)
}

// NewLocalStoreWithFs stores files on fs, confined to root.
func NewLocalStoreWithFs(fs afero.Fs, root string, maxBytes int64, logger *zerolog.Logger) *LocalStore {
	return &LocalStore{
		fs:       afero.NewBasePathFs(fs, root),
		root:     root,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *LocalStore) Save(ctx context.Context, owner string, data []byte) (string, error) {
	name, err := objectName(owner, data, s.maxBytes)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory for %s", name)
	}

	if err := afero.WriteFile(s.fs, name, data, os.FileMode(0o644)); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", name)
	}

	stored := path.Join(s.root, name)
	s.logger.Info().Str("path", stored).Int("bytes", len(data)).Msg("file stored")

	return stored, nil
}
