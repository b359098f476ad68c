package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrHostKeyUnverified is returned when neither a known_hosts file nor the
// insecure opt-in is configured.
var ErrHostKeyUnverified = errors.New("sftp: known_hosts file is required unless insecure host key mode is enabled")

// SFTPStore uploads files to a remote directory over SFTP. Each Save opens
// its own connection.
type SFTPStore struct {
	cfg    config.StorageConfig
	sshCfg *ssh.ClientConfig
	logger *zerolog.Logger
}

// NewSFTPStore fails when the server host key cannot be verified.
func NewSFTPStore(cfg *config.StorageConfig, logger *zerolog.Logger) (*SFTPStore, error) {
	c := *cfg
	if c.SFTPPort <= 0 {
		c.SFTPPort = 22
	}
	if c.SFTPDir == "" {
		c.SFTPDir = "/"
	}

	sshCfg, err := clientConfig(&c, logger)
	if err != nil {
		return nil, err
	}

	return &SFTPStore{cfg: c, sshCfg: sshCfg, logger: logger}, nil
}

func clientConfig(cfg *config.StorageConfig, logger *zerolog.Logger) (*ssh.ClientConfig, error) {
	var callback ssh.HostKeyCallback
	switch {
	case cfg.SFTPKnownHostsFile != "":
		cb, err := knownhosts.New(cfg.SFTPKnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("sftp: load known_hosts %s: %w", cfg.SFTPKnownHostsFile, err)
		}
		callback = cb
	case cfg.SFTPInsecureIgnoreHostKey:
		logger.Warn().Str("host", cfg.SFTPHost).Msg("sftp host key verification is disabled")
		callback = ssh.InsecureIgnoreHostKey()
	default:
		return nil, ErrHostKeyUnverified
	}

	return &ssh.ClientConfig{
		User:            cfg.SFTPUser,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.SFTPPassword)},
		HostKeyCallback: callback,
		Timeout:         cfg.Timeout,
	}, nil
}

func (s *SFTPStore) Save(ctx context.Context, owner string, data []byte) (string, error) {
	name, err := objectName(owner, data, s.cfg.MaxFileBytes)
	if err != nil {
		return "", err
	}

	sshClient, err := s.dial(ctx)
	if err != nil {
		return "", err
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return "", fmt.Errorf("sftp: new client: %w", err)
	}
	defer client.Close()

	remotePath := path.Join(s.cfg.SFTPDir, name)
	if err := client.MkdirAll(path.Dir(remotePath)); err != nil {
		return "", fmt.Errorf("sftp: mkdir %s: %w", path.Dir(remotePath), err)
	}

	dst, err := client.Create(remotePath)
	if err != nil {
		return "", fmt.Errorf("sftp: create remote file: %w", err)
	}
	if err := writeAndClose(dst, data); err != nil {
		return "", err
	}

	s.logger.Info().Str("path", remotePath).Int("bytes", len(data)).Msg("file uploaded over sftp")

	return remotePath, nil
}

// writeAndClose returns the close error too: pending writes are flushed
// on Close.
func writeAndClose(dst io.WriteCloser, data []byte) error {
	if _, err := dst.Write(data); err != nil {
		_ = dst.Close()
		return fmt.Errorf("sftp: upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp: close remote file: %w", err)
	}
	return nil
}

// dial connects honoring ctx cancellation; ssh.Dial itself has no context.
func (s *SFTPStore) dial(ctx context.Context) (*ssh.Client, error) {
	addr := net.JoinHostPort(s.cfg.SFTPHost, strconv.Itoa(s.cfg.SFTPPort))

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, s.sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}
