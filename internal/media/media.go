// Package media stores user-uploaded images with a hosted provider.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20

var (
	ErrUploadsDisabled = errors.New("media uploads are not configured")
	ErrEmptyFile       = errors.New("file is empty")
	ErrNotImage        = errors.New("only image files are allowed")
	ErrTooLarge        = errors.New("file exceeds the 10 MiB limit")
)

// Object is a validated upload ready to be stored.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result describes a stored file.
type Result struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Store persists an object and returns where it can be fetched from.
type Store interface {
	Put(ctx context.Context, obj Object) (*Result, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService returns an upload service. A nil store disables uploads.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Upload validates r as an image of at most MaxUploadSize bytes and stores it.
func (s *Service) Upload(ctx context.Context, r io.Reader, fileName string) (*Result, error) {
	if s.store == nil {
		return nil, ErrUploadsDisabled
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmptyFile
	case len(data) > MaxUploadSize:
		return nil, ErrTooLarge
	}

	// SVG is markup and can carry scripts
	mt := mimetype.Detect(data)
	contentType := mt.String()
	if !strings.HasPrefix(contentType, "image/") || mt.Is("image/svg+xml") {
		return nil, ErrNotImage
	}

	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "." || name == "/" {
		name = "upload"
	}

	res, err := s.store.Put(ctx, Object{Name: name, ContentType: contentType, Data: data})
	if err != nil {
		s.logger.Error("store upload", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if res.Width == 0 || res.Height == 0 {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			res.Width, res.Height = cfg.Width, cfg.Height
		}
	}
	if res.Size == 0 {
		res.Size = int64(len(data))
	}
	return res, nil
}
