package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/pkg/objectstore"
)

type MediaService struct {
	Media objectstore.Store
}

// UploadLink presigns an upload for a local file of the given media type.
func (s *MediaService) UploadLink(ctx context.Context, localFilename string, mediaType domain.MediaType, id string) (objectstore.RemoteUpload, error) {
	ext, err := extension(localFilename)
	if err != nil {
		return objectstore.RemoteUpload{}, err
	}
	return s.Media.UploadURL(ctx, ext, string(mediaType), id)
}

func extension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", ErrInvalidFilename
	}
	return ext, nil
}
