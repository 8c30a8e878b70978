package contracts

import (
	"context"
	"io"
	"medrecords-service/internal/app/models"
)

type BlobStorage interface {
	Put(ctx context.Context, path string, content io.Reader, size int64, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, *models.BlobInfo, error)
	MakePublic(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) error
}
