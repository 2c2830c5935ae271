package upload

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/bookwormhq/bookworm-api/pkg/helpers"
)

// ObjectStorage is the remote store the pipeline pushes staged files to.
// Upload returns the durable secure retrieval URL; Delete takes the logical
// object path derived back from such a URL.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// GCSStorage stores objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	Client *storage.Client
	Bucket string
}

func NewGCSStorage(client *storage.Client, bucket string) *GCSStorage {
	return &GCSStorage{Client: client, Bucket: bucket}
}

func (s *GCSStorage) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

func (s *GCSStorage) Delete(ctx context.Context, objectPath string) error {
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, objectPath)
}

var _ ObjectStorage = (*GCSStorage)(nil)
