package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorageService stores artifacts in a Google Cloud Storage bucket
// accessed through the Firebase Admin SDK.
type GCSStorageService struct {
	bucket *gcs.BucketHandle
}

func NewGCSStorageService(ctx context.Context, bucketName, credentialsFile string) (*GCSStorageService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bucket %q: %w", bucketName, err)
	}

	return &GCSStorageService{bucket: bucket}, nil
}

func (s *GCSStorageService) Save(ctx context.Context, key, contentType string, reader io.Reader) (int64, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, reader)
	if err != nil {
		w.Close()
		return n, fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("failed to finalize object: %w", err)
	}
	return n, nil
}

func (s *GCSStorageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return r, nil
}

func (s *GCSStorageService) Exists(ctx context.Context, key string) (bool, int64, error) {
	attrs, err := s.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, attrs.Size, nil
}

func (s *GCSStorageService) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *GCSStorageService) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	url, err := s.bucket.SignedURL(key, &gcs.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiresIn),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL: %w", err)
	}
	return url, nil
}

func (s *GCSStorageService) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	it := s.bucket.Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}
