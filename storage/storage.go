// Package storage persists report images under generated names.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andreicopos/UrbanEye/config"
)

var (
	ErrExists      = errors.New("blob already exists")
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidName = errors.New("invalid blob name")
)

// Object is an opened blob.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore writes each name at most once. Names are generated per request,
// so writers never race on the same key.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by BLOB_DRIVER.
func New(ctx context.Context, c *config.Config) (BlobStore, error) {
	switch c.BlobDriver {
	case config.BlobDriverLocal:
		return NewLocalStore(c.ImagesDir)
	case config.BlobDriverS3:
		return NewS3Store(ctx, S3Options{
			Bucket:          c.AWSBucket,
			Region:          c.AWSRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
			EndpointURL:     c.AWSEndpointURL,
		})
	case config.BlobDriverMinio:
		return NewMinioStore(ctx, MinioOptions{
			Endpoint:  c.MinioEndpoint,
			AccessKey: c.MinioAccessKey,
			SecretKey: c.MinioSecretKey,
			Bucket:    c.MinioBucket,
			Region:    c.AWSRegion,
			UseSSL:    c.MinioUseSSL,
		})
	}
	return nil, fmt.Errorf("unknown blob driver %q", c.BlobDriver)
}

// CleanName rejects names that would escape the store's namespace.
func CleanName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	if path.Clean(name) != name {
		return "", ErrInvalidName
	}
	return name, nil
}
