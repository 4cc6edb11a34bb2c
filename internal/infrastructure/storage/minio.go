package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"contest-entry/internal/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Blob identifies an object written by Upload.
type Blob struct {
	Key string
	URL string
}

type Object struct {
	Key          string
	ContentType  string
	Size         int64
	LastModified time.Time
}

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	Region        string
	PublicBaseURL string

	// MaxRetries caps attempts per request; zero keeps the minio-go default.
	MaxRetries int
}

// MinioStore writes submission files to an S3-compatible bucket.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewMinioStore(opts Options) (*MinioStore, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:     opts.UseSSL,
		Region:     opts.Region,
		MaxRetries: opts.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	base := opts.PublicBaseURL
	if base == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + opts.Endpoint
	}
	return &MinioStore{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		now:     time.Now,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload streams data to a fresh key with a public-read ACL.
func (s *MinioStore) Upload(ctx context.Context, data []byte, fileName, mimeType string) (Blob, error) {
	key := ObjectKey(fileName, s.now())
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return Blob{}, fmt.Errorf("%w: put %s: %v", domain.ErrUpload, key, err)
	}
	return Blob{Key: key, URL: s.URL(key)}, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) Stat(ctx context.Context, key string) (Object, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return Object{}, domain.ErrNotFound
		}
		return Object{}, err
	}
	return toObject(info), nil
}

// List returns every object last modified before cutoff.
func (s *MinioStore) List(ctx context.Context, before time.Time) ([]Object, error) {
	var out []Object
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, info.Err
		}
		if info.LastModified.Before(before) {
			out = append(out, toObject(info))
		}
	}
	return out, nil
}

// URL is the deterministic public location of key.
func (s *MinioStore) URL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

func toObject(info minio.ObjectInfo) Object {
	return Object{
		Key:          info.Key,
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}
}
