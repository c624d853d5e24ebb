package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/playshelf/playshelf-api/pkg/config"
)

// ObjectStore persists game folders in an S3-compatible bucket. Finalize is a
// server-side copy from the staging prefix followed by removal of the staged
// objects, since object stores do not support renames.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewObjectStore connects to the configured endpoint and ensures the bucket exists.
func NewObjectStore(cfg config.ImportsConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.S3UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)
	}

	return &ObjectStore{client: client, bucket: cfg.S3Bucket, publicURL: publicURL}, nil
}

// Write uploads the bytes under the given object key.
func (s *ObjectStore) Write(ctx context.Context, relPath string, data []byte) error {
	key := normalizeKey(relPath)
	if key == "" {
		return fmt.Errorf("empty storage path")
	}
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Finalize copies every object from the staging prefix to the final prefix
// and removes the staged originals.
func (s *ObjectStore) Finalize(ctx context.Context, stagingDir, finalDir string) error {
	stagingPrefix := normalizeKey(stagingDir) + "/"
	finalPrefix := normalizeKey(finalDir) + "/"

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: stagingPrefix, Recursive: true}) {
		if object.Err != nil {
			return fmt.Errorf("list staging objects: %w", object.Err)
		}
		dstKey := finalPrefix + strings.TrimPrefix(object.Key, stagingPrefix)
		_, err := s.client.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
			minio.CopySrcOptions{Bucket: s.bucket, Object: object.Key},
		)
		if err != nil {
			return fmt.Errorf("copy object %s: %w", object.Key, err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove staged object %s: %w", object.Key, err)
		}
	}
	return nil
}

// RemoveAll deletes every object under the prefix.
func (s *ObjectStore) RemoveAll(ctx context.Context, dir string) error {
	prefix := normalizeKey(dir) + "/"
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return fmt.Errorf("list objects: %w", object.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", object.Key, err)
		}
	}
	return nil
}

// ResolveURL joins the segments under the bucket's public URL.
func (s *ObjectStore) ResolveURL(parts ...string) string {
	return s.publicURL + "/" + path.Join(parts...)
}

// ListStaging returns staging prefixes whose newest object precedes the cutoff.
func (s *ObjectStore) ListStaging(ctx context.Context, cutoff time.Time) ([]string, error) {
	latest := make(map[string]time.Time)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		segment, _, found := strings.Cut(object.Key, "/")
		if !found || !strings.HasSuffix(segment, StagingSuffix) {
			continue
		}
		if object.LastModified.After(latest[segment]) {
			latest[segment] = object.LastModified
		}
	}
	stale := make([]string, 0, len(latest))
	for prefix, modified := range latest {
		if modified.Before(cutoff) {
			stale = append(stale, prefix)
		}
	}
	return stale, nil
}

func normalizeKey(relPath string) string {
	return strings.Trim(path.Clean("/"+relPath), "/")
}
