package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

type minioConfig struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	UseSSL    bool   `json:"use_ssl"`
}

type minioStore struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	initOnce sync.Once
	initErr  error
}

func init() {
	Register("minio", createMinioStore)
}

func createMinioStore(args interface{}) (Store, error) {
	config := &minioConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	endpoint := strings.TrimSpace(config.Endpoint)
	if endpoint == "" || config.Bucket == "" || config.AccessKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("minio endpoint/bucket/access_key/secret_key are required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &minioStore{
		client: client,
		bucket: config.Bucket,
		region: config.Region,
		prefix: strings.Trim(config.Prefix, "/"),
	}, nil
}

func (s *minioStore) Type() string {
	return "minio"
}

func (s *minioStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *minioStore) objectKey(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return cleaned, nil
	}
	return path.Join(s.prefix, cleaned), nil
}

func (s *minioStore) Save(ctx context.Context, key string, r io.Reader, size int64) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return "s3://" + s.bucket + "/" + objectKey, nil
}

func (s *minioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(objectKey, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller streams.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.mapError(objectKey, err)
	}
	return obj, nil
}

func (s *minioStore) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return s.mapError(objectKey, err)
	}
	return nil
}

func (s *minioStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return 0, fmt.Errorf("ensure bucket: %w", err)
	}
	opts := minio.ListObjectsOptions{Recursive: true}
	if s.prefix != "" {
		opts.Prefix = s.prefix + "/"
	}
	removed := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return removed, fmt.Errorf("list objects: %w", obj.Err)
		}
		if obj.Key == "" || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove object %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}

func (s *minioStore) mapError(objectKey string, err error) error {
	code := minio.ToErrorResponse(err).Code
	if code == "NoSuchKey" || code == "NoSuchBucket" {
		return fmt.Errorf("object %s: %w", objectKey, appErr.ErrNotFound)
	}
	return fmt.Errorf("object %s: %w", objectKey, err)
}
