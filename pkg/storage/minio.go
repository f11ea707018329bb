package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient connects to MinIO and makes sure the configured bucket exists.
func NewMinioClient(ctx context.Context, logger *slog.Logger, c config.ObjectStorage) (*MinioClient, error) {
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	store := &MinioClient{logger: logger, client: client, bucket: c.Bucket}
	if err := store.ensureBucket(ctx, c.Region); err != nil {
		return nil, err
	}

	return store, nil
}

// MinioClient stores objects in a single MinIO bucket.
type MinioClient struct {
	logger *slog.Logger
	client *minio.Client
	bucket string
}

func (m MinioClient) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to look up bucket %q: %v", m.bucket, err)
	}
	if exists {
		return nil
	}

	m.logger.InfoContext(ctx, "Creating bucket", "bucket", m.bucket)
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %v", m.bucket, err)
	}
	return nil
}

func (m MinioClient) Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error {
	ctx = context.WithoutCancel(ctx)

	m.logger.InfoContext(ctx, "Uploading", "bucket", m.bucket, "key", key, "size", size)
	_, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("error uploading object to bucket %q using key %q: %s", m.bucket, key, err)
	}
	return nil
}

func (m MinioClient) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("error deleting object from bucket %q using key %q: %s", m.bucket, key, err)
	}
	return nil
}

func (m MinioClient) Download(ctx context.Context, key string, dst io.Writer) error {
	object, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("error downloading object from bucket %q using key %q: %s", m.bucket, key, err)
	}
	defer object.Close()

	_, err = io.Copy(dst, object)
	return err
}

// Object describes a stored object.
type Object struct {
	Key  string
	Size int64
}

// List returns the objects whose key starts with prefix.
func (m MinioClient) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("error listing bucket %q using prefix %q: %s", m.bucket, prefix, info.Err)
		}
		objects = append(objects, Object{Key: info.Key, Size: info.Size})
	}
	return objects, nil
}
