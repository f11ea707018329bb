package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dhis2-sre/campus-events/pkg/config"
)

// NewAWSS3Client creates an S3 client from the object storage configuration. A custom endpoint
// enables path style addressing so S3 compatible services like localstack work.
func NewAWSS3Client(ctx context.Context, c config.ObjectStorage) (*s3.Client, error) {
	options := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(c.Region)}
	if c.AccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Client(logger *slog.Logger, client AWSS3Client, uploader AWSS3Uploader, bucket string) *S3Client {
	return &S3Client{
		logger:   logger,
		client:   client,
		uploader: uploader,
		bucket:   bucket,
	}
}

// S3Client stores objects in a single S3 bucket.
type S3Client struct {
	logger   *slog.Logger
	client   AWSS3Client
	uploader AWSS3Uploader
	bucket   string
}

type AWSS3Client interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type AWSS3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

func (s S3Client) Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error {
	// the upload should complete even if the client goes away as the event is updated afterward
	ctx = context.WithoutCancel(ctx)

	s.logger.InfoContext(ctx, "Uploading", "bucket", s.bucket, "key", key, "size", size)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("error uploading object to bucket %q using key %q: %s", s.bucket, key, err)
	}
	return nil
}

func (s S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting object from bucket %q using key %q: %s", s.bucket, key, err)
	}
	return nil
}

func (s S3Client) Download(ctx context.Context, key string, dst io.Writer) error {
	object, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error downloading object from bucket %q using key %q: %s", s.bucket, key, err)
	}
	defer object.Body.Close()

	_, err = io.Copy(dst, object.Body)
	return err
}
