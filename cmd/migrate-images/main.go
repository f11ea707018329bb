// Moves event images from MinIO to S3 and points the events at the new public URL. Used when
// switching OBJECT_STORE from minio to s3. Run with -dry-run first to see what would be copied.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/storage"
	"gorm.io/gorm"
)

var errDryRun = errors.New("dry run rollback")

const imagePrefix = "events/"

func main() {
	dryRun := flag.Bool("dry-run", false, "Log planned copies and do not write anything")
	flag.Parse()

	logger := slog.Default()
	ctx := context.Background()

	source, err := storage.NewMinioClient(ctx, logger, config.ObjectStorage{
		Bucket:    getEnv("MINIO_BUCKET", "event-images"),
		Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
	})
	if err != nil {
		logger.Error("minio client setup", "error", err)
		os.Exit(1)
	}

	target := config.ObjectStorage{
		Bucket: getEnv("S3_BUCKET", ""),
		Region: getEnv("S3_REGION", "eu-west-1"),
	}
	if target.Bucket == "" {
		fmt.Fprintf(os.Stderr, "missing S3_BUCKET\n")
		os.Exit(1)
	}
	awsClient, err := storage.NewAWSS3Client(ctx, target)
	if err != nil {
		logger.Error("s3 client setup", "error", err)
		os.Exit(1)
	}
	s3Client := storage.NewS3Client(logger, awsClient, manager.NewUploader(awsClient), target.Bucket)

	copied, err := copyImages(ctx, logger, source, s3Client, *dryRun)
	if err != nil {
		logger.Error("copy failed", "error", err)
		os.Exit(1)
	}
	logger.Info("images copied", "count", copied, "dryRun", *dryRun)

	from, to := getEnv("MINIO_PUBLIC_URL", ""), getEnv("S3_PUBLIC_URL", "")
	if from == "" || to == "" {
		logger.Warn("MINIO_PUBLIC_URL or S3_PUBLIC_URL not set, event image URLs left untouched")
		return
	}

	db, err := openDB(logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	updated, err := rewriteImageURLs(db, from, to, *dryRun)
	if err != nil && !errors.Is(err, errDryRun) {
		logger.Error("failed to rewrite image URLs", "error", err)
		os.Exit(1)
	}
	logger.Info("image URLs rewritten", "events", updated, "from", from, "to", to, "dryRun", *dryRun)
}

type source interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Download(ctx context.Context, key string, dst io.Writer) error
}

type target interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
}

// copyImages copies every event image keeping its key. Images are small enough to be buffered.
func copyImages(ctx context.Context, logger *slog.Logger, src source, dst target, dryRun bool) (int, error) {
	objects, err := src.List(ctx, imagePrefix)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, object := range objects {
		if dryRun {
			logger.Info("would copy", "key", object.Key, "size", object.Size)
			copied++
			continue
		}

		var buffer bytes.Buffer
		if err := src.Download(ctx, object.Key, &buffer); err != nil {
			return copied, err
		}

		contentType := mime.TypeByExtension(path.Ext(object.Key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		if err := dst.Upload(ctx, object.Key, contentType, &buffer, int64(buffer.Len())); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func rewriteImageURLs(db *gorm.DB, from, to string, dryRun bool) (int64, error) {
	var updated int64
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Event{}).
			Where("image_url LIKE ?", from+"%").
			Update("image_url", gorm.Expr("REPLACE(image_url, ?, ?)", from, to))
		if result.Error != nil {
			return result.Error
		}
		updated = result.RowsAffected

		if dryRun {
			return errDryRun
		}
		return nil
	})
	return updated, err
}

func openDB(logger *slog.Logger) (*gorm.DB, error) {
	host := getEnv("DATABASE_HOST", "")
	username := getEnv("DATABASE_USERNAME", "")
	name := getEnv("DATABASE_NAME", "")
	if host == "" || username == "" || name == "" {
		return nil, fmt.Errorf("set DATABASE_HOST, DATABASE_USERNAME, DATABASE_NAME (and DATABASE_PASSWORD, DATABASE_PORT)")
	}

	port, _ := strconv.Atoi(getEnv("DATABASE_PORT", "5432"))
	if port == 0 {
		port = 5432
	}

	return storage.NewDatabase(logger, config.Postgresql{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     getEnv("DATABASE_PASSWORD", ""),
		DatabaseName: name,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
