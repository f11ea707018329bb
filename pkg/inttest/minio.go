package inttest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/dhis2-sre/campus-events/pkg/storage"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	minioContainer "github.com/testcontainers/testcontainers-go/modules/minio"
)

// SetupMinio creates a MinIO container with the given bucket and returns a client storing objects
// in it.
func SetupMinio(t *testing.T, bucket string) *storage.MinioClient {
	t.Helper()
	ctx := context.TODO()

	container, err := minioContainer.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container), "failed to terminate MinIO")
	})
	require.NoError(t, err, "failed to start MinIO")

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get MinIO endpoint")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := storage.NewMinioClient(ctx, logger, config.ObjectStorage{
		Bucket:    bucket,
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
	})
	require.NoError(t, err, "failed to create MinIO client")
	return client
}
