package inttest

import (
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/localstack"
	"github.com/stretchr/testify/require"
)

// SetupS3 starts S3 (using localstack). Every directory in path becomes a bucket holding the files
// in that directory.
func SetupS3(t *testing.T, path string) *S3Client {
	t.Helper()

	container, err := gnomock.Start(
		localstack.Preset(
			localstack.WithServices(localstack.S3),
			localstack.WithS3Files(path),
			localstack.WithVersion("2.1.0"),
		),
	)
	require.NoError(t, err, "failed to start S3")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop S3") })

	client := s3.New(s3.Options{
		Region:       "eu-west-1",
		BaseEndpoint: aws.String(fmt.Sprintf("http://%s/", container.Address(localstack.APIPort))),
		UsePathStyle: true,
	})

	return &S3Client{Client: client}
}

// S3Client wraps the S3 client the image store is tested against. Use it to look at what ended up
// in a bucket.
type S3Client struct {
	Client *s3.Client
}

func (sc *S3Client) GetObject(t *testing.T, bucket, key string) []byte {
	t.Helper()

	object, err := sc.Client.GetObject(t.Context(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	require.NoErrorf(t, err, "failed GET from S3 bucket %q and key %q", bucket, key)
	defer object.Body.Close()

	body, err := io.ReadAll(object.Body)
	require.NoErrorf(t, err, "failed to read object %q from S3 bucket %q", key, bucket)
	return body
}
