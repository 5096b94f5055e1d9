package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink writes a serialized chunking result somewhere durable. Local
// writes are always attempted first; a non-empty S3Bucket additionally
// uploads the same bytes.
type Sink struct {
	S3Bucket string
	S3Key    string
	S3Region string
}

// WriteLocal writes data to path with 0644 permissions, matching the
// permissive, uncomplicated file writes the teacher's own output
// helpers use.
func (s *Sink) WriteLocal(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

// WriteS3 uploads data to s.S3Bucket/s.S3Key, making at most 3
// attempts in all; any failed attempt is retried, after a delay that
// starts at 500ms and grows under retry-go's default backoff, mirroring
// the retry pattern the pack uses elsewhere for flaky I/O.
func (s *Sink) WriteS3(ctx context.Context, data []byte) error {
	if s.S3Bucket == "" {
		return nil
	}

	region := s.S3Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("output: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	return retry.Do(
		func() error {
			_, err := client.PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(s.S3Bucket),
				Key:    aws.String(s.S3Key),
				Body:   bytes.NewReader(data),
			})
			if err != nil {
				return fmt.Errorf("output: put object %s/%s: %w", s.S3Bucket, s.S3Key, err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
}
