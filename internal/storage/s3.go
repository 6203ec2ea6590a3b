package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/plyometrics/forcecloud/internal/common"
)

const s3Prefix = "s3://"

// Environment overrides for S3-compatible endpoints (MinIO and friends).
// When unset, the SDK's default region/credential chain applies.
const (
	envS3Endpoint  = "FORCECLOUD_S3_ENDPOINT"
	envS3Region    = "FORCECLOUD_S3_REGION"
	envS3AccessKey = "FORCECLOUD_S3_ACCESS_KEY"
	envS3SecretKey = "FORCECLOUD_S3_SECRET_KEY"
)

func isS3Path(path string) bool {
	return strings.HasPrefix(path, s3Prefix)
}

func parseS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Prefix)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: s3 path must be s3://bucket/key, got %q", common.ErrConfig, path)
	}
	return bucket, key, nil
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv(envS3Region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if ak := os.Getenv(envS3AccessKey); ak != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, os.Getenv(envS3SecretKey), "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv(envS3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func uploadS3(ctx context.Context, localPath, s3Path string) error {
	bucket, key, err := parseS3Path(s3Path)
	if err != nil {
		return err
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", s3Path, err)
	}
	return nil
}

func downloadS3(ctx context.Context, s3Path, localPath string) error {
	bucket, key, err := parseS3Path(s3Path)
	if err != nil {
		return err
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("download %s: %w", s3Path, err)
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
