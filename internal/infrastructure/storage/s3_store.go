package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"

	"invoice-dashboard/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client the store calls.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ S3API = (*s3.Client)(nil)

// S3AssetStore keeps images in an S3 compatible bucket under the customers/
// prefix. References have the same shape as the local store so image_url does
// not depend on the driver.
type S3AssetStore struct {
	client S3API
	bucket string
	logger *slog.Logger
}

var _ Store = (*S3AssetStore)(nil)

func NewS3AssetStore(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*S3AssetStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewS3AssetStoreWithClient(client, cfg.Bucket, logger), nil
}

func NewS3AssetStoreWithClient(client S3API, bucket string, logger *slog.Logger) *S3AssetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3AssetStore{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "S3AssetStore", "bucket", bucket),
	}
}

func (s *S3AssetStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	name := newAssetName(filename)
	key := path.Join(assetDir, name)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		IfNoneMatch:   aws.String("*"),
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload asset %s: %w", key, err)
	}

	ref := refFor(name)
	s.logger.DebugContext(ctx, "Uploaded asset", slog.String("ref", ref), slog.Int("bytes", len(data)))
	return ref, nil
}

func (s *S3AssetStore) Remove(ctx context.Context, ref string) error {
	name, err := nameFromRef(ref)
	if err != nil {
		return err
	}
	key := path.Join(assetDir, name)

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Deleted asset", slog.String("ref", ref))
	return nil
}

func (s *S3AssetStore) List(ctx context.Context) ([]Asset, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(assetDir + "/"),
	})

	assets := make([]Asset, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), assetDir+"/")
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			assets = append(assets, Asset{Ref: refFor(name), ModTime: aws.ToTime(obj.LastModified)})
		}
	}
	return assets, nil
}
