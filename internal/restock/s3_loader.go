package restock

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the slice of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for restock files stored in S3.
type s3Loader struct {
	client ObjectGetter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Loader creates an S3 loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3LoaderWithClient creates an S3 loader on an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket, prefix string, logger zerolog.Logger) Loader {
	logger = logger.With().Str("component", "s3-restock-loader").Logger()
	logger.Info().
		Str("bucket", bucket).
		Str("prefix", prefix).
		Msg("S3 loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Load reads prefix+name from the bucket.
func (l *s3Loader) Load(ctx context.Context, name string) (*Batch, error) {
	key := l.prefix + name
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading restock file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer func(body io.ReadCloser) { _ = body.Close() }(result.Body)

	batch, err := parse(ctx, "s3://"+l.bucket+"/"+key, result.Body)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("key", key).
		Int("lines", len(batch.Lines)).
		Int("invalid", len(batch.Invalid)).
		Msg("restock file loaded from S3")

	return batch, nil
}
