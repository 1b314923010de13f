package location

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/opencatalog/schemabridge/internal/errors"
)

// ProbeConfig holds configuration for the optional S3 location probe.
type ProbeConfig struct {
	// Region is the AWS region for the bucket.
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, ECS, LocalStack).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// Probe checks that an external location points at existing objects. It is
// advisory only: table creation proceeds regardless of the outcome, so a
// probe failure is reported to the caller for logging, never as a create
// failure.
type Probe struct {
	client *s3.Client
	log    *zap.Logger
}

// NewProbe creates a location probe from the ambient AWS configuration.
func NewProbe(ctx context.Context, cfg ProbeConfig, log *zap.Logger) (*Probe, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError("failed to load AWS config for location probe", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Probe{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		log:    log,
	}, nil
}

// NewProbeWithClient creates a probe with a pre-configured S3 client.
func NewProbeWithClient(client *s3.Client, log *zap.Logger) *Probe {
	return &Probe{client: client, log: log}
}

// Check lists at most one object under the source's bucket/prefix and logs
// a warning when the prefix is empty or the listing fails. The table
// create path continues either way.
func (p *Probe) Check(ctx context.Context, src Source) {
	prefix := strings.TrimPrefix(src.Prefix, "/")
	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(src.Bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		p.log.Warn("location probe failed",
			zap.String("bucket", src.Bucket),
			zap.String("prefix", src.Prefix),
			zap.Error(err))
		return
	}
	if out.KeyCount == nil || *out.KeyCount == 0 {
		p.log.Warn("external location has no objects",
			zap.String("bucket", src.Bucket),
			zap.String("prefix", src.Prefix))
	}
}
