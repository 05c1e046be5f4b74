package publisher

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "CopperAnalytics/internal/config"
	"CopperAnalytics/internal/logger"
)

const uploadTimeout = 2 * time.Minute

// PutObjectAPI is the subset of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads the report and then the companion so a consumer that
// polls the companion never sees it ahead of the report body.
type S3Publisher struct {
	Client       PutObjectAPI
	Bucket       string
	ReportKey    string
	CompanionKey string
	Version      string

	log *logger.Entry
}

// NewS3Publisher builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS chain applies.
func NewS3Publisher(ctx context.Context, cfg appconfig.S3Config, reportName, companionName, version string) (*S3Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("s3 storage disabled")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &S3Publisher{
		Client:       client,
		Bucket:       cfg.Bucket,
		ReportKey:    ObjectKey(cfg.Prefix, reportName),
		CompanionKey: ObjectKey(cfg.Prefix, companionName),
		Version:      version,
		log:          logger.GetLogger().WithComponent("publisher"),
	}, nil
}

// ObjectKey joins prefix and the base name of file with forward slashes.
func ObjectKey(prefix, file string) string {
	return path.Join(prefix, path.Base(file))
}

func (p *S3Publisher) Name() string { return "s3://" + p.Bucket }

func (p *S3Publisher) Publish(ctx context.Context, report, companion []byte) error {
	if err := p.put(ctx, p.ReportKey, report); err != nil {
		return err
	}
	if err := p.put(ctx, p.CompanionKey, companion); err != nil {
		return err
	}
	if p.log != nil {
		p.log.WithFields(logger.Fields{
			"bucket":    p.Bucket,
			"report":    p.ReportKey,
			"companion": p.CompanionKey,
		}).Info("report published")
	}
	return nil
}

func (p *S3Publisher) put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"analysis-version": p.Version,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	if _, err := p.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
