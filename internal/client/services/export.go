package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/libadmin/internal/filex"
	"github.com/dmitrijs2005/libadmin/internal/logging"
)

// Exporter archives a statistics report and returns where it went.
type Exporter interface {
	Export(ctx context.Context, r Report) (string, error)
}

// ReportName is the object/file name for a report generated at t.
func ReportName(t time.Time) string {
	return "library-report-" + t.UTC().Format("20060102T150405Z") + ".json"
}

func encodeReport(r Report) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return b, nil
}

// FileExporter writes reports into a local directory.
type FileExporter struct {
	dir string
	log logging.Logger
}

func NewFileExporter(dir string, log logging.Logger) *FileExporter {
	return &FileExporter{dir: dir, log: log}
}

func (e *FileExporter) Export(ctx context.Context, r Report) (string, error) {
	dir, err := filex.EnsureDir(e.dir)
	if err != nil {
		return "", err
	}
	b, err := encodeReport(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ReportName(r.GeneratedAt))
	if err := filex.WriteFileAtomic(path, b, 0o640); err != nil {
		return "", err
	}
	e.log.Info(ctx, "report written", "path", path)
	return path, nil
}

// S3Settings configure the object storage target.
type S3Settings struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Exporter uploads reports to an S3-compatible bucket (AWS or MinIO).
type S3Exporter struct {
	cfg S3Settings
	log logging.Logger
}

func NewS3Exporter(cfg S3Settings, log logging.Logger) *S3Exporter {
	return &S3Exporter{cfg: cfg, log: log}
}

func (e *S3Exporter) client(ctx context.Context) (putObjectAPI, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.cfg.Region)}
	if e.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(e.cfg.AccessKey, e.cfg.SecretKey, ""),
		))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (e *S3Exporter) Export(ctx context.Context, r Report) (string, error) {
	b, err := encodeReport(r)
	if err != nil {
		return "", err
	}
	c, err := e.client(ctx)
	if err != nil {
		return "", err
	}

	key := "reports/" + ReportName(r.GeneratedAt)
	_, err = c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", e.cfg.Bucket, key)
	e.log.Info(ctx, "report uploaded", "location", location)
	return location, nil
}
