package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/libadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportName(t *testing.T) {
	ts := time.Date(2024, time.May, 2, 13, 4, 5, 0, time.FixedZone("X", 3*3600))
	assert.Equal(t, "library-report-20240502T100405Z.json", ReportName(ts))
}

func TestFileExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	e := NewFileExporter(dir, logging.Discard())

	report := BuildReport(statsSnapshot(), statsNow)
	path, err := e.Export(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ReportName(statsNow)), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, report.Summary.Books, got.Summary.Books)
	assert.Equal(t, "4.75", got.OverdueFines.StringFixed(2))
	assert.Len(t, got.Overdue, 2)
}

type fakePutObject struct {
	in   *s3.PutObjectInput
	body []byte
	opts s3.Options
	err  error
}

func (f *fakePutObject) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func stubS3(t *testing.T, fake *fakePutObject, cfgErr error) {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		if cfgErr != nil {
			return aws.Config{}, cfgErr
		}
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		o := s3.Options{Region: cfg.Region, Credentials: cfg.Credentials}
		for _, fn := range optFns {
			fn(&o)
		}
		fake.opts = o
		return fake
	}
}

func TestS3Exporter_Export(t *testing.T) {
	fake := &fakePutObject{}
	stubS3(t, fake, nil)

	e := NewS3Exporter(S3Settings{
		Bucket:    "library",
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	}, logging.Discard())

	report := BuildReport(statsSnapshot(), statsNow)
	loc, err := e.Export(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "s3://library/reports/"+ReportName(statsNow), loc)

	require.NotNil(t, fake.in)
	assert.Equal(t, "library", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "reports/"+ReportName(statsNow), aws.ToString(fake.in.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.in.ContentType))
	assert.True(t, json.Valid(fake.body))

	assert.Equal(t, "eu-central-1", fake.opts.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(fake.opts.BaseEndpoint))
	assert.True(t, fake.opts.UsePathStyle)
	creds, err := fake.opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
}

func TestS3Exporter_DefaultEndpoint(t *testing.T) {
	fake := &fakePutObject{}
	stubS3(t, fake, nil)

	e := NewS3Exporter(S3Settings{Bucket: "b", Region: "us-east-1"}, logging.Discard())
	_, err := e.Export(context.Background(), Report{GeneratedAt: statsNow})
	require.NoError(t, err)
	assert.Nil(t, fake.opts.BaseEndpoint)
	assert.False(t, fake.opts.UsePathStyle)
}

func TestS3Exporter_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		stubS3(t, &fakePutObject{}, errors.New("no region"))
		_, err := NewS3Exporter(S3Settings{Bucket: "b"}, logging.Discard()).Export(context.Background(), Report{})
		assert.ErrorContains(t, err, "aws config")
	})

	t.Run("upload", func(t *testing.T) {
		stubS3(t, &fakePutObject{err: errors.New("access denied")}, nil)
		_, err := NewS3Exporter(S3Settings{Bucket: "b"}, logging.Discard()).Export(context.Background(), Report{})
		assert.ErrorContains(t, err, "upload report")
	})
}
