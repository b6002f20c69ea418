package publish

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultCacheControl is sent with every published page.
const DefaultCacheControl = "no-cache"

// ErrNoCredentials is returned when the environment holds no AWS keys.
var ErrNoCredentials = stderrors.New("publish: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")

// Target is a parsed s3:// destination.
type Target struct {
	Bucket string
	Key    string
}

// String returns the target as an s3:// URL.
func (t Target) String() string {
	return "s3://" + t.Bucket + "/" + t.Key
}

// ParseTarget parses s3://bucket/key. A key ending in "/" gets
// "index.html" appended.
func ParseTarget(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Target{}, stderrors.New("publish: target must look like s3://bucket/key")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key += "index.html"
	}
	return Target{Bucket: u.Host, Key: key}, nil
}

// PutObjectAPI is the subset of *s3.Client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures NewS3Client.
type S3Config struct {
	// Region is the bucket region (default: AWS_REGION, then "us-east-1").
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string
}

// NewS3Client creates an S3 client using environment credentials.
func NewS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, ErrNoCredentials
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// S3Publisher writes pages into one bucket.
type S3Publisher struct {
	client       PutObjectAPI
	bucket       string
	cacheControl string
}

// NewS3Publisher creates a publisher for bucket.
func NewS3Publisher(client PutObjectAPI, bucket string) *S3Publisher {
	return &S3Publisher{
		client:       client,
		bucket:       bucket,
		cacheControl: DefaultCacheControl,
	}
}

// Publish uploads html under key.
func (p *S3Publisher) Publish(ctx context.Context, key string, html []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(html),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String(p.cacheControl),
	})
	return err
}
