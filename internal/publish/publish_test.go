package publish

import (
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw     string
		want    Target
		wantErr bool
	}{
		{"s3://bucket/pages/a.html", Target{"bucket", "pages/a.html"}, false},
		{"s3://bucket/pages/", Target{"bucket", "pages/index.html"}, false},
		{"s3://bucket", Target{"bucket", "index.html"}, false},
		{"https://bucket/a.html", Target{}, true},
		{"s3:///a.html", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTarget(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTarget = %+v, want %+v", got, tt.want)
			}
		})
	}
	if got := (Target{"b", "k.html"}).String(); got != "s3://b/k.html" {
		t.Errorf("String = %s", got)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestPublish(t *testing.T) {
	fake := &fakeS3{}
	p := NewS3Publisher(fake, "previews")
	if err := p.Publish(context.Background(), "site/index.html", []byte("<p>hi</p>")); err != nil {
		t.Fatal(err)
	}

	in := fake.input
	if aws.ToString(in.Bucket) != "previews" || aws.ToString(in.Key) != "site/index.html" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("content type = %s", aws.ToString(in.ContentType))
	}
	if aws.ToString(in.CacheControl) != DefaultCacheControl {
		t.Errorf("cache control = %s", aws.ToString(in.CacheControl))
	}
	if fake.body != "<p>hi</p>" {
		t.Errorf("body = %q", fake.body)
	}

	fake.err = stderrors.New("denied")
	if err := p.Publish(context.Background(), "k", nil); err == nil {
		t.Error("expected PutObject error")
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); !stderrors.Is(err, ErrNoCredentials) {
		t.Errorf("err = %v, want ErrNoCredentials", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "tok")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" || creds.SessionToken != "tok" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestNewS3ClientRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	if got := NewS3Client(S3Config{}).Options().Region; got != "eu-west-1" {
		t.Errorf("region = %s", got)
	}
	c := NewS3Client(S3Config{Region: "us-west-2", Endpoint: "http://localhost:9000"})
	opts := c.Options()
	if opts.Region != "us-west-2" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %s path-style %v endpoint %s", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
}
