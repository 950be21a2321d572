package statefile

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/freedux/internal/errors"
)

// S3Scheme prefixes object URIs: s3://bucket/key.
const S3Scheme = "s3://"

// Source reads and writes one encoded document.
type Source interface {
	// Name is the file path or object URI.
	Name() string
	Format() Format
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// ObjectStore is the subset of *s3.Client used for object sources.
type ObjectStore interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IsS3URI reports whether name is an s3:// URI.
func IsS3URI(name string) bool {
	return strings.HasPrefix(name, S3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	if !IsS3URI(uri) {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Open returns the source for name. Object URIs need a non-nil client.
func Open(name string, client ObjectStore) (Source, error) {
	if !IsS3URI(name) {
		return fileSource{path: name}, nil
	}
	bucket, key, ok := ParseS3URI(name)
	if !ok {
		return nil, errors.New(errors.CodeStateFile).
			WithDetail("Malformed object URI " + name).
			WithSuggestion("Use s3://bucket/key")
	}
	if client == nil {
		return nil, errors.New(errors.CodeStateFile).
			WithDetail("No S3 client configured for " + name)
	}
	return objectSource{client: client, bucket: bucket, key: key}, nil
}

// LoadSource reads and decodes src.
func LoadSource(ctx context.Context, src Source) (any, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, src.Format())
	if err != nil {
		return nil, errors.FromError(err, errors.CodeStateFile).WithPath(src.Name())
	}
	return doc, nil
}

type fileSource struct {
	path string
}

func (f fileSource) Name() string   { return f.path }
func (f fileSource) Format() Format { return FormatOf(f.path) }

func (f fileSource) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.New(errors.CodeStateFile).
			WithDetail("Cannot read " + f.path).
			Wrap(err)
	}
	return data, nil
}

func (f fileSource) Write(_ context.Context, data []byte) error {
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return errors.New(errors.CodeStateFile).WithPath(f.path).Wrap(err)
	}
	return nil
}

type objectSource struct {
	client ObjectStore
	bucket string
	key    string
}

func (o objectSource) Name() string   { return S3Scheme + o.bucket + "/" + o.key }
func (o objectSource) Format() Format { return FormatOf(o.key) }

func (o objectSource) Read(ctx context.Context) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeStateFile).
			WithDetail("Cannot read " + o.Name()).
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New(errors.CodeStateFile).WithPath(o.Name()).Wrap(err)
	}
	return data, nil
}

func (o objectSource) Write(ctx context.Context, data []byte) error {
	contentType := "application/json"
	if o.Format() == YAML {
		contentType = "application/yaml"
	}
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(o.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.New(errors.CodeStateFile).WithPath(o.Name()).Wrap(err)
	}
	return nil
}

// NewS3Client builds a client for region. A non-empty endpoint selects an
// S3-compatible server with path-style addressing. Credentials come from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; without
// them requests are anonymous.
func NewS3Client(region, endpoint string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: envCredentials(),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	}))
}
