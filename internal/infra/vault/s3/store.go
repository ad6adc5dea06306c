// Package s3 implements the document vault on an S3-compatible backend
// (AWS S3 or MinIO). Single bucket; vault keys map to object keys directly.
package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"landledger/internal/vault/core"
)

// Store implements core.Store against a single bucket.
type Store struct {
	client  *s3.Client
	bucket  string
	presign *s3.PresignClient
}

var _ core.Store = (*Store)(nil)

// Config holds explicit construction parameters, mostly for tests. Production
// deployments configure the driver through environment variables.
type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional custom endpoint, e.g. MinIO
	AccessKeyID     string // optional, falls back to the default chain
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// Environment variables:
//
//	LANDLEDGER_VAULT_DRIVER=s3
//	LANDLEDGER_VAULT_S3_BUCKET=<bucket> (required)
//	LANDLEDGER_VAULT_S3_REGION=<region> (default us-east-1)
//	LANDLEDGER_VAULT_S3_ENDPOINT=<url> (optional, for MinIO)
//	LANDLEDGER_VAULT_S3_PATH_STYLE=true|false (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 vault from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, presign: s3.NewPresignClient(client)}, nil
}

// OpenFromEnv constructs an S3 vault from the process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("LANDLEDGER_VAULT_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("LANDLEDGER_VAULT_S3_BUCKET required for s3 driver")
	}
	cfg := Config{
		Bucket:    bucket,
		Region:    os.Getenv("LANDLEDGER_VAULT_S3_REGION"),
		Endpoint:  os.Getenv("LANDLEDGER_VAULT_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("LANDLEDGER_VAULT_S3_PATH_STYLE"), "true"),
	}
	return New(ctx, cfg)
}

// Driver implements core.Store.
func (s *Store) Driver() core.Driver { return core.DriverS3 }

// Put implements core.Store. S3 has no native create-only write, so a Head
// probe emulates it; a concurrent writer can still slip between the two calls.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key}); err == nil {
		return core.Info{}, fmt.Errorf("document %s already exists", key)
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return core.Info{}, err
	}
	return s.Head(ctx, key)
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return core.Info{}, nil, err
	}
	info := s.objectInfo(key, out.ContentLength, out.ContentType, out.ETag, out.Metadata, out.LastModified)
	return info, out.Body, nil
}

// Head implements core.Store.
func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return core.Info{}, err
	}
	return s.objectInfo(key, out.ContentLength, out.ContentType, out.ETag, out.Metadata, out.LastModified), nil
}

// Delete implements core.Store. DeleteObject succeeds for absent keys, so the
// existed flag is optimistic.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return false, err
	}
	return true, nil
}

// List implements core.Store, following continuation tokens.
func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: &prefix, ContinuationToken: token})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			var size int64
			if obj.Size != nil {
				size = *obj.Size
			}
			infos = append(infos, core.Info{Key: aws.ToString(obj.Key), Size: size, LastModified: aws.ToTime(obj.LastModified)})
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// PresignURL implements core.Store for GET with a default 15 minute expiry.
func (s *Store) PresignURL(ctx context.Context, key string, opts core.SignedURLOptions) (string, error) {
	if opts.Method != "" && !strings.EqualFold(opts.Method, "GET") {
		return "", core.ErrUnsupported
	}
	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	out, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key}, func(po *s3.PresignOptions) { po.Expires = expiry })
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func (s *Store) objectInfo(key string, contentLength *int64, contentType, etag *string, md map[string]string, lastModified *time.Time) core.Info {
	info := core.Info{Key: key, Metadata: md, LastModified: time.Now().UTC()}
	if contentLength != nil {
		info.Size = *contentLength
	}
	if contentType != nil {
		info.ContentType = *contentType
	}
	if etag != nil {
		info.ETag = strings.Trim(*etag, "\"")
	}
	if lastModified != nil {
		info.LastModified = *lastModified
	}
	return info
}
