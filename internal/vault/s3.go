package vault

import (
	"context"

	infraS3 "landledger/internal/infra/vault/s3"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// NewS3 constructs an S3-backed vault Store from explicit configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infraS3.New(ctx, cfg)
}

// OpenS3FromEnv constructs an S3 vault using environment variables.
func OpenS3FromEnv(ctx context.Context) (Store, error) {
	return infraS3.OpenFromEnv(ctx)
}

// NewMockS3ForTests exposes the in-process S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
