// Package core defines the abstractions shared by document vault backends.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete vault backend implementation.
type Driver string

const (
	// DriverFilesystem stores documents under a local directory (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 stores documents in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps documents in process memory, typically for tests.
	DriverMemory Driver = "memory"
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string            // MIME type, optional
	Metadata    map[string]string // user metadata, small flat key-value
}

// SignedURLOptions holds options for generating a pre-signed URL.
type SignedURLOptions struct {
	Method  string        // GET|PUT, only GET is used internally
	Expiry  time.Duration // default 15m
	Headers map[string]string
}

// Info describes a stored document.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	URL          string            `json:"url,omitempty"`
}

// Store is a thin S3-like abstraction over document storage. Semantics mirror
// a minimal subset of S3 so the S3 adapter is nearly 1:1 while the filesystem
// adapter can emulate them.
type Store interface {
	// Put stores a new document at key and fails if the key already exists.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get retrieves the document contents and metadata. Missing keys yield an
	// os.ErrNotExist style error.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Head returns metadata only.
	Head(ctx context.Context, key string) (Info, error)
	// Delete removes a document. Returns (false, nil) when not found.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns documents whose key has the provided prefix, ordered by
	// key ascending.
	List(ctx context.Context, prefix string) ([]Info, error)
	// PresignURL returns a time-limited URL for the given key. Backends
	// without signing support return ErrUnsupported.
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	// Driver reports the configured backend driver.
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = errors.New("vault: unsupported operation")
