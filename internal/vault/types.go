// Package vault stores property legal documents and re-exports the core
// vault abstractions for stable external imports.
package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"landledger/internal/vault/core"
)

type (
	// Driver identifies a vault backend driver.
	Driver = core.Driver
	// PutOptions configures a document write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored document metadata.
	Info = core.Info
	// Store is the interface implemented by vault backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrUnsupported indicates an operation isn't supported by a driver.
var ErrUnsupported = core.ErrUnsupported

// DocumentDigest returns the hex-encoded sha256 digest of a document.
func DocumentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// DocumentKey builds the canonical vault key for a property legal document.
// Documents are content-addressed beneath their property.
func DocumentKey(propertyID, digest string) string {
	return fmt.Sprintf("properties/%s/%s", propertyID, digest)
}
