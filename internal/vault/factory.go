package vault

import (
	"context"
	"fmt"
	"os"
)

// Open selects a vault Store implementation using environment variables.
//
//	LANDLEDGER_VAULT_DRIVER: fs|s3|memory (default fs)
//	LANDLEDGER_VAULT_FS_ROOT: directory root when driver=fs (default ./vaultdata)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("LANDLEDGER_VAULT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("LANDLEDGER_VAULT_FS_ROOT"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown vault driver %s", driver)
	}
}
