package vault

import (
	"landledger/internal/infra/vault/fs"
)

// NewFilesystem constructs a filesystem-backed vault Store rooted at the
// provided path. It returns the Store interface so call sites do not depend
// on the concrete driver.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
