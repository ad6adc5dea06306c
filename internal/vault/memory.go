package vault

import (
	memorystore "landledger/internal/infra/vault/memory"
)

// NewMemory returns an in-memory vault Store. It backs tests and is the
// fallback when no vault is configured.
func NewMemory() Store { return memorystore.New() }
