// Package certbridge mirrors committed share movements onto an external
// certificate registry. The ledger remains the source of truth; bridge
// implementations replicate issuance and transfers so off-platform systems
// can verify holdings.
package certbridge

import (
	"context"

	"landledger/internal/certbridge/core"
)

// Re-exported contract types so call sites depend on this package alone.
type (
	Driver = core.Driver
	Bridge = core.Bridge
)

const (
	DriverOff    = core.DriverOff
	DriverSolana = core.DriverSolana
)

// Noop is the default bridge. Every call succeeds without side effects.
type Noop struct{}

var _ Bridge = Noop{}

// MintCertificates implements Bridge.
func (Noop) MintCertificates(context.Context, string, string, uint64) (string, error) {
	return "", nil
}

// TransferCertificates implements Bridge.
func (Noop) TransferCertificates(context.Context, string, string, string, uint64) (string, error) {
	return "", nil
}

// Driver implements Bridge.
func (Noop) Driver() Driver { return DriverOff }
