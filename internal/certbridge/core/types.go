// Package core defines the certificate bridge contract shared by the bridge
// facade and its drivers.
package core

import "context"

// Driver identifies a concrete bridge implementation.
type Driver string

const (
	DriverOff    Driver = "off"    // no mirroring (default)
	DriverSolana Driver = "solana" // SPL token mirror
)

// Bridge replicates ledger share movements. Implementations must be safe for
// concurrent use. Errors are reported to the caller for logging and
// reconciliation; they never roll back the ledger.
type Bridge interface {
	// MintCertificates mirrors a primary issuance of amount shares of
	// propertyID to holderID. Returns an implementation-specific reference
	// such as a transaction signature.
	MintCertificates(ctx context.Context, propertyID, holderID string, amount uint64) (string, error)
	// TransferCertificates mirrors a transfer of amount shares of propertyID
	// between two holders.
	TransferCertificates(ctx context.Context, propertyID, fromID, toID string, amount uint64) (string, error)
	// Driver reports the configured backend.
	Driver() Driver
}
