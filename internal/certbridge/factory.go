package certbridge

import (
	"fmt"
	"os"

	solanabridge "landledger/internal/certbridge/solana"
)

// Open selects a Bridge implementation using environment variables.
//
//	LANDLEDGER_BRIDGE_DRIVER: off|solana (default off)
//	(Solana specific variables documented in the solana driver)
func Open() (Bridge, error) {
	driver := os.Getenv("LANDLEDGER_BRIDGE_DRIVER")
	if driver == "" {
		driver = string(DriverOff)
	}
	switch Driver(driver) {
	case DriverOff:
		return Noop{}, nil
	case DriverSolana:
		return solanabridge.OpenFromEnv()
	default:
		return nil, fmt.Errorf("unknown certificate bridge driver %s", driver)
	}
}
