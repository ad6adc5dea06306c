package certbridge

import (
	"context"
	"testing"
)

func TestNoopBridge(t *testing.T) {
	var bridge Bridge = Noop{}
	if bridge.Driver() != DriverOff {
		t.Fatalf("unexpected driver %s", bridge.Driver())
	}
	ref, err := bridge.MintCertificates(context.Background(), "p", "h", 1)
	if err != nil || ref != "" {
		t.Fatalf("noop mint: %q %v", ref, err)
	}
	ref, err = bridge.TransferCertificates(context.Background(), "p", "a", "b", 1)
	if err != nil || ref != "" {
		t.Fatalf("noop transfer: %q %v", ref, err)
	}
}

func TestOpenDefaultsToOff(t *testing.T) {
	t.Setenv("LANDLEDGER_BRIDGE_DRIVER", "")
	bridge, err := Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if bridge.Driver() != DriverOff {
		t.Fatalf("expected off driver, got %s", bridge.Driver())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Setenv("LANDLEDGER_BRIDGE_DRIVER", "ethereum")
	if _, err := Open(); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenSolanaRequiresRegistry(t *testing.T) {
	t.Setenv("LANDLEDGER_BRIDGE_DRIVER", "solana")
	t.Setenv("LANDLEDGER_BRIDGE_SOLANA_REGISTRY_PATH", "")
	if _, err := Open(); err == nil {
		t.Fatalf("expected missing registry error")
	}
}
