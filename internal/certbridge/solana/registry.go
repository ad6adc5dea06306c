package solana

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// StaticRegistry resolves addresses from a fixed mapping, typically loaded
// from a JSON file maintained alongside the deployment:
//
//	{
//	  "mints":   {"prop-1": "<base58 mint>"},
//	  "wallets": {"alice": "<base58 wallet>"}
//	}
type StaticRegistry struct {
	mints   map[string]solana.PublicKey
	wallets map[string]solana.PublicKey
}

var _ Registry = (*StaticRegistry)(nil)

type registryFile struct {
	Mints   map[string]string `json:"mints"`
	Wallets map[string]string `json:"wallets"`
}

// NewStaticRegistry builds a registry from base58 encoded address maps.
func NewStaticRegistry(mints, wallets map[string]string) (*StaticRegistry, error) {
	reg := &StaticRegistry{
		mints:   make(map[string]solana.PublicKey, len(mints)),
		wallets: make(map[string]solana.PublicKey, len(wallets)),
	}
	for id, addr := range mints {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("mint address for property %s: %w", id, err)
		}
		reg.mints[id] = key
	}
	for id, addr := range wallets {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("wallet address for holder %s: %w", id, err)
		}
		reg.wallets[id] = key
	}
	return reg, nil
}

// LoadRegistry reads a StaticRegistry from a JSON file.
func LoadRegistry(path string) (*StaticRegistry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	var file registryFile
	if err := json.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return NewStaticRegistry(file.Mints, file.Wallets)
}

// MintForProperty implements Registry.
func (r *StaticRegistry) MintForProperty(propertyID string) (solana.PublicKey, error) {
	key, ok := r.mints[propertyID]
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("no mint registered for property %s", propertyID)
	}
	return key, nil
}

// WalletForHolder implements Registry.
func (r *StaticRegistry) WalletForHolder(holderID string) (solana.PublicKey, error) {
	key, ok := r.wallets[holderID]
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("no wallet registered for holder %s", holderID)
	}
	return key, nil
}

// OpenFromEnv constructs a Bridge from the process environment.
//
//	LANDLEDGER_BRIDGE_SOLANA_RPC_URL       RPC endpoint (required)
//	LANDLEDGER_BRIDGE_SOLANA_PAYER_KEY     base58 private key (required)
//	LANDLEDGER_BRIDGE_SOLANA_REGISTRY_PATH path to the address registry JSON (required)
func OpenFromEnv() (*Bridge, error) {
	registryPath := os.Getenv("LANDLEDGER_BRIDGE_SOLANA_REGISTRY_PATH")
	if registryPath == "" {
		return nil, fmt.Errorf("LANDLEDGER_BRIDGE_SOLANA_REGISTRY_PATH required for solana bridge")
	}
	registry, err := LoadRegistry(registryPath)
	if err != nil {
		return nil, err
	}
	return New(Config{
		RPCURL:   os.Getenv("LANDLEDGER_BRIDGE_SOLANA_RPC_URL"),
		PayerKey: os.Getenv("LANDLEDGER_BRIDGE_SOLANA_PAYER_KEY"),
		Registry: registry,
	})
}
