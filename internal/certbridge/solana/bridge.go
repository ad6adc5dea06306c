// Package solana mirrors share movements as SPL token operations. Each
// property maps to a token mint and each holder to a wallet; issuance mints
// tokens to the holder's associated token account and transfers move them
// between accounts. The platform key pays fees and acts as mint and account
// authority, so mirrored transfers need no holder signatures.
package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"landledger/internal/certbridge/core"
)

// Registry resolves ledger identifiers to on-chain addresses.
type Registry interface {
	// MintForProperty returns the token mint backing the property.
	MintForProperty(propertyID string) (solana.PublicKey, error)
	// WalletForHolder returns the holder's wallet.
	WalletForHolder(holderID string) (solana.PublicKey, error)
}

// rpcAPI is the slice of the RPC client the bridge uses. Narrowed so tests
// can run without a validator.
type rpcAPI interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// Bridge implements core.Bridge against a Solana RPC endpoint.
type Bridge struct {
	client   rpcAPI
	payer    solana.PrivateKey
	registry Registry
}

var _ core.Bridge = (*Bridge)(nil)

// Config holds explicit construction parameters.
type Config struct {
	RPCURL   string
	PayerKey string // base58 encoded private key
	Registry Registry
}

// New constructs a Solana bridge from Config.
func New(cfg Config) (*Bridge, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("solana rpc url required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("solana address registry required")
	}
	payer, err := solana.PrivateKeyFromBase58(cfg.PayerKey)
	if err != nil {
		return nil, fmt.Errorf("parse payer key: %w", err)
	}
	return &Bridge{client: rpc.New(cfg.RPCURL), payer: payer, registry: cfg.Registry}, nil
}

// Driver implements core.Bridge.
func (b *Bridge) Driver() core.Driver { return core.DriverSolana }

// MintCertificates implements core.Bridge.
func (b *Bridge) MintCertificates(ctx context.Context, propertyID, holderID string, amount uint64) (string, error) {
	mint, err := b.registry.MintForProperty(propertyID)
	if err != nil {
		return "", err
	}
	wallet, err := b.registry.WalletForHolder(holderID)
	if err != nil {
		return "", err
	}
	dest, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return "", fmt.Errorf("derive destination account: %w", err)
	}
	inst := token.NewMintToInstruction(amount, mint, dest, b.payer.PublicKey(), nil).Build()
	return b.submit(ctx, inst)
}

// TransferCertificates implements core.Bridge.
func (b *Bridge) TransferCertificates(ctx context.Context, propertyID, fromID, toID string, amount uint64) (string, error) {
	mint, err := b.registry.MintForProperty(propertyID)
	if err != nil {
		return "", err
	}
	fromWallet, err := b.registry.WalletForHolder(fromID)
	if err != nil {
		return "", err
	}
	toWallet, err := b.registry.WalletForHolder(toID)
	if err != nil {
		return "", err
	}
	source, _, err := solana.FindAssociatedTokenAddress(fromWallet, mint)
	if err != nil {
		return "", fmt.Errorf("derive source account: %w", err)
	}
	dest, _, err := solana.FindAssociatedTokenAddress(toWallet, mint)
	if err != nil {
		return "", fmt.Errorf("derive destination account: %w", err)
	}
	inst := token.NewTransferInstruction(amount, source, dest, b.payer.PublicKey(), nil).Build()
	return b.submit(ctx, inst)
}

func (b *Bridge) submit(ctx context.Context, instructions ...solana.Instruction) (string, error) {
	latest, err := b.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("fetch blockhash: %w", err)
	}
	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(b.payer.PublicKey()))
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(b.payer.PublicKey()) {
			return &b.payer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	sig, err := b.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig.String(), nil
}
