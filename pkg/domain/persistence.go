package domain

import (
	"context"
	"time"
)

// Transaction exposes the ledger mutations that a persistence implementation
// must support within an atomic scope. There are deliberately no delete
// operations: ledger entities are never removed, only updated.
type Transaction interface {
	Snapshot() TransactionView
	Now() time.Time
	CreatePlatformConfig(PlatformConfig) (PlatformConfig, error)
	UpdatePlatformConfig(mutator func(*PlatformConfig) error) (PlatformConfig, error)
	FindPlatformConfig() (PlatformConfig, bool)
	CreateProperty(Property) (Property, error)
	UpdateProperty(id string, mutator func(*Property) error) (Property, error)
	FindProperty(id string) (Property, bool)
	CreatePosition(OwnershipPosition) (OwnershipPosition, error)
	UpdatePosition(propertyID, holderID string, mutator func(*OwnershipPosition) error) (OwnershipPosition, error)
	FindPosition(propertyID, holderID string) (OwnershipPosition, bool)
	CreateProposal(Proposal) (Proposal, error)
	UpdateProposal(id string, mutator func(*Proposal) error) (Proposal, error)
	FindProposal(id string) (Proposal, bool)
	CreateVote(VoteRecord) (VoteRecord, error)
	FindVote(proposalID, voterID string) (VoteRecord, bool)
	CreateKycRecord(KycRecord) (KycRecord, error)
	UpdateKycRecord(holderID string, mutator func(*KycRecord) error) (KycRecord, error)
	FindKycRecord(holderID string) (KycRecord, bool)
	CreateListing(MarketListing) (MarketListing, error)
	UpdateListing(id string, mutator func(*MarketListing) error) (MarketListing, error)
	FindListing(id string) (MarketListing, bool)
}

// TransactionView provides read-only access to snapshot data for rules and views.
type TransactionView = RuleView

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetPlatformConfig() (PlatformConfig, bool)
	GetProperty(id string) (Property, bool)
	ListProperties() []Property
	GetPosition(propertyID, holderID string) (OwnershipPosition, bool)
	ListPositions() []OwnershipPosition
	GetProposal(id string) (Proposal, bool)
	ListProposals() []Proposal
	GetVote(proposalID, voterID string) (VoteRecord, bool)
	ListVotes() []VoteRecord
	GetKycRecord(holderID string) (KycRecord, bool)
	ListKycRecords() []KycRecord
	GetListing(id string) (MarketListing, bool)
	ListListings() []MarketListing
}
