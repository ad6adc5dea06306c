// Package domain defines the persistent entities, value types, error codes,
// and rule evaluation primitives used by landledger.
package domain

import "time"

// EntityType identifies the type of record stored in the ledger.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPlatformConfig identifies the singleton platform configuration record.
	EntityPlatformConfig EntityType = "platform_config"
	// EntityProperty identifies a property record.
	EntityProperty EntityType = "property"
	// EntityPosition identifies an ownership position record.
	EntityPosition EntityType = "ownership_position"
	// EntityProposal identifies a governance proposal record.
	EntityProposal EntityType = "proposal"
	// EntityVote identifies a vote record.
	EntityVote EntityType = "vote_record"
	// EntityKycRecord identifies a KYC verification record.
	EntityKycRecord EntityType = "kyc_record"
	// EntityListing identifies a secondary market listing record.
	EntityListing EntityType = "market_listing"
)

// Severity classifies rule evaluation outcomes and determines commit behavior.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all ledger records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlatformConfigID is the fixed key of the singleton platform record.
const PlatformConfigID = "platform"

// PlatformConfig is the singleton registry record: platform authority, fee
// policy, governance threshold, aggregate counters, and the latest external
// price reference.
type PlatformConfig struct {
	Base
	AuthorityID         string     `json:"authority_id"`
	FeeBps              uint64     `json:"fee_bps"`
	GovernanceThreshold uint64     `json:"governance_threshold"`
	TotalProperties     uint64     `json:"total_properties"`
	TotalValueLocked    uint64     `json:"total_value_locked"`
	ReferencePrice      uint64     `json:"reference_price,omitempty"`
	ReferenceRound      uint64     `json:"reference_round,omitempty"`
	ReferencePriceAt    *time.Time `json:"reference_price_at,omitempty"`
}

// PropertyState is the lifecycle state of a property. Transitions only move
// forward: active, then listed_for_sale, then sold.
type PropertyState string

// Property lifecycle states.
const (
	// PropertyActive accepts issuance, distribution, governance, and trading.
	PropertyActive PropertyState = "active"
	// PropertyListedForSale marks a whole-property sale in progress.
	PropertyListedForSale PropertyState = "listed_for_sale"
	// PropertySold is terminal; the record survives for audit only.
	PropertySold PropertyState = "sold"
)

// Valid reports whether the state is a known lifecycle state.
func (s PropertyState) Valid() bool {
	switch s {
	case PropertyActive, PropertyListedForSale, PropertySold:
		return true
	}
	return false
}

// PropertyCategory classifies a property's use.
type PropertyCategory string

// Property categories.
const (
	PropertyResidential PropertyCategory = "residential"
	PropertyCommercial  PropertyCategory = "commercial"
	PropertyIndustrial  PropertyCategory = "industrial"
	PropertyMixedUse    PropertyCategory = "mixed_use"
)

// Valid reports whether the category is a known property category.
func (c PropertyCategory) Valid() bool {
	switch c {
	case PropertyResidential, PropertyCommercial, PropertyIndustrial, PropertyMixedUse:
		return true
	}
	return false
}

// Property is a registered real-world property with a fixed share supply.
// TotalShares is immutable after registration; SharesIssued and AccruedIncome
// only ever grow. AccruedIncome is the cumulative net income ever made
// distributable and is never reduced by claims.
type Property struct {
	Base
	OwnerID            string           `json:"owner_id"`
	Address            string           `json:"address"`
	Category           PropertyCategory `json:"category"`
	LegalDocHash       string           `json:"legal_doc_hash,omitempty"`
	TotalShares        uint64           `json:"total_shares"`
	SharesIssued       uint64           `json:"shares_issued"`
	SharePrice         uint64           `json:"share_price"`
	AccruedIncome      uint64           `json:"accrued_income"`
	LastDistributionAt *time.Time       `json:"last_distribution_at,omitempty"`
	State              PropertyState    `json:"state"`
	Valuation          uint64           `json:"valuation"`
	ValuationUpdatedAt *time.Time       `json:"valuation_updated_at,omitempty"`
	KycRequired        bool             `json:"kyc_required"`
	ExpectedYieldBps   uint64           `json:"expected_yield_bps,omitempty"`
	SaleAskingPrice    uint64           `json:"sale_asking_price,omitempty"`
	SalePrice          uint64           `json:"sale_price,omitempty"`
	SoldTo             string           `json:"sold_to,omitempty"`
	SoldAt             *time.Time       `json:"sold_at,omitempty"`
}

// PositionKey builds the storage key of an ownership position.
func PositionKey(propertyID, holderID string) string {
	return propertyID + "/" + holderID
}

// OwnershipPosition records one holder's stake in one property. Positions are
// created lazily on first credit and never deleted; a zero balance is a valid
// terminal state that preserves claim history. TotalClaimed is the cumulative
// income ever paid to the holder for this property.
type OwnershipPosition struct {
	Base
	PropertyID    string     `json:"property_id"`
	HolderID      string     `json:"holder_id"`
	SharesOwned   uint64     `json:"shares_owned"`
	TotalInvested uint64     `json:"total_invested"`
	TotalClaimed  uint64     `json:"total_claimed"`
	LastClaimAt   *time.Time `json:"last_claim_at,omitempty"`
}

// ProposalCategory classifies the subject of a governance proposal.
type ProposalCategory string

// Proposal categories.
const (
	ProposalMaintenance ProposalCategory = "maintenance"
	ProposalRenovation  ProposalCategory = "renovation"
	ProposalManagement  ProposalCategory = "management"
	ProposalSale        ProposalCategory = "sale"
	ProposalOther       ProposalCategory = "other"
)

// Valid reports whether the category is a known proposal category.
func (c ProposalCategory) Valid() bool {
	switch c {
	case ProposalMaintenance, ProposalRenovation, ProposalManagement, ProposalSale, ProposalOther:
		return true
	}
	return false
}

// ProposalStatus is the derived lifecycle position of a proposal.
type ProposalStatus string

// Derived proposal statuses.
const (
	// ProposalVotingOpen accepts votes.
	ProposalVotingOpen ProposalStatus = "voting_open"
	// ProposalVotingClosed is past the deadline, awaiting execution.
	ProposalVotingClosed ProposalStatus = "voting_closed"
	// ProposalResolved has been executed; terminal.
	ProposalResolved ProposalStatus = "resolved"
)

// Proposal is a governance proposal scoped to a single property. Vote weight
// is the voter's share balance at vote time; tallies only grow.
type Proposal struct {
	Base
	PropertyID   string           `json:"property_id"`
	ProposerID   string           `json:"proposer_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     ProposalCategory `json:"category"`
	VotesFor     uint64           `json:"votes_for"`
	VotesAgainst uint64           `json:"votes_against"`
	TotalVotes   uint64           `json:"total_votes"`
	VotingEndsAt time.Time        `json:"voting_ends_at"`
	Executed     bool             `json:"executed"`
	Passed       bool             `json:"passed"`
	ExecutedAt   *time.Time       `json:"executed_at,omitempty"`
}

// Status derives the proposal lifecycle position at the given instant.
func (p Proposal) Status(now time.Time) ProposalStatus {
	if p.Executed {
		return ProposalResolved
	}
	if now.After(p.VotingEndsAt) {
		return ProposalVotingClosed
	}
	return ProposalVotingOpen
}

// VoteKey builds the storage key of a vote record.
func VoteKey(proposalID, voterID string) string {
	return proposalID + "/" + voterID
}

// VoteRecord is the write-once marker that a voter has voted on a proposal.
// Its existence is the double-vote guard; CreatedAt is the vote time.
type VoteRecord struct {
	Base
	ProposalID string `json:"proposal_id"`
	VoterID    string `json:"voter_id"`
	VoteFor    bool   `json:"vote_for"`
	Weight     uint64 `json:"weight"`
}

// KycRecord tracks identity verification for a holder. The record ID is the
// holder identity.
type KycRecord struct {
	Base
	HolderID      string     `json:"holder_id"`
	Verified      bool       `json:"verified"`
	Provider      string     `json:"provider,omitempty"`
	AttestationID string     `json:"attestation_id,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
}

// MarketListing is a fixed-price offer of shares on the secondary market. The
// ledger never escrows shares or moves funds for a listing; fills decrement
// SharesListed, and Active flips to false exactly once on full fill or
// cancellation.
type MarketListing struct {
	Base
	PropertyID     string     `json:"property_id"`
	SellerID       string     `json:"seller_id"`
	SharesListed   uint64     `json:"shares_listed"`
	PricePerShare  uint64     `json:"price_per_share"`
	TotalPrice     uint64     `json:"total_price"`
	Active         bool       `json:"active"`
	ReferencePrice uint64     `json:"reference_price,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// Change captures a single entity mutation inside a transaction for rule
// evaluation and the audit trail.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions captured in the audit trail. The ledger never deletes
// entities, so create and update are the only actions.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
	// Changes holds the committed change set when the transaction succeeded.
	// Rule evaluation failures leave it empty.
	Changes []Change
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when a transaction is blocked by rule violations.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
