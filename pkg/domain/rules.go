package domain

import "context"

// RuleView provides read-only access to ledger entities for rule evaluation.
type RuleView interface {
	FindPlatformConfig() (PlatformConfig, bool)
	ListProperties() []Property
	ListPositions() []OwnershipPosition
	ListProposals() []Proposal
	ListVotes() []VoteRecord
	ListKycRecords() []KycRecord
	ListListings() []MarketListing
	FindProperty(id string) (Property, bool)
	FindPosition(propertyID, holderID string) (OwnershipPosition, bool)
	FindProposal(id string) (Proposal, bool)
	FindVote(proposalID, voterID string) (VoteRecord, bool)
	FindKycRecord(holderID string) (KycRecord, bool)
	FindListing(id string) (MarketListing, bool)
}

// Rule defines an invariant evaluated within a transaction boundary, before
// commit. Blocking violations abort the transaction.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
