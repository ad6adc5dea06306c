package core

import "landledger/pkg/domain"

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine carrying the built-in ledger
// invariants. Every transaction is checked against all of them before it may
// commit.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewShareConservationRule())
	engine.Register(NewCounterMonotonicityRule())
	engine.Register(NewClaimEntitlementRule())
	engine.Register(NewVoteIntegrityRule())
	engine.Register(NewLifecycleDirectionRule())
	return engine
}
