package core

import (
	"context"
	"fmt"

	"landledger/pkg/domain"
)

// NewLifecycleDirectionRule returns the in-transaction rule asserting that a
// property's state only moves forward through active, listed_for_sale, sold,
// and that a property already sold is never mutated again. It backs up the
// per-operation checks with a transaction-level guarantee.
func NewLifecycleDirectionRule() domain.Rule {
	return lifecycleDirectionRule{}
}

type lifecycleDirectionRule struct{}

func (lifecycleDirectionRule) Name() string { return "lifecycle_direction" }

var lifecycleRank = map[domain.PropertyState]int{
	domain.PropertyActive:        0,
	domain.PropertyListedForSale: 1,
	domain.PropertySold:          2,
}

func (lifecycleDirectionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "lifecycle_direction",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityProperty,
			EntityID: id,
		})
	}

	for _, change := range changes {
		if change.Entity != domain.EntityProperty || change.Before == nil || change.After == nil {
			continue
		}
		before, okBefore := change.Before.(domain.Property)
		after, okAfter := change.After.(domain.Property)
		if !okBefore || !okAfter {
			continue
		}
		if before.State == domain.PropertySold {
			block(after.ID, fmt.Sprintf("property %s is sold and immutable", after.ID))
			continue
		}
		if lifecycleRank[after.State] < lifecycleRank[before.State] {
			block(after.ID, fmt.Sprintf("property %s state moved backwards from %s to %s", after.ID, before.State, after.State))
		}
	}
	return res, nil
}
