package core

import (
	"context"
	"fmt"

	"landledger/pkg/domain"
)

// NewCounterMonotonicityRule returns the in-transaction rule asserting that
// cumulative counters never move backwards and the fixed share supply never
// changes. It inspects the before/after pairs of the pending change set.
func NewCounterMonotonicityRule() domain.Rule {
	return counterMonotonicityRule{}
}

type counterMonotonicityRule struct{}

func (counterMonotonicityRule) Name() string { return "counter_monotonicity" }

func (counterMonotonicityRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(entity domain.EntityType, id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "counter_monotonicity",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   entity,
			EntityID: id,
		})
	}

	for _, change := range changes {
		if change.Before == nil || change.After == nil {
			continue
		}
		switch after := change.After.(type) {
		case domain.Property:
			before, ok := change.Before.(domain.Property)
			if !ok {
				continue
			}
			if after.TotalShares != before.TotalShares {
				block(domain.EntityProperty, after.ID, fmt.Sprintf("property %s supply changed from %d to %d", after.ID, before.TotalShares, after.TotalShares))
			}
			if after.SharesIssued < before.SharesIssued {
				block(domain.EntityProperty, after.ID, fmt.Sprintf("property %s issued count shrank from %d to %d", after.ID, before.SharesIssued, after.SharesIssued))
			}
			if after.AccruedIncome < before.AccruedIncome {
				block(domain.EntityProperty, after.ID, fmt.Sprintf("property %s accrued income shrank from %d to %d", after.ID, before.AccruedIncome, after.AccruedIncome))
			}
		case domain.OwnershipPosition:
			before, ok := change.Before.(domain.OwnershipPosition)
			if !ok {
				continue
			}
			if after.TotalClaimed < before.TotalClaimed {
				block(domain.EntityPosition, after.ID, fmt.Sprintf("position %s claimed total shrank from %d to %d", after.ID, before.TotalClaimed, after.TotalClaimed))
			}
			if after.TotalInvested < before.TotalInvested {
				block(domain.EntityPosition, after.ID, fmt.Sprintf("position %s invested total shrank from %d to %d", after.ID, before.TotalInvested, after.TotalInvested))
			}
		case domain.Proposal:
			before, ok := change.Before.(domain.Proposal)
			if !ok {
				continue
			}
			if after.TotalVotes < before.TotalVotes || after.VotesFor < before.VotesFor || after.VotesAgainst < before.VotesAgainst {
				block(domain.EntityProposal, after.ID, fmt.Sprintf("proposal %s tallies moved backwards", after.ID))
			}
		case domain.PlatformConfig:
			before, ok := change.Before.(domain.PlatformConfig)
			if !ok {
				continue
			}
			if after.TotalProperties < before.TotalProperties {
				block(domain.EntityPlatformConfig, after.ID, fmt.Sprintf("platform property count shrank from %d to %d", before.TotalProperties, after.TotalProperties))
			}
		}
	}
	return res, nil
}
