package core

import (
	"context"
	"fmt"

	"landledger/pkg/domain"
	"landledger/pkg/fixedpoint"
)

// NewClaimEntitlementRule returns the in-transaction rule asserting that no
// property ever pays out more than it accrued: the claimed totals across all
// positions stay within AccruedIncome. Individual positions are not bounded,
// a holder who sold shares keeps the claims made while holding them.
func NewClaimEntitlementRule() domain.Rule {
	return claimEntitlementRule{}
}

type claimEntitlementRule struct{}

func (claimEntitlementRule) Name() string { return "claim_entitlement" }

func (claimEntitlementRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	claimed := make(map[string]uint64)
	for _, position := range view.ListPositions() {
		sum, err := fixedpoint.Add(claimed[position.PropertyID], position.TotalClaimed)
		if err != nil {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "claim_entitlement",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("claimed totals of property %s overflow", position.PropertyID),
				Entity:   domain.EntityProperty,
				EntityID: position.PropertyID,
			})
			continue
		}
		claimed[position.PropertyID] = sum
	}

	for _, property := range view.ListProperties() {
		if sum := claimed[property.ID]; sum > property.AccruedIncome {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "claim_entitlement",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("property %s paid out %d of %d accrued", property.ID, sum, property.AccruedIncome),
				Entity:   domain.EntityProperty,
				EntityID: property.ID,
			})
		}
	}
	return res, nil
}
