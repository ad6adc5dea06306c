package core

import (
	"context"
	"fmt"

	"landledger/pkg/domain"
	"landledger/pkg/fixedpoint"
)

// NewShareConservationRule returns the in-transaction rule asserting that
// for every property the positions sum exactly to the issued count and the
// issued count never exceeds the fixed supply.
func NewShareConservationRule() domain.Rule {
	return shareConservationRule{}
}

type shareConservationRule struct{}

func (shareConservationRule) Name() string { return "share_conservation" }

func (shareConservationRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	owned := make(map[string]uint64)
	for _, position := range view.ListPositions() {
		sum, err := fixedpoint.Add(owned[position.PropertyID], position.SharesOwned)
		if err != nil {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "share_conservation",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("positions of property %s overflow the share sum", position.PropertyID),
				Entity:   domain.EntityProperty,
				EntityID: position.PropertyID,
			})
			continue
		}
		owned[position.PropertyID] = sum
	}

	known := make(map[string]struct{})
	for _, property := range view.ListProperties() {
		known[property.ID] = struct{}{}
		if property.SharesIssued > property.TotalShares {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "share_conservation",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("property %s issued %d shares over its supply of %d", property.ID, property.SharesIssued, property.TotalShares),
				Entity:   domain.EntityProperty,
				EntityID: property.ID,
			})
		}
		if sum := owned[property.ID]; sum != property.SharesIssued {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "share_conservation",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("property %s positions sum to %d shares, %d issued", property.ID, sum, property.SharesIssued),
				Entity:   domain.EntityProperty,
				EntityID: property.ID,
			})
		}
	}

	for propertyID := range owned {
		if _, ok := known[propertyID]; !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "share_conservation",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("positions reference unknown property %s", propertyID),
				Entity:   domain.EntityProperty,
				EntityID: propertyID,
			})
		}
	}
	return res, nil
}
