package core

import (
	"context"
	"time"

	"landledger/pkg/domain"
)

// AccrualOutcome reports one income accrual: the platform's cut and the
// amount added to the distributable pool.
type AccrualOutcome struct {
	Property      Property `json:"property"`
	Fee           uint64   `json:"fee"`
	Distributable uint64   `json:"distributable"`
}

// AccrueIncome records rental income for a property. The platform fee is
// deducted and the remainder joins the property's cumulative distributable
// pool. AccruedIncome only ever grows; claims never reduce it. Owner or
// authority.
func (s *Service) AccrueIncome(ctx context.Context, caller, propertyID string, totalIncome uint64) (AccrualOutcome, Result, error) {
	var outcome AccrualOutcome
	res, err := s.run(ctx, OpAccrueIncome, caller, func(tx Transaction) error {
		property, fee, distributable, err := s.accrue(tx, caller, propertyID, totalIncome)
		if err != nil {
			return err
		}
		outcome = AccrualOutcome{Property: property, Fee: fee, Distributable: distributable}
		return nil
	})
	return outcome, res, err
}

// accrue validates and applies one income accrual inside tx, returning the
// updated property and the fee split. Shared by AccrueIncome and
// BatchDistribute.
func (s *Service) accrue(tx Transaction, caller, propertyID string, totalIncome uint64) (Property, uint64, uint64, error) {
	fail := func(err error) (Property, uint64, uint64, error) {
		return Property{}, 0, 0, err
	}
	if err := validateIdentifier("caller", caller); err != nil {
		return fail(err)
	}
	if err := validateIdentifier("property id", propertyID); err != nil {
		return fail(err)
	}
	if totalIncome == 0 {
		return fail(domain.NewError(domain.CodeInvalidAmount, "income must be positive"))
	}
	property, err := findPropertyOrErr(tx, propertyID)
	if err != nil {
		return fail(err)
	}
	if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
		return fail(err)
	}
	if err := requireNotSold(property); err != nil {
		return fail(err)
	}
	if property.SharesIssued == 0 {
		return fail(domain.NewErrorf(domain.CodeNoSharesIssued, "property %q has no issued shares", propertyID))
	}
	cfg, err := requirePlatform(tx)
	if err != nil {
		return fail(err)
	}
	fee, err := checkedBpsOf(totalIncome, cfg.FeeBps, "platform fee")
	if err != nil {
		return fail(err)
	}
	distributable, err := checkedSub(totalIncome, fee, "distributable income")
	if err != nil {
		return fail(err)
	}
	accrued, err := checkedAdd(property.AccruedIncome, distributable, "accrued income")
	if err != nil {
		return fail(err)
	}
	now := tx.Now()
	updated, err := tx.UpdateProperty(propertyID, func(p *Property) error {
		p.AccruedIncome = accrued
		p.LastDistributionAt = &now
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return updated, fee, distributable, nil
}

// ClaimOutcome reports one settled claim.
type ClaimOutcome struct {
	Position OwnershipPosition `json:"position"`
	Claimed  uint64            `json:"claimed"`
}

// Claim pays out a holder's unclaimed share of a property's accrued income.
// The entitlement is computed at claim time from the current holding: the
// holder's basis-point share of AccruedIncome, minus everything already
// claimed. The caller must be the holder or the platform authority. Claims
// remain possible after the property is sold; accrued income is never
// forfeited.
func (s *Service) Claim(ctx context.Context, caller, propertyID, holder string) (ClaimOutcome, Result, error) {
	var outcome ClaimOutcome
	res, err := s.run(ctx, OpClaimIncome, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if err := validateIdentifier("holder", holder); err != nil {
			return err
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireSelfOrAuthority(tx, caller, holder); err != nil {
			return err
		}
		position, ok := tx.FindPosition(propertyID, holder)
		if !ok || position.SharesOwned == 0 {
			return domain.NewErrorf(domain.CodeNoSharesOwned, "holder %q owns no shares of property %q", holder, propertyID)
		}
		claimable, err := claimableAmount(property, position)
		if err != nil {
			return err
		}
		if claimable == 0 {
			return domain.NewErrorf(domain.CodeNothingToClaim, "holder %q has no unclaimed income for property %q", holder, propertyID)
		}
		now := tx.Now()
		updated, err := tx.UpdatePosition(propertyID, holder, func(pos *OwnershipPosition) error {
			claimed, err := checkedAdd(pos.TotalClaimed, claimable, "total claimed")
			if err != nil {
				return err
			}
			pos.TotalClaimed = claimed
			pos.LastClaimAt = &now
			return nil
		})
		if err != nil {
			return err
		}
		outcome = ClaimOutcome{Position: updated, Claimed: claimable}
		return nil
	})
	return outcome, res, err
}

// claimableAmount computes the unclaimed entitlement for a position. A
// holding acquired after past accruals is entitled to them too; the checked
// subtraction surfaces the rare case where prior claims exceed the current
// entitlement after shares were given away.
func claimableAmount(property Property, position OwnershipPosition) (uint64, error) {
	if property.SharesIssued == 0 {
		return 0, nil
	}
	ownershipBps, err := checkedRatioBps(position.SharesOwned, property.SharesIssued, "ownership share")
	if err != nil {
		return 0, err
	}
	entitled, err := checkedBpsOf(property.AccruedIncome, ownershipBps, "entitled income")
	if err != nil {
		return 0, err
	}
	return checkedSub(entitled, position.TotalClaimed, "claimable income")
}

// Claimable reports the amount a holder could claim right now, without
// mutating anything. Holders without a position simply have nothing to
// claim.
func (s *Service) Claimable(ctx context.Context, propertyID, holder string) (uint64, error) {
	var claimable uint64
	err := s.store.View(ctx, func(view TransactionView) error {
		property, ok := view.FindProperty(propertyID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "property %q not found", propertyID)
		}
		position, ok := view.FindPosition(propertyID, holder)
		if !ok || position.SharesOwned == 0 {
			return nil
		}
		amount, err := claimableAmount(property, position)
		if err != nil {
			return err
		}
		claimable = amount
		return nil
	})
	return claimable, err
}

// BatchClaimEntry reports the outcome of one property inside a batch claim.
type BatchClaimEntry struct {
	PropertyID string `json:"property_id"`
	Claimed    uint64 `json:"claimed,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	Err        string `json:"error,omitempty"`
}

// BatchClaimOutcome aggregates a batch claim.
type BatchClaimOutcome struct {
	Entries      []BatchClaimEntry `json:"entries"`
	TotalClaimed uint64            `json:"total_claimed"`
}

// BatchClaim claims across up to MaxBatchSize properties for one holder.
// Unlike every other batch operation this one is deliberately partial: each
// property settles in its own transaction, properties with nothing to claim
// are skipped, and one failing property does not undo the others. The inner
// claims report individually; the batch reports once more as a whole.
func (s *Service) BatchClaim(ctx context.Context, caller, holder string, propertyIDs []string) (BatchClaimOutcome, error) {
	started := time.Now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, OpBatchClaim)
	}
	s.logger.Debug("operation start", "operation", OpBatchClaim, "actor", caller)

	var outcome BatchClaimOutcome
	finish := func(err error) (BatchClaimOutcome, error) {
		duration := time.Since(started)
		if s.metrics != nil {
			s.metrics.Observe(ctx, OpBatchClaim, err == nil, duration)
		}
		s.recordAudit(ctx, OpBatchClaim, caller, nil, duration, err)
		if span != nil {
			span.End(err)
		}
		if err != nil {
			s.logger.Error("operation failed", "operation", OpBatchClaim, "actor", caller, "error", err.Error())
			return outcome, err
		}
		s.logger.Info("batch claim settled", "operation", OpBatchClaim, "actor", caller, "holder", holder, "entries", len(outcome.Entries), "total", outcome.TotalClaimed)
		return outcome, nil
	}

	if err := validateBatchSize(len(propertyIDs)); err != nil {
		return finish(err)
	}
	if err := validateIdentifier("caller", caller); err != nil {
		return finish(err)
	}
	if err := validateIdentifier("holder", holder); err != nil {
		return finish(err)
	}
	outcome.Entries = make([]BatchClaimEntry, 0, len(propertyIDs))
	for _, propertyID := range propertyIDs {
		entry := BatchClaimEntry{PropertyID: propertyID}
		claimed, _, err := s.Claim(ctx, caller, propertyID, holder)
		switch {
		case err == nil:
			entry.Claimed = claimed.Claimed
			total, sumErr := checkedAdd(outcome.TotalClaimed, claimed.Claimed, "batch claim total")
			if sumErr != nil {
				return finish(sumErr)
			}
			outcome.TotalClaimed = total
		case domain.IsCode(err, domain.CodeNothingToClaim):
			entry.Skipped = true
		default:
			entry.Err = err.Error()
		}
		outcome.Entries = append(outcome.Entries, entry)
	}
	return finish(nil)
}

// DistributionPayout is one holder's payout inside a batch distribution.
type DistributionPayout struct {
	HolderID string `json:"holder_id"`
	Amount   uint64 `json:"amount"`
}

// DistributionOutcome reports a committed batch distribution.
type DistributionOutcome struct {
	Property         Property             `json:"property"`
	Fee              uint64               `json:"fee"`
	Distributable    uint64               `json:"distributable"`
	Payouts          []DistributionPayout `json:"payouts"`
	TotalDistributed uint64               `json:"total_distributed"`
}

// BatchDistribute accrues income and immediately pays the listed holders
// their share, all in one atomic transaction. Payout weights use the share
// counts in force when the transaction began. Floor division leaves an
// integer remainder inside AccruedIncome where later claims can still reach
// it; nothing is lost. Owner or authority.
func (s *Service) BatchDistribute(ctx context.Context, caller, propertyID string, totalIncome uint64, holders []string) (DistributionOutcome, Result, error) {
	var outcome DistributionOutcome
	res, err := s.run(ctx, OpBatchDistribute, caller, func(tx Transaction) error {
		if err := validateBatchSize(len(holders)); err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(holders))
		for i, holder := range holders {
			if err := validateIdentifier("holder", holder); err != nil {
				return err
			}
			if _, dup := seen[holder]; dup {
				return domain.NewErrorf(domain.CodeInvalidIdentity, "holder %q appears twice (entries %d)", holder, i)
			}
			seen[holder] = struct{}{}
		}
		property, fee, distributable, err := s.accrue(tx, caller, propertyID, totalIncome)
		if err != nil {
			return err
		}
		// SharesIssued is untouched by the accrual, so the weights below use
		// the counts in force when the transaction began.
		now := tx.Now()
		payouts := make([]DistributionPayout, 0, len(holders))
		var totalDistributed uint64
		for _, holder := range holders {
			position, ok := tx.FindPosition(propertyID, holder)
			if !ok || position.SharesOwned == 0 {
				return domain.NewErrorf(domain.CodeNoSharesOwned, "holder %q owns no shares of property %q", holder, propertyID)
			}
			holderBps, err := checkedRatioBps(position.SharesOwned, property.SharesIssued, "ownership share")
			if err != nil {
				return err
			}
			payout, err := checkedBpsOf(distributable, holderBps, "holder payout")
			if err != nil {
				return err
			}
			if payout > 0 {
				if _, err := tx.UpdatePosition(propertyID, holder, func(pos *OwnershipPosition) error {
					claimed, err := checkedAdd(pos.TotalClaimed, payout, "total claimed")
					if err != nil {
						return err
					}
					pos.TotalClaimed = claimed
					pos.LastClaimAt = &now
					return nil
				}); err != nil {
					return err
				}
			}
			total, err := checkedAdd(totalDistributed, payout, "distributed total")
			if err != nil {
				return err
			}
			totalDistributed = total
			payouts = append(payouts, DistributionPayout{HolderID: holder, Amount: payout})
		}
		outcome = DistributionOutcome{
			Property:         property,
			Fee:              fee,
			Distributable:    distributable,
			Payouts:          payouts,
			TotalDistributed: totalDistributed,
		}
		return nil
	})
	return outcome, res, err
}
