package core

import (
	"context"

	"landledger/pkg/domain"
)

// IssueShares sells amount shares of a property to buyer at the registered
// share price, against the fixed supply. The caller must be the buyer or the
// platform authority. When the property carries the KYC gate the buyer must
// be verified. The committed issuance is mirrored onto the certificate
// bridge.
func (s *Service) IssueShares(ctx context.Context, caller, propertyID, buyer string, amount uint64) (OwnershipPosition, Result, error) {
	var position OwnershipPosition
	res, err := s.run(ctx, OpIssueShares, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if err := validateIdentifier("buyer", buyer); err != nil {
			return err
		}
		if amount == 0 {
			return domain.NewError(domain.CodeInvalidAmount, "amount must be positive")
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireSelfOrAuthority(tx, caller, buyer); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		if property.State != PropertyActive {
			return domain.NewErrorf(domain.CodePropertyNotActive, "property %q is not active", propertyID)
		}
		if err := requireKycCleared(tx, property, buyer); err != nil {
			return err
		}
		issued, err := checkedAdd(property.SharesIssued, amount, "issued shares")
		if err != nil {
			return err
		}
		if issued > property.TotalShares {
			return domain.NewErrorf(domain.CodeInsufficientSupply, "issuing %d shares exceeds the supply of %d (%d already issued)", amount, property.TotalShares, property.SharesIssued)
		}
		cost, err := checkedMul(amount, property.SharePrice, "purchase cost")
		if err != nil {
			return err
		}
		if _, err := tx.UpdateProperty(propertyID, func(p *Property) error {
			p.SharesIssued = issued
			return nil
		}); err != nil {
			return err
		}
		position, err = creditPosition(tx, propertyID, buyer, amount, cost)
		return err
	})
	if err == nil {
		s.mirrorMint(ctx, propertyID, buyer, amount)
	}
	return position, res, err
}

// creditPosition adds shares to a holder's position, creating it lazily on
// first credit. invested is added to the cumulative primary-market spend.
func creditPosition(tx Transaction, propertyID, holderID string, shares, invested uint64) (OwnershipPosition, error) {
	if _, ok := tx.FindPosition(propertyID, holderID); ok {
		return tx.UpdatePosition(propertyID, holderID, func(pos *OwnershipPosition) error {
			owned, err := checkedAdd(pos.SharesOwned, shares, "shares owned")
			if err != nil {
				return err
			}
			total, err := checkedAdd(pos.TotalInvested, invested, "total invested")
			if err != nil {
				return err
			}
			pos.SharesOwned = owned
			pos.TotalInvested = total
			return nil
		})
	}
	return tx.CreatePosition(OwnershipPosition{
		PropertyID:    propertyID,
		HolderID:      holderID,
		SharesOwned:   shares,
		TotalInvested: invested,
	})
}

// debitPosition removes shares from a holder's position. The position stays
// behind at zero balance to preserve claim history.
func debitPosition(tx Transaction, propertyID, holderID string, shares uint64) (OwnershipPosition, error) {
	position, ok := tx.FindPosition(propertyID, holderID)
	if !ok || position.SharesOwned < shares {
		return OwnershipPosition{}, domain.NewErrorf(domain.CodeInsufficientShares, "holder %q owns %d shares of property %q, needs %d", holderID, position.SharesOwned, propertyID, shares)
	}
	return tx.UpdatePosition(propertyID, holderID, func(pos *OwnershipPosition) error {
		owned, err := checkedSub(pos.SharesOwned, shares, "shares owned")
		if err != nil {
			return err
		}
		pos.SharesOwned = owned
		return nil
	})
}

// TransferOutcome reports both sides of a share transfer.
type TransferOutcome struct {
	From OwnershipPosition `json:"from"`
	To   OwnershipPosition `json:"to"`
}

// TransferShares moves amount shares between two holders of the same
// property. The caller must be the source holder or the platform authority.
// The destination position is created lazily; TotalInvested tracks primary
// issuance only and does not move with secondary transfers.
func (s *Service) TransferShares(ctx context.Context, caller, propertyID, from, to string, amount uint64) (TransferOutcome, Result, error) {
	var outcome TransferOutcome
	res, err := s.run(ctx, OpTransferShares, caller, func(tx Transaction) error {
		if err := validateTransferParties(caller, propertyID, from, to); err != nil {
			return err
		}
		if amount == 0 {
			return domain.NewError(domain.CodeInvalidAmount, "amount must be positive")
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireSelfOrAuthority(tx, caller, from); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		debited, err := debitPosition(tx, propertyID, from, amount)
		if err != nil {
			return err
		}
		credited, err := creditPosition(tx, propertyID, to, amount, 0)
		if err != nil {
			return err
		}
		outcome = TransferOutcome{From: debited, To: credited}
		return nil
	})
	if err == nil {
		s.mirrorTransfer(ctx, propertyID, from, to, amount)
	}
	return outcome, res, err
}

func validateTransferParties(caller, propertyID, from, to string) error {
	if err := validateIdentifier("caller", caller); err != nil {
		return err
	}
	if err := validateIdentifier("property id", propertyID); err != nil {
		return err
	}
	if err := validateIdentifier("sender", from); err != nil {
		return err
	}
	if err := validateIdentifier("recipient", to); err != nil {
		return err
	}
	if from == to {
		return domain.NewError(domain.CodeInvalidIdentity, "sender and recipient are the same holder")
	}
	return nil
}

// TransferEntry is one recipient of a batch transfer.
type TransferEntry struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// BatchTransferOutcome reports a committed batch transfer.
type BatchTransferOutcome struct {
	From     OwnershipPosition   `json:"from"`
	Credited []OwnershipPosition `json:"credited"`
	Total    uint64              `json:"total"`
}

// BatchTransfer moves shares from one holder to up to MaxBatchSize
// recipients atomically. The whole batch is validated against the sender's
// balance before any entry is applied; one bad entry fails everything.
func (s *Service) BatchTransfer(ctx context.Context, caller, propertyID, from string, entries []TransferEntry) (BatchTransferOutcome, Result, error) {
	var outcome BatchTransferOutcome
	res, err := s.run(ctx, OpBatchTransfer, caller, func(tx Transaction) error {
		if err := validateBatchSize(len(entries)); err != nil {
			return err
		}
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if err := validateIdentifier("sender", from); err != nil {
			return err
		}
		var total uint64
		for i, entry := range entries {
			if err := validateIdentifier("recipient", entry.To); err != nil {
				return err
			}
			if entry.To == from {
				return domain.NewErrorf(domain.CodeInvalidIdentity, "entry %d transfers back to the sender", i)
			}
			if entry.Amount == 0 {
				return domain.NewErrorf(domain.CodeInvalidAmount, "entry %d has zero amount", i)
			}
			sum, err := checkedAdd(total, entry.Amount, "batch total")
			if err != nil {
				return err
			}
			total = sum
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireSelfOrAuthority(tx, caller, from); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		debited, err := debitPosition(tx, propertyID, from, total)
		if err != nil {
			return err
		}
		credited := make([]OwnershipPosition, 0, len(entries))
		for _, entry := range entries {
			pos, err := creditPosition(tx, propertyID, entry.To, entry.Amount, 0)
			if err != nil {
				return err
			}
			credited = append(credited, pos)
		}
		outcome = BatchTransferOutcome{From: debited, Credited: credited, Total: total}
		return nil
	})
	if err == nil {
		for _, entry := range entries {
			s.mirrorTransfer(ctx, propertyID, from, entry.To, entry.Amount)
		}
	}
	return outcome, res, err
}
