package core

import (
	"context"

	"landledger/pkg/domain"
)

// ListShares posts a fixed-price listing for some of the caller's shares.
// The seller must currently hold at least the listed amount, but nothing is
// escrowed: the listing is coordination only and settlement goes through
// TransferShares. The platform's current reference price is stamped onto the
// listing for buyer context.
func (s *Service) ListShares(ctx context.Context, caller, propertyID string, amount, pricePerShare uint64) (MarketListing, Result, error) {
	var created MarketListing
	res, err := s.run(ctx, OpListShares, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if amount == 0 {
			return domain.NewError(domain.CodeInvalidAmount, "amount must be positive")
		}
		if pricePerShare == 0 {
			return domain.NewError(domain.CodeInvalidPrice, "price per share must be positive")
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		position, _ := tx.FindPosition(propertyID, caller)
		if position.SharesOwned < amount {
			return domain.NewErrorf(domain.CodeInsufficientShares, "caller %q owns %d shares of property %q, lists %d", caller, position.SharesOwned, propertyID, amount)
		}
		totalPrice, err := checkedMul(amount, pricePerShare, "listing price")
		if err != nil {
			return err
		}
		cfg, err := requirePlatform(tx)
		if err != nil {
			return err
		}
		created, err = tx.CreateListing(MarketListing{
			PropertyID:     propertyID,
			SellerID:       caller,
			SharesListed:   amount,
			PricePerShare:  pricePerShare,
			TotalPrice:     totalPrice,
			Active:         true,
			ReferencePrice: cfg.ReferencePrice,
		})
		return err
	})
	return created, res, err
}

// FillListing takes up to the listed amount from an active listing. The
// ledger only decrements the listed quantity and closes the listing when it
// reaches zero; shares and funds move through TransferShares at the parties'
// discretion. The buyer faces the property's KYC gate.
func (s *Service) FillListing(ctx context.Context, caller, listingID string, amount uint64) (MarketListing, Result, error) {
	var filled MarketListing
	res, err := s.run(ctx, OpFillListing, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("listing id", listingID); err != nil {
			return err
		}
		if amount == 0 {
			return domain.NewError(domain.CodeInvalidAmount, "amount must be positive")
		}
		listing, ok := tx.FindListing(listingID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "listing %q not found", listingID)
		}
		if !listing.Active {
			return domain.NewErrorf(domain.CodeListingInactive, "listing %q is no longer active", listingID)
		}
		if caller == listing.SellerID {
			return domain.NewError(domain.CodeInvalidIdentity, "seller cannot fill their own listing")
		}
		if amount > listing.SharesListed {
			return domain.NewErrorf(domain.CodeInsufficientShares, "listing %q offers %d shares, requested %d", listingID, listing.SharesListed, amount)
		}
		property, err := findPropertyOrErr(tx, listing.PropertyID)
		if err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		if err := requireKycCleared(tx, property, caller); err != nil {
			return err
		}
		now := tx.Now()
		filled, err = tx.UpdateListing(listingID, func(l *MarketListing) error {
			remaining, err := checkedSub(l.SharesListed, amount, "listed shares")
			if err != nil {
				return err
			}
			l.SharesListed = remaining
			if remaining == 0 {
				l.Active = false
				l.ClosedAt = &now
			}
			return nil
		})
		return err
	})
	return filled, res, err
}

// CancelListing deactivates an active listing. Seller or authority.
func (s *Service) CancelListing(ctx context.Context, caller, listingID string) (MarketListing, Result, error) {
	var cancelled MarketListing
	res, err := s.run(ctx, OpCancelListing, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("listing id", listingID); err != nil {
			return err
		}
		listing, ok := tx.FindListing(listingID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "listing %q not found", listingID)
		}
		if err := requireSelfOrAuthority(tx, caller, listing.SellerID); err != nil {
			return err
		}
		if !listing.Active {
			return domain.NewErrorf(domain.CodeListingInactive, "listing %q is no longer active", listingID)
		}
		now := tx.Now()
		var err error
		cancelled, err = tx.UpdateListing(listingID, func(l *MarketListing) error {
			l.Active = false
			l.ClosedAt = &now
			return nil
		})
		return err
	})
	return cancelled, res, err
}
