package core

import (
	"bytes"
	"context"
	"net/http"

	"landledger/internal/vault"
	"landledger/pkg/domain"
)

// RegisterPropertyParams carries the immutable and initial attributes of a
// new property.
type RegisterPropertyParams struct {
	ID               string           `json:"id"`
	TotalShares      uint64           `json:"total_shares"`
	SharePrice       uint64           `json:"share_price"`
	Address          string           `json:"address"`
	Category         PropertyCategory `json:"category"`
	LegalDocHash     string           `json:"legal_doc_hash,omitempty"`
	InitialValuation uint64           `json:"initial_valuation"`
	KycRequired      bool             `json:"kyc_required"`
	ExpectedYieldBps uint64           `json:"expected_yield_bps,omitempty"`
}

func (p RegisterPropertyParams) validate() error {
	if err := validateIdentifier("property id", p.ID); err != nil {
		return err
	}
	if p.TotalShares == 0 {
		return domain.NewError(domain.CodeInvalidSupply, "total shares must be positive")
	}
	if p.SharePrice == 0 {
		return domain.NewError(domain.CodeInvalidPrice, "share price must be positive")
	}
	if err := validateText("address", p.Address, MaxAddressLength, true); err != nil {
		return err
	}
	if !p.Category.Valid() {
		return domain.NewErrorf(domain.CodeInvalidCategory, "unknown property category %q", p.Category)
	}
	if err := validateText("legal document hash", p.LegalDocHash, MaxDocRefLength, false); err != nil {
		return err
	}
	return validateBps("expected yield", p.ExpectedYieldBps)
}

// RegisterProperty registers a property with a fixed share supply. The
// caller becomes the property owner. Platform counters are updated in the
// same transaction.
func (s *Service) RegisterProperty(ctx context.Context, caller string, params RegisterPropertyParams) (Property, Result, error) {
	var created Property
	res, err := s.run(ctx, OpRegisterProperty, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := params.validate(); err != nil {
			return err
		}
		if _, err := requirePlatform(tx); err != nil {
			return err
		}
		if _, ok := tx.FindProperty(params.ID); ok {
			return domain.NewErrorf(domain.CodeAlreadyExists, "property %q already registered", params.ID)
		}
		now := tx.Now()
		property := Property{
			Base:             Base{ID: params.ID},
			OwnerID:          caller,
			Address:          params.Address,
			Category:         params.Category,
			LegalDocHash:     params.LegalDocHash,
			TotalShares:      params.TotalShares,
			SharePrice:       params.SharePrice,
			State:            PropertyActive,
			Valuation:        params.InitialValuation,
			KycRequired:      params.KycRequired,
			ExpectedYieldBps: params.ExpectedYieldBps,
		}
		if params.InitialValuation > 0 {
			t := now
			property.ValuationUpdatedAt = &t
		}
		var err error
		created, err = tx.CreateProperty(property)
		if err != nil {
			return err
		}
		_, err = tx.UpdatePlatformConfig(func(cfg *PlatformConfig) error {
			total, err := checkedAdd(cfg.TotalProperties, 1, "property count")
			if err != nil {
				return err
			}
			locked, err := checkedAdd(cfg.TotalValueLocked, params.InitialValuation, "total value locked")
			if err != nil {
				return err
			}
			cfg.TotalProperties = total
			cfg.TotalValueLocked = locked
			return nil
		})
		return err
	})
	return created, res, err
}

// UpdateValuation overwrites the property valuation and adjusts the locked
// value counter by the delta. Owner or authority.
func (s *Service) UpdateValuation(ctx context.Context, caller, propertyID string, newValue uint64) (Property, Result, error) {
	var updated Property
	res, err := s.run(ctx, OpUpdateValuation, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		if err := s.adjustLockedValue(tx, property.Valuation, newValue); err != nil {
			return err
		}
		now := tx.Now()
		updated, err = tx.UpdateProperty(propertyID, func(p *Property) error {
			p.Valuation = newValue
			p.ValuationUpdatedAt = &now
			return nil
		})
		return err
	})
	return updated, res, err
}

// adjustLockedValue moves the platform's TotalValueLocked from an old
// valuation to a new one.
func (s *Service) adjustLockedValue(tx Transaction, oldValue, newValue uint64) error {
	if oldValue == newValue {
		return nil
	}
	_, err := tx.UpdatePlatformConfig(func(cfg *PlatformConfig) error {
		var locked uint64
		var err error
		if newValue > oldValue {
			locked, err = checkedAdd(cfg.TotalValueLocked, newValue-oldValue, "total value locked")
		} else {
			locked, err = checkedSub(cfg.TotalValueLocked, oldValue-newValue, "total value locked")
		}
		if err != nil {
			return err
		}
		cfg.TotalValueLocked = locked
		return nil
	})
	return err
}

// UpdateExpectedYield updates the advertised rental yield. Owner or
// authority.
func (s *Service) UpdateExpectedYield(ctx context.Context, caller, propertyID string, yieldBps uint64) (Property, Result, error) {
	var updated Property
	res, err := s.run(ctx, OpUpdateExpectedYield, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if err := validateBps("expected yield", yieldBps); err != nil {
			return err
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		updated, err = tx.UpdateProperty(propertyID, func(p *Property) error {
			p.ExpectedYieldBps = yieldBps
			return nil
		})
		return err
	})
	return updated, res, err
}

// InitiateSale moves an active property to the listed_for_sale state and
// records the asking price. A positive reference valuation refreshes the
// property valuation in the same transaction. Owner or authority.
func (s *Service) InitiateSale(ctx context.Context, caller, propertyID string, askingPrice, referenceValuation uint64) (Property, Result, error) {
	var updated Property
	res, err := s.run(ctx, OpInitiateSale, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if askingPrice == 0 {
			return domain.NewError(domain.CodeInvalidPrice, "asking price must be positive")
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
			return err
		}
		switch property.State {
		case PropertyListedForSale:
			return domain.NewErrorf(domain.CodeAlreadyListedForSale, "property %q is already listed for sale", propertyID)
		case PropertySold:
			return domain.NewErrorf(domain.CodePropertyNotActive, "property %q has been sold", propertyID)
		}
		if referenceValuation > 0 {
			if err := s.adjustLockedValue(tx, property.Valuation, referenceValuation); err != nil {
				return err
			}
		}
		now := tx.Now()
		updated, err = tx.UpdateProperty(propertyID, func(p *Property) error {
			p.State = PropertyListedForSale
			p.SaleAskingPrice = askingPrice
			if referenceValuation > 0 {
				p.Valuation = referenceValuation
				p.ValuationUpdatedAt = &now
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// SaleOutcome reports the settled whole-property sale.
type SaleOutcome struct {
	Property Property `json:"property"`
	Fee      uint64   `json:"fee"`
	Net      uint64   `json:"net"`
}

// ExecuteSale settles a whole-property sale at the given price. The platform
// fee is deducted from the proceeds; the property becomes sold, which is
// terminal. Owner or authority.
func (s *Service) ExecuteSale(ctx context.Context, caller, propertyID string, salePrice uint64, buyer string) (SaleOutcome, Result, error) {
	var outcome SaleOutcome
	res, err := s.run(ctx, OpExecuteSale, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("property id", propertyID); err != nil {
			return err
		}
		if err := validateIdentifier("buyer", buyer); err != nil {
			return err
		}
		if salePrice == 0 {
			return domain.NewError(domain.CodeInvalidPrice, "sale price must be positive")
		}
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		if property.State != PropertyListedForSale {
			return domain.NewErrorf(domain.CodeNotListedForSale, "property %q is not listed for sale", propertyID)
		}
		cfg, err := requirePlatform(tx)
		if err != nil {
			return err
		}
		fee, err := checkedBpsOf(salePrice, cfg.FeeBps, "sale fee")
		if err != nil {
			return err
		}
		net, err := checkedSub(salePrice, fee, "sale proceeds")
		if err != nil {
			return err
		}
		if err := s.adjustLockedValue(tx, property.Valuation, 0); err != nil {
			return err
		}
		now := tx.Now()
		sold, err := tx.UpdateProperty(propertyID, func(p *Property) error {
			p.State = PropertySold
			p.SalePrice = salePrice
			p.SoldTo = buyer
			p.SoldAt = &now
			return nil
		})
		if err != nil {
			return err
		}
		outcome = SaleOutcome{Property: sold, Fee: fee, Net: net}
		return nil
	})
	return outcome, res, err
}

// AttachedDocument reports a stored legal document alongside the updated
// property record.
type AttachedDocument struct {
	Property Property   `json:"property"`
	Document vault.Info `json:"document"`
	Digest   string     `json:"digest"`
}

// AttachLegalDocument stores a legal document in the vault under a
// content-addressed key and records its digest on the property. Owner or
// authority. The vault write happens outside the ledger transaction; an
// orphaned document from an aborted commit is harmless because keys are
// content-addressed. Re-attaching identical content is idempotent.
func (s *Service) AttachLegalDocument(ctx context.Context, caller, propertyID, filename string, content []byte) (AttachedDocument, Result, error) {
	var attached AttachedDocument
	if err := validateIdentifier("caller", caller); err != nil {
		return attached, Result{}, err
	}
	if err := validateIdentifier("property id", propertyID); err != nil {
		return attached, Result{}, err
	}
	if err := validateText("filename", filename, MaxDocRefLength, true); err != nil {
		return attached, Result{}, err
	}
	if len(content) == 0 {
		return attached, Result{}, domain.NewError(domain.CodeMissingField, "document content is empty")
	}
	if err := s.precheckDocumentAccess(ctx, caller, propertyID); err != nil {
		return attached, Result{}, err
	}

	digest := vault.DocumentDigest(content)
	key := vault.DocumentKey(propertyID, digest)
	info, err := s.storeDocument(ctx, key, filename, propertyID, content)
	if err != nil {
		return attached, Result{}, err
	}

	res, err := s.run(ctx, OpAttachLegalDocument, caller, func(tx Transaction) error {
		property, err := findPropertyOrErr(tx, propertyID)
		if err != nil {
			return err
		}
		if err := requireOwnerOrAuthority(tx, caller, property); err != nil {
			return err
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		updated, err := tx.UpdateProperty(propertyID, func(p *Property) error {
			p.LegalDocHash = digest
			return nil
		})
		if err != nil {
			return err
		}
		attached = AttachedDocument{Property: updated, Document: info, Digest: digest}
		return nil
	})
	return attached, res, err
}

// precheckDocumentAccess rejects unauthorized callers before anything is
// written to the vault. The transaction re-checks afterwards; this gate only
// keeps junk out of the document store.
func (s *Service) precheckDocumentAccess(ctx context.Context, caller, propertyID string) error {
	return s.store.View(ctx, func(view TransactionView) error {
		property, ok := view.FindProperty(propertyID)
		if !ok {
			return domain.NewErrorf(domain.CodeNotFound, "property %q not found", propertyID)
		}
		if err := requireNotSold(property); err != nil {
			return err
		}
		if caller == property.OwnerID {
			return nil
		}
		if cfg, ok := view.FindPlatformConfig(); ok && caller == cfg.AuthorityID {
			return nil
		}
		return domain.NewErrorf(domain.CodeUnauthorized, "caller %q is neither owner of property %q nor the platform authority", caller, propertyID)
	})
}

// storeDocument writes the document unless the content-addressed key is
// already present.
func (s *Service) storeDocument(ctx context.Context, key, filename, propertyID string, content []byte) (vault.Info, error) {
	if info, err := s.vault.Head(ctx, key); err == nil {
		return info, nil
	}
	return s.vault.Put(ctx, key, bytes.NewReader(content), vault.PutOptions{
		ContentType: http.DetectContentType(content),
		Metadata: map[string]string{
			"filename": filename,
			"property": propertyID,
		},
	})
}
