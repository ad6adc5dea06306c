package core

import "landledger/pkg/domain"

// Capability checks evaluated inside each operation's transaction. They read
// the pending snapshot, so an authority change earlier in the same
// transaction is already visible.

// requirePlatform returns the platform configuration, failing when the
// platform has not been initialized yet.
func requirePlatform(tx Transaction) (PlatformConfig, error) {
	cfg, ok := tx.FindPlatformConfig()
	if !ok {
		return PlatformConfig{}, domain.NewError(domain.CodeNotFound, "platform not initialized")
	}
	return cfg, nil
}

// requireAuthority verifies the caller is the platform authority.
func requireAuthority(tx Transaction, caller string) (PlatformConfig, error) {
	cfg, err := requirePlatform(tx)
	if err != nil {
		return PlatformConfig{}, err
	}
	if caller != cfg.AuthorityID {
		return PlatformConfig{}, domain.NewErrorf(domain.CodeUnauthorized, "caller %q is not the platform authority", caller)
	}
	return cfg, nil
}

// isAuthority reports whether the caller is the platform authority. A
// missing platform configuration grants nothing.
func isAuthority(tx Transaction, caller string) bool {
	cfg, ok := tx.FindPlatformConfig()
	return ok && caller == cfg.AuthorityID
}

// requireOwnerOrAuthority verifies the caller owns the property or is the
// platform authority.
func requireOwnerOrAuthority(tx Transaction, caller string, property Property) error {
	if caller == property.OwnerID || isAuthority(tx, caller) {
		return nil
	}
	return domain.NewErrorf(domain.CodeUnauthorized, "caller %q is neither owner of property %q nor the platform authority", caller, property.ID)
}

// requireSelfOrAuthority verifies the caller acts on their own behalf or is
// the platform authority.
func requireSelfOrAuthority(tx Transaction, caller, identity string) error {
	if caller == identity || isAuthority(tx, caller) {
		return nil
	}
	return domain.NewErrorf(domain.CodeUnauthorized, "caller %q may not act for %q", caller, identity)
}

// requireKycCleared enforces the property's KYC gate for an acquiring
// holder. Properties without the gate admit anyone.
func requireKycCleared(tx Transaction, property Property, holder string) error {
	if !property.KycRequired {
		return nil
	}
	record, ok := tx.FindKycRecord(holder)
	if !ok || !record.Verified {
		return domain.NewErrorf(domain.CodeKycNotVerified, "holder %q is not KYC verified for property %q", holder, property.ID)
	}
	return nil
}

// findPropertyOrErr resolves a property by ID.
func findPropertyOrErr(tx Transaction, id string) (Property, error) {
	property, ok := tx.FindProperty(id)
	if !ok {
		return Property{}, domain.NewErrorf(domain.CodeNotFound, "property %q not found", id)
	}
	return property, nil
}

// requireNotSold rejects operations on a property that has been sold.
func requireNotSold(property Property) error {
	if property.State == PropertySold {
		return domain.NewErrorf(domain.CodePropertySold, "property %q has been sold", property.ID)
	}
	return nil
}
