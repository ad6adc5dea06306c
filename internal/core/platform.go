package core

import (
	"context"

	"landledger/pkg/domain"
)

// InitializePlatform creates the singleton platform configuration. It can
// succeed exactly once; the authority recorded here gates every privileged
// operation afterwards.
func (s *Service) InitializePlatform(ctx context.Context, authority string, feeBps, governanceThreshold uint64) (PlatformConfig, Result, error) {
	var created PlatformConfig
	res, err := s.run(ctx, OpInitializePlatform, authority, func(tx Transaction) error {
		if err := validateIdentifier("authority", authority); err != nil {
			return err
		}
		if err := validateBps("platform fee", feeBps); err != nil {
			return err
		}
		if _, ok := tx.FindPlatformConfig(); ok {
			return domain.NewError(domain.CodeAlreadyInitialized, "platform already initialized")
		}
		var err error
		created, err = tx.CreatePlatformConfig(PlatformConfig{
			AuthorityID:         authority,
			FeeBps:              feeBps,
			GovernanceThreshold: governanceThreshold,
		})
		return err
	})
	return created, res, err
}

// UpdatePlatformFee changes the platform fee taken on income accrual and
// property sales. Authority only.
func (s *Service) UpdatePlatformFee(ctx context.Context, caller string, feeBps uint64) (PlatformConfig, Result, error) {
	var updated PlatformConfig
	res, err := s.run(ctx, OpUpdatePlatformFee, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateBps("platform fee", feeBps); err != nil {
			return err
		}
		if _, err := requireAuthority(tx, caller); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdatePlatformConfig(func(cfg *PlatformConfig) error {
			cfg.FeeBps = feeBps
			return nil
		})
		return err
	})
	return updated, res, err
}

// UpdateGovernanceThreshold changes the minimum share holding required to
// open a proposal. Authority only.
func (s *Service) UpdateGovernanceThreshold(ctx context.Context, caller string, threshold uint64) (PlatformConfig, Result, error) {
	var updated PlatformConfig
	res, err := s.run(ctx, OpUpdateGovernanceThreshold, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if _, err := requireAuthority(tx, caller); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdatePlatformConfig(func(cfg *PlatformConfig) error {
			cfg.GovernanceThreshold = threshold
			return nil
		})
		return err
	})
	return updated, res, err
}

// RecordPriceReference stores the latest external price feed observation.
// Feed values arrive as inputs; the ledger never fetches them. Rounds must
// strictly increase so a stale observation can never overwrite a newer one.
func (s *Service) RecordPriceReference(ctx context.Context, caller string, price, round uint64) (PlatformConfig, Result, error) {
	var updated PlatformConfig
	res, err := s.run(ctx, OpRecordPriceReference, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if price == 0 {
			return domain.NewError(domain.CodeInvalidPrice, "reference price must be positive")
		}
		cfg, err := requireAuthority(tx, caller)
		if err != nil {
			return err
		}
		if cfg.ReferencePriceAt != nil && round <= cfg.ReferenceRound {
			return domain.NewErrorf(domain.CodeAlreadyExists, "price round %d is not newer than %d", round, cfg.ReferenceRound)
		}
		now := tx.Now()
		updated, err = tx.UpdatePlatformConfig(func(cfg *PlatformConfig) error {
			cfg.ReferencePrice = price
			cfg.ReferenceRound = round
			cfg.ReferencePriceAt = &now
			return nil
		})
		return err
	})
	return updated, res, err
}

// PlatformSnapshot returns the committed platform configuration.
func (s *Service) PlatformSnapshot() (PlatformConfig, bool) {
	return s.store.GetPlatformConfig()
}
