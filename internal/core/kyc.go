package core

import (
	"context"
)

// SetKycStatus records the verification status for a holder, upserting the
// holder's record. Authority only. Both directions are supported: a holder
// can be verified and later revoked.
func (s *Service) SetKycStatus(ctx context.Context, caller, holder string, verified bool, provider, attestationID string) (KycRecord, Result, error) {
	var record KycRecord
	res, err := s.run(ctx, OpSetKycStatus, caller, func(tx Transaction) error {
		if err := validateIdentifier("caller", caller); err != nil {
			return err
		}
		if err := validateIdentifier("holder", holder); err != nil {
			return err
		}
		if err := validateText("provider", provider, MaxIDLength, false); err != nil {
			return err
		}
		if err := validateText("attestation id", attestationID, MaxDocRefLength, false); err != nil {
			return err
		}
		if _, err := requireAuthority(tx, caller); err != nil {
			return err
		}
		now := tx.Now()
		apply := func(r *KycRecord) error {
			r.Verified = verified
			r.Provider = provider
			r.AttestationID = attestationID
			if verified {
				t := now
				r.VerifiedAt = &t
			} else {
				r.VerifiedAt = nil
			}
			return nil
		}
		var err error
		if _, ok := tx.FindKycRecord(holder); ok {
			record, err = tx.UpdateKycRecord(holder, apply)
			return err
		}
		fresh := KycRecord{HolderID: holder}
		if err := apply(&fresh); err != nil {
			return err
		}
		record, err = tx.CreateKycRecord(fresh)
		return err
	})
	return record, res, err
}
