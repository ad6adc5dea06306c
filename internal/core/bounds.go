package core

import (
	"time"

	"landledger/pkg/domain"
	"landledger/pkg/fixedpoint"
)

// Input bounds enforced before any state is read. Lengths are in bytes.
const (
	MaxIDLength          = 64
	MaxAddressLength     = 128
	MaxDocRefLength      = 128
	MaxTitleLength       = 128
	MaxDescriptionLength = 1024
	MinVotingPeriod      = time.Hour
	MaxVotingPeriod      = 8760 * time.Hour
	MaxBatchSize         = 20
)

func validateIdentifier(field, value string) error {
	if value == "" {
		return domain.NewErrorf(domain.CodeInvalidIdentity, "%s is required", field)
	}
	if len(value) > MaxIDLength {
		return domain.NewErrorf(domain.CodeFieldTooLong, "%s exceeds %d bytes", field, MaxIDLength)
	}
	return nil
}

func validateText(field, value string, max int, required bool) error {
	if value == "" {
		if required {
			return domain.NewErrorf(domain.CodeMissingField, "%s is required", field)
		}
		return nil
	}
	if len(value) > max {
		return domain.NewErrorf(domain.CodeFieldTooLong, "%s exceeds %d bytes", field, max)
	}
	return nil
}

func validateBps(field string, bps uint64) error {
	if !fixedpoint.ValidBps(bps) {
		return domain.NewErrorf(domain.CodeInvalidBps, "%s %d exceeds %d basis points", field, bps, fixedpoint.MaxBps)
	}
	return nil
}

func validateBatchSize(n int) error {
	if n == 0 {
		return domain.NewError(domain.CodeEmptyBatch, "batch is empty")
	}
	if n > MaxBatchSize {
		return domain.NewErrorf(domain.CodeBatchTooLarge, "batch of %d exceeds the %d entry cap", n, MaxBatchSize)
	}
	return nil
}

// Checked arithmetic wrappers translating fixedpoint failures into ledger
// errors. The what argument names the quantity for the error message.

func checkedAdd(a, b uint64, what string) (uint64, error) {
	sum, err := fixedpoint.Add(a, b)
	if err != nil {
		return 0, domain.WrapError(domain.CodeMathOverflow, what+" overflows", err)
	}
	return sum, nil
}

func checkedSub(a, b uint64, what string) (uint64, error) {
	diff, err := fixedpoint.Sub(a, b)
	if err != nil {
		return 0, domain.WrapError(domain.CodeMathOverflow, what+" underflows", err)
	}
	return diff, nil
}

func checkedMul(a, b uint64, what string) (uint64, error) {
	product, err := fixedpoint.Mul(a, b)
	if err != nil {
		return 0, domain.WrapError(domain.CodeMathOverflow, what+" overflows", err)
	}
	return product, nil
}

func checkedBpsOf(amount, bps uint64, what string) (uint64, error) {
	v, err := fixedpoint.BpsOf(amount, bps)
	if err != nil {
		return 0, domain.WrapError(domain.CodeMathOverflow, what+" overflows", err)
	}
	return v, nil
}

func checkedRatioBps(part, whole uint64, what string) (uint64, error) {
	v, err := fixedpoint.RatioBps(part, whole)
	if err != nil {
		return 0, domain.WrapError(domain.CodeMathOverflow, what+" overflows", err)
	}
	return v, nil
}
