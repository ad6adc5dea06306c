// Package fixedpoint implements checked unsigned fixed-point arithmetic for
// share quantities, currency amounts, and basis-point ratios. All helpers
// return an explicit error instead of wrapping or saturating so ledger code
// never commits a silently corrupted balance.
package fixedpoint

import (
	"errors"
	"math/bits"
)

// Denominator is the basis-point scale used for ownership ratios and fees.
const Denominator uint64 = 10_000

// MaxBps is the largest valid basis-point value (100%).
const MaxBps uint64 = 10_000

// ErrOverflow reports an addition or multiplication that exceeds uint64 range.
var ErrOverflow = errors.New("fixedpoint: overflow")

// ErrUnderflow reports a subtraction that would go below zero.
var ErrUnderflow = errors.New("fixedpoint: underflow")

// ErrDivideByZero reports a division with a zero divisor.
var ErrDivideByZero = errors.New("fixedpoint: divide by zero")

// Add returns a+b, failing with ErrOverflow when the sum does not fit.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, failing with ErrUnderflow when b exceeds a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b, failing with ErrOverflow when the product does not fit.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns a*b/div using a 128-bit intermediate product, so the
// multiplication cannot overflow before the division. It fails with
// ErrDivideByZero when div is zero and ErrOverflow when the quotient does
// not fit in a uint64.
func MulDiv(a, b, div uint64) (uint64, error) {
	if div == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, div)
	return quo, nil
}

// BpsOf returns amount scaled by a basis-point ratio: amount*bps/10000.
func BpsOf(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, Denominator)
}

// RatioBps returns part/whole expressed in basis points: part*10000/whole.
func RatioBps(part, whole uint64) (uint64, error) {
	return MulDiv(part, Denominator, whole)
}

// ValidBps reports whether bps is a legal basis-point value in [0, 10000].
func ValidBps(bps uint64) bool {
	return bps <= MaxBps
}
