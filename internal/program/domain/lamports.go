package domain

import (
	"math/bits"

	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// RentExemptMinimum is the minimum balance reserved on a zero-data holding
// account. Withdrawals and refunds never dip an escrow below this amount.
const RentExemptMinimum uint64 = 890_880

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10_000

// CheckedAdd returns a+b, or an arithmetic error on overflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errors.New(errors.CodeArithmeticOverflow, "addition overflow")
	}
	return sum, nil
}

// CheckedSub returns a-b, or an arithmetic error on underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, errors.New(errors.CodeArithmeticOverflow, "subtraction underflow")
	}
	return diff, nil
}

// CheckedMul returns a*b, or an arithmetic error on overflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errors.New(errors.CodeArithmeticOverflow, "multiplication overflow")
	}
	return lo, nil
}

// CheckedAddU32 returns a+b for 32-bit counters, or an arithmetic error.
func CheckedAddU32(a, b uint32) (uint32, error) {
	sum := uint64(a) + uint64(b)
	if sum > 1<<32-1 {
		return 0, errors.New(errors.CodeArithmeticOverflow, "counter overflow")
	}
	return uint32(sum), nil
}

// MulDiv computes floor(a*b/den) with a 128-bit intermediate so the product
// cannot overflow. den must be non-zero and the quotient must fit in 64 bits;
// callers satisfy the latter by keeping b <= den (proportional splits) or by
// bounding inputs.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, errors.New(errors.CodeArithmeticOverflow, "division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, errors.New(errors.CodeArithmeticOverflow, "quotient overflow")
	}
	quot, _ := bits.Div64(hi, lo, den)
	return quot, nil
}

// MulBps computes floor(amount * bps / 10000).
func MulBps(amount uint64, bps uint16) (uint64, error) {
	return MulDiv(amount, uint64(bps), BpsDenominator)
}

// ProportionalShare computes floor(amount * pool / total), the proportional
// slice of pool owned by amount out of total. Returns 0 when total is 0.
func ProportionalShare(amount, pool, total uint64) uint64 {
	if total == 0 {
		return 0
	}
	// amount <= total in every call site, so the quotient is <= pool and
	// always fits; MulDiv cannot fail here.
	share, err := MulDiv(amount, pool, total)
	if err != nil {
		return 0
	}
	return share
}
