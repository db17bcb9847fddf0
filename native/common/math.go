package common

import (
	"math"
	"math/big"

	"repledger/core/errors"
)

// Checked arithmetic primitives. Every stored-balance mutation and every
// scoring or reward formula routes through these; no unchecked arithmetic
// touches persisted values.

// SafeAdd returns a+b, failing when the sum wraps the unsigned range.
func SafeAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.ErrArithmeticOverflow
	}
	return a + b, nil
}

// SafeSub returns a-b, failing when b exceeds a.
func SafeSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.ErrArithmeticUnderflow
	}
	return a - b, nil
}

// SafeMul returns a*b, failing when the product wraps the unsigned range.
func SafeMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, errors.ErrArithmeticOverflow
	}
	return product, nil
}

// NarrowBig reduces an arbitrary-precision intermediate back to uint64,
// failing when the value does not fit. Formula paths compute with big.Int
// and narrow exactly once at the end.
func NarrowBig(value *big.Int) (uint64, error) {
	if value == nil || value.Sign() < 0 {
		return 0, errors.ErrArithmeticUnderflow
	}
	if !value.IsUint64() {
		return 0, errors.ErrArithmeticOverflow
	}
	return value.Uint64(), nil
}
