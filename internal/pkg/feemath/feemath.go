// Package feemath computes basis-point fee splits in widened checked
// arithmetic. The split conserves value exactly: fee + remainder == amount.
package feemath

import (
	"math/bits"

	"airgrid-backend/internal/domain"
)

// BpsDenominator is the basis-point scale (10000 bps == 100%).
const BpsDenominator = 10000

// Split divides amount into a platform fee of bps basis points (floored) and
// the remainder owed to the counterparty. The multiply is carried in 128 bits;
// a quotient that does not fit u64 aborts with ErrFeeOverflow rather than
// wrapping. bps above the denominator is rejected the same way, since the fee
// would exceed the amount.
func Split(amount uint64, bps uint16) (fee, remainder uint64, err error) {
	if uint64(bps) > BpsDenominator {
		return 0, 0, domain.ErrFeeOverflow
	}
	hi, lo := bits.Mul64(amount, uint64(bps))
	// bits.Div64 panics when the quotient overflows; with bps <= 10000 the
	// quotient is at most amount, but the guard keeps the abort explicit.
	if hi >= BpsDenominator {
		return 0, 0, domain.ErrFeeOverflow
	}
	fee, _ = bits.Div64(hi, lo, BpsDenominator)
	return fee, amount - fee, nil
}
