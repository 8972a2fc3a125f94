package feemath

import (
	"math"
	"testing"

	"airgrid-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_StandardFee(t *testing.T) {
	fee, remainder, err := Split(1_000_000, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), fee)
	assert.Equal(t, uint64(975_000), remainder)
}

func TestSplit_Floors(t *testing.T) {
	// 99 * 250 / 10000 = 2.475 -> 2
	fee, remainder, err := Split(99, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), fee)
	assert.Equal(t, uint64(97), remainder)
}

func TestSplit_ConservesValue(t *testing.T) {
	amounts := []uint64{0, 1, 7, 9999, 10000, 10001, 123_456_789, math.MaxUint64}
	rates := []uint16{0, 1, 250, 9999, 10000}
	for _, amount := range amounts {
		for _, bps := range rates {
			fee, remainder, err := Split(amount, bps)
			require.NoError(t, err)
			assert.Equal(t, amount, fee+remainder, "amount=%d bps=%d", amount, bps)
			assert.LessOrEqual(t, fee, amount)
		}
	}
}

func TestSplit_MaxAmountFullRate(t *testing.T) {
	fee, remainder, err := Split(math.MaxUint64, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), fee)
	assert.Equal(t, uint64(0), remainder)
}

func TestSplit_RejectsRateAboveDenominator(t *testing.T) {
	_, _, err := Split(100, 10001)
	assert.ErrorIs(t, err, domain.ErrFeeOverflow)
}
