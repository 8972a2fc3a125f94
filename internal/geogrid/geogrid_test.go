package geogrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell_Origin(t *testing.T) {
	x, y := Cell(0, 0)
	assert.Equal(t, uint32(18000), x)
	assert.Equal(t, uint32(9000), y)
}

func TestCell_Deterministic(t *testing.T) {
	x1, y1 := Cell(40_000_000, -74_000_000)
	x2, y2 := Cell(40_000_000, -74_000_000)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestCell_KnownCities(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon int32
		x, y     uint32
	}{
		{"new york", 40_712_800, -74_006_000, 10599, 13071},
		{"mumbai", 19_076_000, 72_877_700, 25287, 10907},
		{"south pole", -90_000_000, 0, 18000, 0},
		{"date line east", 0, 180_000_000, 36000, 9000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := Cell(tc.lat, tc.lon)
			assert.Equal(t, tc.x, x)
			assert.Equal(t, tc.y, y)
		})
	}
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0, 0))
	assert.True(t, InRange(90_000_000, -180_000_000))
	assert.True(t, InRange(-90_000_000, 180_000_000))
	assert.False(t, InRange(90_000_001, 0))
	assert.False(t, InRange(-90_000_001, 0))
	assert.False(t, InRange(0, 180_000_001))
	assert.False(t, InRange(0, -180_000_001))
}
