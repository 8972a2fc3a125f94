// Package geogrid maps fixed-point microdegree coordinates to quantized grid
// cells for coarse spatial bucketing. Cells are 0.01 degree on a side, so an
// external indexer can run range queries without decoding raw coordinates.
package geogrid

// Microdegree coordinate bounds and the cell size in microdegrees.
const (
	MinLatitude  = -90_000_000
	MaxLatitude  = 90_000_000
	MinLongitude = -180_000_000
	MaxLongitude = 180_000_000

	cellSize = 10_000
)

// Cell returns the grid bucket for a coordinate pair. The shift makes both
// operands non-negative before the truncating division, so the result is
// deterministic for any in-range input. Inputs outside the valid coordinate
// range are not defended here; callers gate with InRange first.
func Cell(latitude, longitude int32) (gridX, gridY uint32) {
	gridX = uint32((int64(longitude) + 180_000_000) / cellSize)
	gridY = uint32((int64(latitude) + 90_000_000) / cellSize)
	return gridX, gridY
}

// InRange reports whether the coordinate pair is a valid Earth position in
// microdegrees.
func InRange(latitude, longitude int32) bool {
	return latitude >= MinLatitude && latitude <= MaxLatitude &&
		longitude >= MinLongitude && longitude <= MaxLongitude
}
