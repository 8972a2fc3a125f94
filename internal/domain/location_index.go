package domain

// LocationIndex is the per-locale aggregate, keyed by (city, country) and
// created lazily by the first listing at that locale. ListingCount is
// incremented on creation and decremented (saturating at 0) on cancellation
// only; settled listings do not adjust it.
type LocationIndex struct {
	City         string `gorm:"column:city;size:50;primaryKey" json:"city"`
	Country      string `gorm:"column:country;size:3;primaryKey" json:"country"`
	ListingCount uint32 `gorm:"column:listing_count;not null;default:0" json:"listing_count"`
}

func (LocationIndex) TableName() string {
	return "LocationIndexes"
}

// DecrementSaturating lowers ListingCount by one, flooring at zero. Kept as
// an explicit primitive so the floor never silently becomes a wrap.
func (l *LocationIndex) DecrementSaturating() {
	if l.ListingCount > 0 {
		l.ListingCount--
	}
}
