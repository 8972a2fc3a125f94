package domain

import "github.com/google/uuid"

// Listing type and status values. ListingType is immutable after creation.
const (
	ListingTypeSale  = "sale"
	ListingTypeLease = "lease"

	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusLeased    = "leased"
	ListingStatusCancelled = "cancelled"
)

// Limits on caller-supplied creation fields.
const (
	MaxMetadataURILen = 200
	MaxCityLen        = 50
	MinCountryLen     = 2
	MaxCountryLen     = 3
)

// Location is the parcel's position, embedded in Listing. Latitude and
// longitude are fixed-point microdegrees (degrees * 1_000_000); grid_x and
// grid_y are the derived spatial bucket, computed once at creation and never
// mutated independently.
type Location struct {
	Latitude  int32  `gorm:"column:latitude;not null" json:"latitude"`
	Longitude int32  `gorm:"column:longitude;not null" json:"longitude"`
	GridX     uint32 `gorm:"column:grid_x;not null;index:idx_grid_cell" json:"grid_x"`
	GridY     uint32 `gorm:"column:grid_y;not null;index:idx_grid_cell" json:"grid_y"`
	City      string `gorm:"column:city;size:50;not null" json:"city"`
	Country   string `gorm:"column:country;size:3;not null" json:"country"`
}

// Listing is an offer to sell or lease a vertical airspace parcel. Listings
// are retained as historical records after settlement or cancellation and are
// never deleted.
type Listing struct {
	ListingID    uint64     `gorm:"column:listing_id;primaryKey;autoIncrement:false" json:"listing_id"`
	Owner        uuid.UUID  `gorm:"column:owner;type:uuid;not null" json:"owner"`
	Location     Location   `gorm:"embedded" json:"location"`
	HeightFrom   uint16     `gorm:"column:height_from;not null" json:"height_from"`
	HeightTo     uint16     `gorm:"column:height_to;not null" json:"height_to"`
	AreaSqm      uint32     `gorm:"column:area_sqm;not null" json:"area_sqm"`
	Price        uint64     `gorm:"column:price;not null" json:"price"`
	ListingType  string     `gorm:"column:listing_type;type:varchar(10);not null" json:"listing_type"`
	Status       string     `gorm:"column:status;type:varchar(10);not null;default:'active'" json:"status"`
	DurationDays uint32     `gorm:"column:duration_days;not null;default:0" json:"duration_days"`
	CreatedAt    int64      `gorm:"column:created_at;not null" json:"created_at"`
	MetadataURI  string     `gorm:"column:metadata_uri;size:200;not null" json:"metadata_uri"`
	Buyer        *uuid.UUID `gorm:"column:buyer;type:uuid" json:"buyer"`
}

func (Listing) TableName() string {
	return "Listings"
}
