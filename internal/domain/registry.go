package domain

import "github.com/google/uuid"

// RegistryKey is the fixed primary key of the singleton registry row.
const RegistryKey = 1

// DefaultPlatformFeeBps is the fee rate fixed at registry initialization (2.5%).
const DefaultPlatformFeeBps uint16 = 250

// Registry is the marketplace singleton: the deployer identity, the next
// listing id to assign and the platform fee rate. TotalListings only ever
// increases; ids are never reused.
type Registry struct {
	ID             uint8     `gorm:"column:id;primaryKey" json:"-"`
	Authority      uuid.UUID `gorm:"column:authority;type:uuid;not null" json:"authority"`
	TotalListings  uint64    `gorm:"column:total_listings;not null;default:0" json:"total_listings"`
	PlatformFeeBps uint16    `gorm:"column:platform_fee_bps;not null" json:"platform_fee_bps"`
}

func (Registry) TableName() string {
	return "Registry"
}
