package domain

import "github.com/google/uuid"

// LeaseRecord is the settlement record written when a lease offer is
// accepted, keyed by (listing_id, lessee). Immutable after creation; no
// expiry sweep transitions IsActive.
type LeaseRecord struct {
	ListingID  uint64    `gorm:"column:listing_id;primaryKey;autoIncrement:false" json:"listing_id"`
	Lessee     uuid.UUID `gorm:"column:lessee;type:uuid;primaryKey" json:"lessee"`
	Lessor     uuid.UUID `gorm:"column:lessor;type:uuid;not null" json:"lessor"`
	StartDate  int64     `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    int64     `gorm:"column:end_date;not null" json:"end_date"`
	AmountPaid uint64    `gorm:"column:amount_paid;not null" json:"amount_paid"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

func (LeaseRecord) TableName() string {
	return "LeaseRecords"
}
