package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing lifecycle event types.
const (
	EventListingCreated = "CREATED"
	EventPriceUpdated   = "PRICE_UPDATED"
	EventListingSold    = "SOLD"
	EventListingLeased  = "LEASED"
	EventListingCancel  = "CANCELLED"
)

// ListingEvent is an audit row written in the same transaction as the
// lifecycle mutation it describes.
type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID uint64         `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(20);not null" json:"event_type"`
	Actor     uuid.UUID      `gorm:"column:actor;type:uuid;not null" json:"actor"`
	EventData datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

// BeforeCreate sets event_id for DBs without a default uuid.
func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
