package listingevents

import (
	"context"
	"encoding/json"

	"airgrid-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Record writes an audit event inside the caller's transaction so the event
// is only visible if the mutation it describes commits.
func Record(tx *gorm.DB, listingID uint64, eventType string, actor uuid.UUID, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		Actor:     actor,
		EventData: datatypes.JSON(data),
	}).Error
}

// ListForListing returns a listing's events oldest-first.
func (s *Service) ListForListing(ctx context.Context, listingID uint64) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("\"createdAt\" ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
