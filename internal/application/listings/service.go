// Package listings is the read side: individual listings, filtered
// collections, locale indexes and lease records.
package listings

import (
	"context"
	"errors"

	"airgrid-backend/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Filter narrows List. Nil fields are ignored; grid filters must be set as a
// pair to select one cell.
type Filter struct {
	Status  *string
	City    *string
	Country *string
	GridX   *uint32
	GridY   *uint32
}

func (s *Service) GetByID(ctx context.Context, id uint64) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{})
	if f.Status != nil && *f.Status != "" {
		q = q.Where("status = ?", *f.Status)
	}
	if f.City != nil && *f.City != "" {
		q = q.Where("city = ?", *f.City)
	}
	if f.Country != nil && *f.Country != "" {
		q = q.Where("country = ?", *f.Country)
	}
	if f.GridX != nil && f.GridY != nil {
		q = q.Where("grid_x = ? AND grid_y = ?", *f.GridX, *f.GridY)
	}

	var listings []domain.Listing
	if err := q.Order("listing_id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) LocationIndex(ctx context.Context, city, country string) (*domain.LocationIndex, error) {
	var index domain.LocationIndex
	if err := s.DB.WithContext(ctx).Where("city = ? AND country = ?", city, country).First(&index).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLocationIndexNotFound
		}
		return nil, err
	}
	return &index, nil
}

func (s *Service) LeasesForListing(ctx context.Context, listingID uint64) ([]domain.LeaseRecord, error) {
	var leases []domain.LeaseRecord
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("start_date ASC").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

func (s *Service) Registry(ctx context.Context) (*domain.Registry, error) {
	var registry domain.Registry
	if err := s.DB.WithContext(ctx).Where("id = ?", domain.RegistryKey).First(&registry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistryNotInitialized
		}
		return nil, err
	}
	return &registry, nil
}
