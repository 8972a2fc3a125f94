// Package marketplace implements the air-rights record lifecycle: listing
// creation with derived grid keys, purchase/lease settlement with fee
// splitting, cancellation and price updates. Every operation validates first,
// then applies all of its entity mutations and ledger transfers inside one
// transaction, so no partial application is observable.
package marketplace

import (
	"context"
	"errors"
	"time"

	"airgrid-backend/internal/application/listingevents"
	"airgrid-backend/internal/domain"
	"airgrid-backend/internal/geogrid"
	"airgrid-backend/internal/pkg/feemath"
	"airgrid-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is the external ledger-transfer capability. The tx argument carries
// the calling operation's transaction so a transfer and the listing mutation
// commit or roll back together.
type Ledger interface {
	Transfer(ctx context.Context, tx *gorm.DB, from, to uuid.UUID, amount uint64) error
}

type Service struct {
	DB       *gorm.DB
	Ledger   Ledger
	Treasury uuid.UUID
	Now      func() time.Time
}

func (s *Service) now() int64 {
	if s.Now != nil {
		return s.Now().Unix()
	}
	return time.Now().Unix()
}

// InitializeRegistry creates the singleton registry with a zero listing
// counter and the fixed platform fee. A second call fails with AlreadyExists.
func (s *Service) InitializeRegistry(ctx context.Context, authority uuid.UUID) (*domain.Registry, error) {
	registry := &domain.Registry{
		ID:             domain.RegistryKey,
		Authority:      authority,
		TotalListings:  0,
		PlatformFeeBps: domain.DefaultPlatformFeeBps,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Registry
		err := tx.Where("id = ?", domain.RegistryKey).First(&existing).Error
		if err == nil {
			return domain.ErrRegistryExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(registry).Error
	})
	metrics.CountOperation("initialize_registry", err)
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// CreateListingInput carries the caller-supplied listing fields. Coordinates
// are fixed-point microdegrees.
type CreateListingInput struct {
	Latitude     int32
	Longitude    int32
	HeightFrom   uint16
	HeightTo     uint16
	AreaSqm      uint32
	Price        uint64
	ListingType  string
	DurationDays uint32
	City         string
	Country      string
	MetadataURI  string
}

// Validate checks inputs in a fixed order; the first failure wins and nothing
// is mutated.
func (in CreateListingInput) Validate() error {
	if in.ListingType != domain.ListingTypeSale && in.ListingType != domain.ListingTypeLease {
		return domain.ErrInvalidListingType
	}
	if len(in.MetadataURI) > domain.MaxMetadataURILen {
		return domain.ErrMetadataURITooLong
	}
	if len(in.City) < 1 || len(in.City) > domain.MaxCityLen {
		return domain.ErrCityNameTooLong
	}
	if len(in.Country) < domain.MinCountryLen || len(in.Country) > domain.MaxCountryLen {
		return domain.ErrCountryCodeInvalid
	}
	if in.HeightTo <= in.HeightFrom {
		return domain.ErrInvalidHeightRange
	}
	if in.Price == 0 {
		return domain.ErrInvalidPrice
	}
	if !geogrid.InRange(in.Latitude, in.Longitude) {
		return domain.ErrCoordinateOutOfRange
	}
	return nil
}

// CreateListing assigns the next listing id from the registry, derives the
// grid cell, creates the listing and bumps the locale's index — all in one
// unit of work.
func (s *Service) CreateListing(ctx context.Context, owner uuid.UUID, in CreateListingInput) (*domain.Listing, error) {
	listing, err := s.createListing(ctx, owner, in)
	metrics.CountOperation("create_listing", err)
	return listing, err
}

func (s *Service) createListing(ctx context.Context, owner uuid.UUID, in CreateListingInput) (*domain.Listing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	gridX, gridY := geogrid.Cell(in.Latitude, in.Longitude)
	listing := &domain.Listing{
		Owner: owner,
		Location: domain.Location{
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			GridX:     gridX,
			GridY:     gridY,
			City:      in.City,
			Country:   in.Country,
		},
		HeightFrom:   in.HeightFrom,
		HeightTo:     in.HeightTo,
		AreaSqm:      in.AreaSqm,
		Price:        in.Price,
		ListingType:  in.ListingType,
		Status:       domain.ListingStatusActive,
		DurationDays: in.DurationDays,
		CreatedAt:    s.now(),
		MetadataURI:  in.MetadataURI,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Incrementing first takes the registry row lock, so concurrent
		// creates serialize on it and each transaction reads back its own
		// counter value for the id assignment.
		res := tx.Model(&domain.Registry{}).Where("id = ?", domain.RegistryKey).
			Update("total_listings", gorm.Expr("total_listings + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRegistryNotInitialized
		}
		var registry domain.Registry
		if err := tx.Where("id = ?", domain.RegistryKey).First(&registry).Error; err != nil {
			return err
		}

		listing.ListingID = registry.TotalListings - 1
		if err := tx.Create(listing).Error; err != nil {
			return err
		}

		// First writer at a locale initializes its index row.
		var index domain.LocationIndex
		err := tx.Where("city = ? AND country = ?", in.City, in.Country).First(&index).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			index = domain.LocationIndex{City: in.City, Country: in.Country, ListingCount: 1}
			if err := tx.Create(&index).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			if err := tx.Model(&domain.LocationIndex{}).
				Where("city = ? AND country = ?", in.City, in.Country).
				Update("listing_count", gorm.Expr("listing_count + 1")).Error; err != nil {
				return err
			}
		}

		return listingevents.Record(tx, listing.ListingID, domain.EventListingCreated, owner, map[string]interface{}{
			"listing_type": listing.ListingType,
			"price":        listing.Price,
			"grid_x":       gridX,
			"grid_y":       gridY,
		})
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Purchase settles a sale listing: split the price, pay the designated
// seller and the treasury from the buyer, then mark the listing sold. A
// failed transfer rolls back every mutation.
func (s *Service) Purchase(ctx context.Context, buyer uuid.UUID, listingID uint64, seller uuid.UUID) (*domain.Listing, error) {
	listing, err := s.settle(ctx, buyer, listingID, settleParams{
		wantType:  domain.ListingTypeSale,
		typeErr:   domain.ErrNotForSale,
		payee:     &seller,
		endStatus: domain.ListingStatusSold,
		eventType: domain.EventListingSold,
	})
	metrics.CountOperation("purchase_air_rights", err)
	return listing, err
}

// Lease settles a lease listing against the listing owner as lessor and
// writes the lease record for (listing, lessee).
func (s *Service) Lease(ctx context.Context, lessee uuid.UUID, listingID uint64) (*domain.Listing, *domain.LeaseRecord, error) {
	var lease *domain.LeaseRecord
	listing, err := s.settle(ctx, lessee, listingID, settleParams{
		wantType:  domain.ListingTypeLease,
		typeErr:   domain.ErrNotForLease,
		payee:     nil, // lessor is the listing owner
		endStatus: domain.ListingStatusLeased,
		eventType: domain.EventListingLeased,
		afterTransfers: func(tx *gorm.DB, listing *domain.Listing) error {
			start := s.now()
			lease = &domain.LeaseRecord{
				ListingID:  listing.ListingID,
				Lessee:     lessee,
				Lessor:     listing.Owner,
				StartDate:  start,
				EndDate:    start + int64(listing.DurationDays)*86400,
				AmountPaid: listing.Price,
				IsActive:   true,
			}
			var existing domain.LeaseRecord
			err := tx.Where("listing_id = ? AND lessee = ?", listing.ListingID, lessee).First(&existing).Error
			if err == nil {
				return domain.ErrLeaseExists
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Create(lease).Error
		},
	})
	metrics.CountOperation("lease_air_rights", err)
	if err != nil {
		return nil, nil, err
	}
	return listing, lease, nil
}

type settleParams struct {
	wantType       string
	typeErr        error
	payee          *uuid.UUID
	endStatus      string
	eventType      string
	afterTransfers func(tx *gorm.DB, listing *domain.Listing) error
}

func (s *Service) settle(ctx context.Context, payer uuid.UUID, listingID uint64, p settleParams) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrListingNotFound
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}
		if listing.ListingType != p.wantType {
			return p.typeErr
		}

		var registry domain.Registry
		if err := tx.Where("id = ?", domain.RegistryKey).First(&registry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRegistryNotInitialized
			}
			return err
		}

		fee, counterpartyAmount, err := feemath.Split(listing.Price, registry.PlatformFeeBps)
		if err != nil {
			return err
		}

		payee := listing.Owner
		if p.payee != nil {
			payee = *p.payee
		}
		if err := s.Ledger.Transfer(ctx, tx, payer, payee, counterpartyAmount); err != nil {
			return err
		}
		if err := s.Ledger.Transfer(ctx, tx, payer, s.Treasury, fee); err != nil {
			return err
		}

		if p.afterTransfers != nil {
			if err := p.afterTransfers(tx, &listing); err != nil {
				return err
			}
		}

		// Guarded terminal write: the status condition makes concurrent
		// settlements race on one row update, so under read committed the
		// loser sees zero rows and aborts instead of overwriting the winner.
		buyer := payer
		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingStatusActive).
			Updates(map[string]interface{}{"status": p.endStatus, "buyer": buyer})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotActive
		}
		listing.Status = p.endStatus
		listing.Buyer = &buyer

		return listingevents.Record(tx, listing.ListingID, p.eventType, payer, map[string]interface{}{
			"price":        listing.Price,
			"platform_fee": fee,
			"payee":        payee.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Cancel sets an active listing to cancelled (owner only) and lowers the
// locale's listing count, saturating at zero.
func (s *Service) Cancel(ctx context.Context, caller uuid.UUID, listingID uint64) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrListingNotFound
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}
		if listing.Owner != caller {
			return domain.ErrUnauthorized
		}

		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingStatusActive).
			Update("status", domain.ListingStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotActive
		}
		listing.Status = domain.ListingStatusCancelled

		var index domain.LocationIndex
		if err := tx.Where("city = ? AND country = ?", listing.Location.City, listing.Location.Country).First(&index).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLocationIndexNotFound
			}
			return err
		}
		index.DecrementSaturating()
		// The listing_count condition keeps the floor intact when a
		// concurrent cancel already took the count to zero.
		if err := tx.Model(&domain.LocationIndex{}).
			Where("city = ? AND country = ? AND listing_count > 0", index.City, index.Country).
			Update("listing_count", gorm.Expr("listing_count - 1")).Error; err != nil {
			return err
		}

		return listingevents.Record(tx, listing.ListingID, domain.EventListingCancel, caller, map[string]interface{}{
			"listing_count": index.ListingCount,
		})
	})
	metrics.CountOperation("cancel_listing", err)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdatePrice overwrites an active listing's price (owner only). No other
// field changes.
func (s *Service) UpdatePrice(ctx context.Context, caller uuid.UUID, listingID uint64, newPrice uint64) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrListingNotFound
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}
		if listing.Owner != caller {
			return domain.ErrUnauthorized
		}
		if newPrice == 0 {
			return domain.ErrInvalidPrice
		}

		previous := listing.Price
		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingStatusActive).
			Update("price", newPrice)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotActive
		}
		listing.Price = newPrice

		return listingevents.Record(tx, listing.ListingID, domain.EventPriceUpdated, caller, map[string]interface{}{
			"previous_price": previous,
			"new_price":      newPrice,
		})
	})
	metrics.CountOperation("update_price", err)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
