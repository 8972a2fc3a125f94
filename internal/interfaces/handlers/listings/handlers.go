package listings

import (
	"net/url"
	"strconv"

	lesvc "airgrid-backend/internal/application/listingevents"
	listsvc "airgrid-backend/internal/application/listings"
	mktsvc "airgrid-backend/internal/application/marketplace"
	"airgrid-backend/internal/middleware"
	"airgrid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Marketplace *mktsvc.Service
	Listings    *listsvc.Service
	Events      *lesvc.Service
}

type createBody struct {
	Latitude     int32  `json:"latitude"`
	Longitude    int32  `json:"longitude"`
	HeightFrom   uint16 `json:"height_from"`
	HeightTo     uint16 `json:"height_to"`
	AreaSqm      uint32 `json:"area_sqm"`
	Price        uint64 `json:"price"`
	ListingType  string `json:"listing_type"`
	DurationDays uint32 `json:"duration_days"`
	City         string `json:"city"`
	Country      string `json:"country"`
	MetadataURI  string `json:"metadata_uri"`
}

// Create POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body createBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Marketplace.CreateListing(c.Context(), middleware.Caller(c), mktsvc.CreateListingInput{
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		HeightFrom:   body.HeightFrom,
		HeightTo:     body.HeightTo,
		AreaSqm:      body.AreaSqm,
		Price:        body.Price,
		ListingType:  body.ListingType,
		DurationDays: body.DurationDays,
		City:         body.City,
		Country:      body.Country,
		MetadataURI:  body.MetadataURI,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created", listing, nil)
}

// List GET /api/v1/listings?status=&city=&country=&grid_x=&grid_y=
func (h *Handlers) List(c *fiber.Ctx) error {
	var f listsvc.Filter
	if s := c.Query("status"); s != "" {
		f.Status = &s
	}
	if s := c.Query("city"); s != "" {
		f.City = &s
	}
	if s := c.Query("country"); s != "" {
		f.Country = &s
	}
	if gx := c.Query("grid_x"); gx != "" {
		v, err := strconv.ParseUint(gx, 10, 32)
		if err != nil {
			return response.Error(c, "Invalid grid_x", fiber.StatusBadRequest, nil)
		}
		x := uint32(v)
		f.GridX = &x
	}
	if gy := c.Query("grid_y"); gy != "" {
		v, err := strconv.ParseUint(gy, 10, 32)
		if err != nil {
			return response.Error(c, "Invalid grid_y", fiber.StatusBadRequest, nil)
		}
		y := uint32(v)
		f.GridY = &y
	}

	listings, err := h.Listings.List(c.Context(), f)
	if err != nil {
		return err
	}
	return response.Success(c, "Listings", listings, fiber.Map{"total": len(listings)})
}

// Get GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	listing, err := h.Listings.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing", listing, nil)
}

// UpdatePrice PATCH /api/v1/listings/:id/price
func (h *Handlers) UpdatePrice(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	var body struct {
		NewPrice uint64 `json:"new_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Marketplace.UpdatePrice(c.Context(), middleware.Caller(c), id, body.NewPrice)
	if err != nil {
		return err
	}
	return response.Success(c, "Price updated", listing, nil)
}

// Cancel POST /api/v1/listings/:id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	listing, err := h.Marketplace.Cancel(c.Context(), middleware.Caller(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing cancelled", listing, nil)
}

// Purchase POST /api/v1/listings/:id/purchase — body names the seller payee.
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	var body struct {
		Seller string `json:"seller"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	seller, err := uuid.Parse(body.Seller)
	if err != nil {
		return response.Error(c, "Invalid seller", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Marketplace.Purchase(c.Context(), middleware.Caller(c), id, seller)
	if err != nil {
		return err
	}
	return response.Success(c, "Air rights purchased", listing, nil)
}

// Lease POST /api/v1/listings/:id/lease
func (h *Handlers) Lease(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	listing, lease, err := h.Marketplace.Lease(c.Context(), middleware.Caller(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Air rights leased", fiber.Map{
		"listing": listing,
		"lease":   lease,
	}, nil)
}

// Leases GET /api/v1/listings/:id/leases
func (h *Handlers) Leases(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	leases, err := h.Listings.LeasesForListing(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Lease records", leases, fiber.Map{"total": len(leases)})
}

// ListEvents GET /api/v1/listings/:id/events
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return err
	}
	events, err := h.Events.ListForListing(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing events", events, fiber.Map{"total": len(events)})
}

// LocationIndex GET /api/v1/locations/:country/:city
func (h *Handlers) LocationIndex(c *fiber.Ctx) error {
	country := c.Params("country")
	city, err := url.PathUnescape(c.Params("city"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid city")
	}
	index, err := h.Listings.LocationIndex(c.Context(), city, country)
	if err != nil {
		return err
	}
	return response.Success(c, "Location index", index, nil)
}

func listingID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid listing id")
	}
	return id, nil
}
