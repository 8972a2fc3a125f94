package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	ledgersvc "airgrid-backend/internal/application/ledger"
	lesvc "airgrid-backend/internal/application/listingevents"
	listsvc "airgrid-backend/internal/application/listings"
	mktsvc "airgrid-backend/internal/application/marketplace"
	"airgrid-backend/internal/domain"
	"airgrid-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handlers-test-secret"

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	ledger   *ledgersvc.Service
	market   *mktsvc.Service
	treasury uuid.UUID
}

func setupListingsApp(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Registry{}, &domain.Listing{}, &domain.LocationIndex{},
		&domain.LeaseRecord{}, &domain.LedgerAccount{}, &domain.ListingEvent{},
	))

	treasury := uuid.New()
	ledger := &ledgersvc.Service{DB: db}
	market := &mktsvc.Service{
		DB:       db,
		Ledger:   ledger,
		Treasury: treasury,
		Now:      func() time.Time { return time.Unix(1_800_000_000, 0) },
	}
	h := &Handlers{
		Marketplace: market,
		Listings:    &listsvc.Service{DB: db},
		Events:      &lesvc.Service{DB: db},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	auth := middleware.RequireIdentity(testSecret)
	app.Post("/api/v1/listings", auth, h.Create)
	app.Get("/api/v1/listings", h.List)
	app.Get("/api/v1/listings/:id", h.Get)
	app.Patch("/api/v1/listings/:id/price", auth, h.UpdatePrice)
	app.Post("/api/v1/listings/:id/cancel", auth, h.Cancel)
	app.Post("/api/v1/listings/:id/purchase", auth, h.Purchase)
	app.Post("/api/v1/listings/:id/lease", auth, h.Lease)
	app.Get("/api/v1/listings/:id/leases", h.Leases)
	app.Get("/api/v1/listings/:id/events", h.ListEvents)
	app.Get("/api/v1/locations/:country/:city", h.LocationIndex)

	return &testEnv{app: app, db: db, ledger: ledger, market: market, treasury: treasury}
}

func token(t *testing.T, id uuid.UUID) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, app *fiber.App, method, path string, caller *uuid.UUID, body interface{}) (int, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, *caller))
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func createBodyFixture() map[string]interface{} {
	return map[string]interface{}{
		"latitude":     40_000_000,
		"longitude":    -74_000_000,
		"height_from":  10,
		"height_to":    50,
		"area_sqm":     120,
		"price":        1_000_000,
		"listing_type": "sale",
		"city":         "New York",
		"country":      "US",
		"metadata_uri": "ipfs://parcel",
	}
}

func initRegistry(t *testing.T, env *testEnv) {
	_, err := env.market.InitializeRegistry(context.Background(), uuid.New())
	require.NoError(t, err)
}

func TestCreateListing_RequiresAuth(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", nil, createBodyFixture())
	assert.Equal(t, 401, code)
}

func TestCreateListing_Created(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	code, out := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	assert.Equal(t, 201, code)
	assert.Equal(t, "success", out["status"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["listing_id"])
	location := data["location"].(map[string]interface{})
	assert.Equal(t, float64(10600), location["grid_x"])
	assert.Equal(t, float64(13000), location["grid_y"])
}

func TestCreateListing_ValidationError(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	body := createBodyFixture()
	body["price"] = 0
	code, out := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, body)
	assert.Equal(t, 400, code)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_PRICE", errObj["code"])
}

func TestCreateListing_BadListingType(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	body := createBodyFixture()
	body["listing_type"] = "rent"
	code, out := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, body)
	assert.Equal(t, 400, code)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_LISTING_TYPE", errObj["code"])
}

func TestPurchaseFlow_EndToEnd(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()
	buyer := uuid.New()
	ctx := context.Background()

	code, out := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	require.Equal(t, 201, code)
	listingID := out["data"].(map[string]interface{})["listing_id"].(float64)

	_, err := env.ledger.OpenAccount(ctx, buyer, 2_000_000)
	require.NoError(t, err)

	code, out = doJSON(t, env.app, "POST", "/api/v1/listings/0/purchase", &buyer,
		map[string]interface{}{"seller": owner.String()})
	require.Equal(t, 200, code, "listing %v", listingID)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "sold", data["status"])
	assert.Equal(t, buyer.String(), data["buyer"])

	// 2.5% of 1,000,000 to the treasury, the rest to the seller.
	sellerAcct, err := env.ledger.Balance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(975_000), sellerAcct.Balance)
	treasuryAcct, err := env.ledger.Balance(ctx, env.treasury)
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), treasuryAcct.Balance)
}

func TestPurchase_ConflictStatusCode(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()
	buyer := uuid.New()

	_, err := env.market.CreateListing(context.Background(), owner, mktsvc.CreateListingInput{
		Latitude: 1, Longitude: 1, HeightFrom: 0, HeightTo: 10, AreaSqm: 10,
		Price: 100, ListingType: domain.ListingTypeLease, DurationDays: 7,
		City: "Tokyo", Country: "JP", MetadataURI: "ipfs://x",
	})
	require.NoError(t, err)

	code, out := doJSON(t, env.app, "POST", "/api/v1/listings/0/purchase", &buyer,
		map[string]interface{}{"seller": owner.String()})
	assert.Equal(t, 409, code)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOR_SALE", errObj["code"])
}

func TestLeaseFlow_EndToEnd(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()
	lessee := uuid.New()
	ctx := context.Background()

	body := createBodyFixture()
	body["listing_type"] = "lease"
	body["duration_days"] = 30
	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, body)
	require.Equal(t, 201, code)

	_, err := env.ledger.OpenAccount(ctx, lessee, 1_500_000)
	require.NoError(t, err)

	code, out := doJSON(t, env.app, "POST", "/api/v1/listings/0/lease", &lessee, nil)
	require.Equal(t, 200, code)
	data := out["data"].(map[string]interface{})
	lease := data["lease"].(map[string]interface{})
	assert.Equal(t, float64(1_800_000_000), lease["start_date"])
	assert.Equal(t, float64(1_800_000_000+30*86400), lease["end_date"])
	assert.Equal(t, true, lease["is_active"])
	listing := data["listing"].(map[string]interface{})
	assert.Equal(t, "leased", listing["status"])

	code, out = doJSON(t, env.app, "GET", "/api/v1/listings/0/leases", nil, nil)
	require.Equal(t, 200, code)
	leases := out["data"].([]interface{})
	require.Len(t, leases, 1)
}

func TestUpdatePrice_NonOwnerForbidden(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()
	stranger := uuid.New()

	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	require.Equal(t, 201, code)

	code, out := doJSON(t, env.app, "PATCH", "/api/v1/listings/0/price", &stranger,
		map[string]interface{}{"new_price": 42})
	assert.Equal(t, 403, code)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])

	code, out = doJSON(t, env.app, "GET", "/api/v1/listings/0", nil, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1_000_000), out["data"].(map[string]interface{})["price"])
}

func TestCancel_ThenLocationIndexAtZero(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	require.Equal(t, 201, code)

	code, _ = doJSON(t, env.app, "POST", "/api/v1/listings/0/cancel", &owner, nil)
	require.Equal(t, 200, code)

	code, out := doJSON(t, env.app, "GET", "/api/v1/locations/US/New%20York", nil, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(0), out["data"].(map[string]interface{})["listing_count"])
}

func TestList_GridCellFilter(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	require.Equal(t, 201, code)

	body := createBodyFixture()
	body["latitude"] = 19_076_000
	body["longitude"] = 72_877_700
	body["city"] = "Mumbai"
	body["country"] = "IN"
	code, _ = doJSON(t, env.app, "POST", "/api/v1/listings", &owner, body)
	require.Equal(t, 201, code)

	code, out := doJSON(t, env.app, "GET", "/api/v1/listings?grid_x=10600&grid_y=13000", nil, nil)
	require.Equal(t, 200, code)
	data := out["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "New York", data[0].(map[string]interface{})["location"].(map[string]interface{})["city"])
}

func TestGet_NotFound(t *testing.T) {
	env := setupListingsApp(t)
	code, out := doJSON(t, env.app, "GET", "/api/v1/listings/99", nil, nil)
	assert.Equal(t, 404, code)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestListEvents_AfterLifecycle(t *testing.T) {
	env := setupListingsApp(t)
	initRegistry(t, env)
	owner := uuid.New()

	code, _ := doJSON(t, env.app, "POST", "/api/v1/listings", &owner, createBodyFixture())
	require.Equal(t, 201, code)
	code, _ = doJSON(t, env.app, "PATCH", "/api/v1/listings/0/price", &owner,
		map[string]interface{}{"new_price": 2_000_000})
	require.Equal(t, 200, code)

	code, out := doJSON(t, env.app, "GET", "/api/v1/listings/0/events", nil, nil)
	require.Equal(t, 200, code)
	events := out["data"].([]interface{})
	require.Len(t, events, 2)
}
