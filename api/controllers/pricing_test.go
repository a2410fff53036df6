package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/purchasables/api/middleware"
	"github.com/angelmondragon/purchasables/internal/pricing"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

type stubLoader struct {
	item *models.Purchasable
}

func (s stubLoader) Load(_ context.Context, id uuid.UUID) (*models.Purchasable, error) {
	if s.item == nil || s.item.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchasable not found")
	}
	return s.item, nil
}

type stubStoreDirectory struct {
	primary *models.Store
	stores  map[string]*models.Store
}

func (s stubStoreDirectory) CurrentStore(context.Context) (*models.Store, error) { return s.primary, nil }
func (s stubStoreDirectory) PrimaryStore(context.Context) (*models.Store, error) { return s.primary, nil }
func (s stubStoreDirectory) AllStores(context.Context) ([]models.Store, error) {
	out := []models.Store{}
	for _, st := range s.stores {
		out = append(out, *st)
	}
	return out, nil
}
func (s stubStoreDirectory) ByHandle(_ context.Context, handle string) (*models.Store, error) {
	if handle == "" {
		return s.primary, nil
	}
	if st, ok := s.stores[handle]; ok {
		return st, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
}

type stubCatalog struct {
	users map[uuid.UUID]decimal.Decimal
}

func (s stubCatalog) GetPrice(_ context.Context, _, _ uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, error) {
	if userID != nil && !promotional {
		if p, ok := s.users[*userID]; ok {
			return decimal.NewNullDecimal(p), nil
		}
	}
	return decimal.NullDecimal{}, nil
}

type noSales struct{}

func (noSales) SalesFor(context.Context, *models.Purchasable, *models.Store) ([]models.Sale, error) {
	return nil, nil
}

func (noSales) SalePriceFor(_ context.Context, _ *models.Purchasable, _ *models.Store, price decimal.Decimal) (decimal.Decimal, error) {
	return price, nil
}

func pricingFixture(t *testing.T, catalog stubCatalog) (stubLoader, stubStoreDirectory, *pricing.Engine) {
	t.Helper()
	primary := &models.Store{ID: uuid.New(), Handle: "main", Primary: true}
	outlet := &models.Store{ID: uuid.New(), Handle: "outlet"}
	item := &models.Purchasable{ID: uuid.New(), SKU: "SKU-1"}
	item.EnsureStoreOverride(primary.ID).Price = decimal.NewNullDecimal(decimal.RequireFromString("20.00"))
	item.EnsureStoreOverride(primary.ID).Stock = 3

	dir := stubStoreDirectory{primary: primary, stores: map[string]*models.Store{"main": primary, "outlet": outlet}}
	engine, err := pricing.NewEngine(pricing.EngineParams{Catalog: catalog, Sales: noSales{}, Stores: dir, Logger: testLogger()})
	require.NoError(t, err)
	return stubLoader{item: item}, dir, engine
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) pricing.Snapshot {
	t.Helper()
	var envelope struct {
		Data pricing.Snapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func TestPurchasablePricingCurrentStore(t *testing.T) {
	loader, dir, engine := pricingFixture(t, stubCatalog{})
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"purchasableId": loader.item.ID.String()})
	rec := httptest.NewRecorder()

	PurchasablePricing(loader, dir, engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "main", snap.Store)
	assert.True(t, snap.Price.Decimal.Equal(decimal.RequireFromString("20")))
	assert.True(t, snap.HasStock)
	assert.False(t, snap.OnSale)
}

func TestPurchasablePricingFallsBackToPrimaryPrice(t *testing.T) {
	loader, dir, engine := pricingFixture(t, stubCatalog{})
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/?store=outlet", nil), map[string]string{"purchasableId": loader.item.ID.String()})
	rec := httptest.NewRecorder()

	PurchasablePricing(loader, dir, engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "outlet", snap.Store)
	assert.True(t, snap.Price.Decimal.Equal(decimal.RequireFromString("20")))
	assert.False(t, snap.HasStock)
}

func TestPurchasablePricingUsesShopperCatalogPrice(t *testing.T) {
	userID := uuid.New()
	loader, dir, engine := pricingFixture(t, stubCatalog{users: map[uuid.UUID]decimal.Decimal{userID: decimal.RequireFromString("15.00")}})
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"purchasableId": loader.item.ID.String()})
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	PurchasablePricing(loader, dir, engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.True(t, snap.Price.Decimal.Equal(decimal.RequireFromString("15")))
}

func TestPurchasablePricingErrors(t *testing.T) {
	loader, dir, engine := pricingFixture(t, stubCatalog{})
	handler := PurchasablePricing(loader, dir, engine, testLogger())

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/?store=ghost", nil), map[string]string{"purchasableId": loader.item.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"purchasableId": uuid.NewString()})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
