package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	product "github.com/angelmondragon/purchasables/internal/products"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

type stubProductService struct {
	getFilter *product.ProductFilter
	listInput *product.ListProductsInput
	created   *product.CreateProductInput
	err       error
}

func (s *stubProductService) CreateProduct(_ context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.created = &input
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductDTO{ID: uuid.New(), Title: input.Title}, nil
}

func (s *stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductDTO{ID: id}, nil
}

func (s *stubProductService) GetProductMatching(ctx context.Context, id uuid.UUID, filter product.ProductFilter) (*product.ProductDTO, error) {
	s.getFilter = &filter
	return s.GetProduct(ctx, id)
}

func (s *stubProductService) ListProducts(_ context.Context, input product.ListProductsInput) (*product.ProductListResult, error) {
	s.listInput = &input
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductListResult{Products: []product.ProductDTO{}}, nil
}

func TestProductListParsesFilters(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?hasUnlimitedStock=true&store=outlet&limit=5", nil)
	rec := httptest.NewRecorder()

	ProductList(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.listInput)
	require.NotNil(t, svc.listInput.HasUnlimitedStock)
	assert.True(t, *svc.listInput.HasUnlimitedStock)
	assert.Equal(t, "outlet", svc.listInput.StoreHandle)
	assert.Equal(t, 5, svc.listInput.Limit)
}

func TestProductListRejectsBadBool(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?hasUnlimitedStock=maybe", nil)
	rec := httptest.NewRecorder()

	ProductList(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.listInput)
}

func TestProductCreate(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"title":"  Hoodie "}`))
	rec := httptest.NewRecorder()

	ProductCreate(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Hoodie", svc.created.Title)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	ProductCreate(&stubProductService{}, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductGetNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"productId": uuid.NewString()})
	rec := httptest.NewRecorder()

	ProductGet(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductGetPassesStockFilter(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String()+"?hasUnlimitedStock=false&store=outlet", nil)
	req = withURLParams(req, map[string]string{"productId": id.String()})
	rec := httptest.NewRecorder()

	ProductGet(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.getFilter)
	require.NotNil(t, svc.getFilter.HasUnlimitedStock)
	assert.False(t, *svc.getFilter.HasUnlimitedStock)
	assert.Equal(t, "outlet", svc.getFilter.StoreHandle)

	svc = &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	rec = httptest.NewRecorder()
	ProductGet(svc, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
