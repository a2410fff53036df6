package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		price string
		sales []models.Sale
		want  string
	}{
		{name: "no sales", price: "100", want: "100"},
		{name: "by percent", price: "100", sales: []models.Sale{{ApplyType: enums.SaleApplyByPercent, ApplyAmount: d("0.2")}}, want: "80"},
		{name: "to percent", price: "100", sales: []models.Sale{{ApplyType: enums.SaleApplyToPercent, ApplyAmount: d("0.75")}}, want: "75"},
		{name: "by flat", price: "100", sales: []models.Sale{{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("15")}}, want: "85"},
		{name: "to flat", price: "100", sales: []models.Sale{{ApplyType: enums.SaleApplyToFlat, ApplyAmount: d("42")}}, want: "42"},
		{
			name:  "chained",
			price: "100",
			sales: []models.Sale{
				{ApplyType: enums.SaleApplyByPercent, ApplyAmount: d("0.1")},
				{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("5")},
			},
			want: "85",
		},
		{
			name:  "ignore previous restarts from original",
			price: "100",
			sales: []models.Sale{
				{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("50")},
				{ApplyType: enums.SaleApplyByPercent, ApplyAmount: d("0.1"), IgnorePrevious: true},
			},
			want: "90",
		},
		{
			name:  "stop processing",
			price: "100",
			sales: []models.Sale{
				{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("10"), StopProcessing: true},
				{ApplyType: enums.SaleApplyToFlat, ApplyAmount: d("1")},
			},
			want: "90",
		},
		{name: "clamped at zero", price: "10", sales: []models.Sale{{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("25")}}, want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(d(tt.price), tt.sales)
			assert.True(t, got.Equal(d(tt.want)), "expected %s, got %s", tt.want, got)
		})
	}
}

type stubRepo struct {
	sales []models.Sale
	err   error
	calls int
}

func (s *stubRepo) ActiveFor(context.Context, uuid.UUID, uuid.UUID, time.Time) ([]models.Sale, error) {
	s.calls++
	return s.sales, s.err
}

func TestSalesForRespectsPromotableFlag(t *testing.T) {
	repo := &stubRepo{sales: []models.Sale{{ApplyType: enums.SaleApplyByFlat, ApplyAmount: d("1")}}}
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	store := &models.Store{ID: uuid.New()}
	item := &models.Purchasable{ID: uuid.New()}
	override := item.EnsureStoreOverride(store.ID)

	got, err := svc.SalesFor(context.Background(), item, store)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	override.Promotable = false
	got, err = svc.SalesFor(context.Background(), item, store)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, repo.calls)

	unsaved := &models.Purchasable{}
	unsaved.EnsureStoreOverride(store.ID)
	got, err = svc.SalesFor(context.Background(), unsaved, store)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSalePriceForReturnsErrors(t *testing.T) {
	svc, err := NewService(&stubRepo{err: errors.New("db down")}, nil)
	require.NoError(t, err)
	store := &models.Store{ID: uuid.New()}
	item := &models.Purchasable{ID: uuid.New()}
	item.EnsureStoreOverride(store.ID)

	price, err := svc.SalePriceFor(context.Background(), item, store, d("10"))
	assert.Error(t, err)
	assert.True(t, price.Equal(d("10")))
}
