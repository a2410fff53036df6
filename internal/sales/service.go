package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
)

type saleRepository interface {
	ActiveFor(ctx context.Context, itemID, storeID uuid.UUID, at time.Time) ([]models.Sale, error)
}

// Service matches sales to purchasables and computes discounted prices.
type Service struct {
	repo saleRepository
	now  func() time.Time
}

// NewService constructs a sales service.
func NewService(repo saleRepository, now func() time.Time) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}, nil
}

// SalesFor lists the sales applying to item in store. Items that are unsaved or not
// promotable in the store get none.
func (s *Service) SalesFor(ctx context.Context, item *models.Purchasable, store *models.Store) ([]models.Sale, error) {
	if item == nil || store == nil || !item.IsPersisted() {
		return nil, nil
	}
	override := item.StoreOverride(store.ID)
	if override == nil || !override.Promotable {
		return nil, nil
	}
	return s.repo.ActiveFor(ctx, item.ID, store.ID, s.now().UTC())
}

// SalePriceFor applies the matching sales to price.
func (s *Service) SalePriceFor(ctx context.Context, item *models.Purchasable, store *models.Store, price decimal.Decimal) (decimal.Decimal, error) {
	sales, err := s.SalesFor(ctx, item, store)
	if err != nil {
		return price, err
	}
	return Apply(price, sales), nil
}

// Apply runs sales over price in order. A sale with IgnorePrevious starts again from the
// original price and one with StopProcessing ends the chain. The result never drops below zero.
func Apply(price decimal.Decimal, sales []models.Sale) decimal.Decimal {
	current := price
	for _, sale := range sales {
		base := current
		if sale.IgnorePrevious {
			base = price
		}
		current = applyOne(base, sale)
		if sale.StopProcessing {
			break
		}
	}
	if current.IsNegative() {
		return decimal.Zero
	}
	return current
}

func applyOne(price decimal.Decimal, sale models.Sale) decimal.Decimal {
	amount := sale.ApplyAmount
	switch sale.ApplyType {
	case enums.SaleApplyByPercent:
		return price.Mul(decimal.NewFromInt(1).Sub(amount))
	case enums.SaleApplyToPercent:
		return price.Mul(amount)
	case enums.SaleApplyByFlat:
		return price.Sub(amount)
	case enums.SaleApplyToFlat:
		return amount
	}
	return price
}
