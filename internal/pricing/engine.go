// Package pricing resolves effective prices, promotional prices, sale prices and stock
// for a purchasable in a store.
package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/metrics"
)

// CatalogPricing looks up catalog prices layered above stored prices.
type CatalogPricing interface {
	GetPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, error)
}

// Sales matches sales to purchasables.
type Sales interface {
	SalesFor(ctx context.Context, item *models.Purchasable, store *models.Store) ([]models.Sale, error)
	SalePriceFor(ctx context.Context, item *models.Purchasable, store *models.Store, price decimal.Decimal) (decimal.Decimal, error)
}

// StoreDirectory resolves the stores prices fall back to.
type StoreDirectory interface {
	CurrentStore(ctx context.Context) (*models.Store, error)
	AllStores(ctx context.Context) ([]models.Store, error)
	PrimaryStore(ctx context.Context) (*models.Store, error)
}

// EngineParams wires the pricing engine.
type EngineParams struct {
	Catalog CatalogPricing
	Sales   Sales
	Stores  StoreDirectory
	Metrics *metrics.PricingMetrics
	Logger  *logger.Logger
}

// Engine holds the shared collaborators resolvers use. It is safe for concurrent use;
// the resolvers it creates are not.
type Engine struct {
	catalog CatalogPricing
	sales   Sales
	stores  StoreDirectory
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
}

// NewEngine constructs a pricing engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog pricing required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sales service required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store directory required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Engine{
		catalog: params.Catalog,
		sales:   params.Sales,
		stores:  params.Stores,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

// NewResolver returns a resolver for one evaluation context, such as a request.
// userID selects shopper-specific catalog prices; nil means anonymous.
func (e *Engine) NewResolver(userID *uuid.UUID) *Resolver {
	return &Resolver{
		engine:  e,
		userID:  userID,
		entries: make(map[entryKey]*entry),
	}
}
