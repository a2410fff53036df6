package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/metrics"
	"github.com/angelmondragon/purchasables/pkg/money"
)

type entryKey struct {
	item  *models.Purchasable
	store uuid.UUID
}

// lookup is a memoised catalog outcome; done distinguishes "not asked" from "absent".
type lookup struct {
	done  bool
	value decimal.NullDecimal
}

type saleSnapshot struct {
	done  bool
	price decimal.Decimal
	sales []models.Sale
}

type entry struct {
	price       lookup
	promotional lookup
	sale        saleSnapshot
}

// Resolver computes prices for one evaluation context and caches every outcome per
// (item, store) until Refresh. It must not be shared between goroutines.
type Resolver struct {
	engine  *Engine
	userID  *uuid.UUID
	entries map[entryKey]*entry
	primary *models.Store
}

func (r *Resolver) entry(item *models.Purchasable, store *models.Store) *entry {
	key := entryKey{item: item, store: store.ID}
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	return e
}

// Refresh drops every cached outcome of item so the next call sees fresh catalog and sale data.
func (r *Resolver) Refresh(item *models.Purchasable) {
	for key := range r.entries {
		if key.item == item {
			delete(r.entries, key)
		}
	}
}

// BasePrice returns the stored price of item in store. Without an override for store the
// primary store's override is used; without either the store configuration is broken.
func (r *Resolver) BasePrice(ctx context.Context, item *models.Purchasable, store *models.Store) (decimal.NullDecimal, error) {
	override, err := r.override(ctx, item, store)
	if err != nil {
		r.engine.metrics.IncResolveError("base_price")
		return decimal.NullDecimal{}, err
	}
	return override.Price, nil
}

// Price returns the catalog price of item in store when one applies, else the base price.
func (r *Resolver) Price(ctx context.Context, item *models.Purchasable, store *models.Store) (decimal.NullDecimal, error) {
	if err := checkArgs(item, store); err != nil {
		return decimal.NullDecimal{}, err
	}
	e := r.entry(item, store)
	if !e.price.done {
		e.price = lookup{done: true, value: r.catalogPrice(ctx, item, store, false)}
	}
	if e.price.value.Valid {
		return e.price.value, nil
	}
	return r.BasePrice(ctx, item, store)
}

// PromotionalPrice returns the catalog or stored promotional price of item in store,
// but only when it is strictly below Price.
func (r *Resolver) PromotionalPrice(ctx context.Context, item *models.Purchasable, store *models.Store) (decimal.NullDecimal, error) {
	if err := checkArgs(item, store); err != nil {
		return decimal.NullDecimal{}, err
	}
	e := r.entry(item, store)
	if !e.promotional.done {
		e.promotional = lookup{done: true, value: r.catalogPrice(ctx, item, store, true)}
	}
	promotional := e.promotional.value
	if !promotional.Valid {
		override, err := r.override(ctx, item, store)
		if err != nil {
			r.engine.metrics.IncResolveError("promotional_price")
			return decimal.NullDecimal{}, err
		}
		promotional = override.PromotionalPrice
	}
	if !promotional.Valid {
		return money.Absent(), nil
	}

	price, err := r.Price(ctx, item, store)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if !price.Valid || !promotional.Decimal.LessThan(price.Decimal) {
		return money.Absent(), nil
	}
	return promotional, nil
}

// SalePrice returns Price of item in store after the matching sales, rounded to currency
// precision. The result is computed once per (item, store) until Refresh.
func (r *Resolver) SalePrice(ctx context.Context, item *models.Purchasable, store *models.Store) (decimal.Decimal, error) {
	snap, err := r.saleSnapshot(ctx, item, store)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return snap.price, nil
}

// Sales returns the sales behind SalePrice.
func (r *Resolver) Sales(ctx context.Context, item *models.Purchasable, store *models.Store) ([]models.Sale, error) {
	snap, err := r.saleSnapshot(ctx, item, store)
	if err != nil {
		return nil, err
	}
	return snap.sales, nil
}

// OnSale reports whether the sale price differs from Price at currency precision.
func (r *Resolver) OnSale(ctx context.Context, item *models.Purchasable, store *models.Store) (bool, error) {
	salePrice, err := r.SalePrice(ctx, item, store)
	if err != nil {
		return false, err
	}
	price, err := r.Price(ctx, item, store)
	if err != nil {
		return false, err
	}
	return !money.Round(salePrice).Equal(money.Round(valueOrZero(price))), nil
}

// HasStock reports whether item can be sold in store. A missing override has no stock.
func (r *Resolver) HasStock(item *models.Purchasable, store *models.Store) bool {
	if item == nil || store == nil {
		return false
	}
	override := item.StoreOverride(store.ID)
	if override == nil {
		return false
	}
	return override.HasUnlimitedStock || override.Stock > 0
}

func (r *Resolver) saleSnapshot(ctx context.Context, item *models.Purchasable, store *models.Store) (saleSnapshot, error) {
	if err := checkArgs(item, store); err != nil {
		return saleSnapshot{}, err
	}
	e := r.entry(item, store)
	if e.sale.done {
		return e.sale, nil
	}

	price, err := r.Price(ctx, item, store)
	if err != nil {
		return saleSnapshot{}, err
	}
	base := valueOrZero(price)
	snap := saleSnapshot{done: true, price: money.Round(base), sales: []models.Sale{}}

	if item.IsPersisted() {
		sales, salePrice, err := r.applySales(ctx, item, store, base)
		switch {
		case err != nil:
			r.engine.metrics.ObserveSaleLookup(metrics.OutcomeError)
			r.warn(ctx, item, store, "sales lookup failed", err)
		case len(sales) == 0:
			r.engine.metrics.ObserveSaleLookup(metrics.OutcomeMiss)
		default:
			r.engine.metrics.ObserveSaleLookup(metrics.OutcomeHit)
			snap.sales = sales
			snap.price = money.Round(salePrice)
		}
	}

	e.sale = snap
	return snap, nil
}

func (r *Resolver) applySales(ctx context.Context, item *models.Purchasable, store *models.Store, price decimal.Decimal) ([]models.Sale, decimal.Decimal, error) {
	sales, err := r.engine.sales.SalesFor(ctx, item, store)
	if err != nil || len(sales) == 0 {
		return nil, price, err
	}
	salePrice, err := r.engine.sales.SalePriceFor(ctx, item, store, price)
	if err != nil {
		return nil, price, err
	}
	return sales, salePrice, nil
}

// catalogPrice asks the catalog service; failures count as "no catalog price".
func (r *Resolver) catalogPrice(ctx context.Context, item *models.Purchasable, store *models.Store, promotional bool) decimal.NullDecimal {
	if !item.IsPersisted() {
		return money.Absent()
	}
	value, err := r.engine.catalog.GetPrice(ctx, item.ID, store.ID, r.userID, promotional)
	if err != nil {
		r.engine.metrics.ObserveCatalogLookup(promotional, metrics.OutcomeError)
		r.warn(ctx, item, store, "catalog price lookup failed", err)
		return money.Absent()
	}
	if value.Valid {
		r.engine.metrics.ObserveCatalogLookup(promotional, metrics.OutcomeHit)
	} else {
		r.engine.metrics.ObserveCatalogLookup(promotional, metrics.OutcomeMiss)
	}
	return value
}

// override returns the override of item for store, falling back to the primary store.
func (r *Resolver) override(ctx context.Context, item *models.Purchasable, store *models.Store) (*models.PurchasableStore, error) {
	if err := checkArgs(item, store); err != nil {
		return nil, err
	}
	if o := item.StoreOverride(store.ID); o != nil {
		return o, nil
	}
	primary, err := r.primaryStore(ctx)
	if err != nil {
		return nil, err
	}
	if o := item.StoreOverride(primary.ID); o != nil {
		return o, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "purchasable has no price for store "+store.Handle+" or the primary store")
}

func (r *Resolver) primaryStore(ctx context.Context) (*models.Store, error) {
	if r.primary != nil {
		return r.primary, nil
	}
	primary, err := r.engine.stores.PrimaryStore(ctx)
	if err != nil {
		return nil, err
	}
	r.primary = primary
	return primary, nil
}

func (r *Resolver) warn(ctx context.Context, item *models.Purchasable, store *models.Store, msg string, err error) {
	logg := r.engine.logg
	ctx = logg.WithStoreHandle(ctx, store.Handle)
	if item.IsPersisted() {
		ctx = logg.WithPurchasableID(ctx, item.ID.String())
	}
	logg.Warn(logg.WithField(ctx, "error", err.Error()), msg)
}

func checkArgs(item *models.Purchasable, store *models.Store) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "purchasable is required")
	}
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "store is required")
	}
	return nil
}

func valueOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
