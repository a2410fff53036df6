package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/metrics"
	"github.com/angelmondragon/purchasables/pkg/redis"
)

// absentMarker is cached for lookups that found no rule.
const absentMarker = "-"

// Pricing is the lookup CachedService wraps.
type Pricing interface {
	GetPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, error)
}

// windowedPricing reports when a looked-up price may change so cache entries never outlive it.
type windowedPricing interface {
	GetPriceUntil(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, *time.Time, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Generation(ctx context.Context, scope string) (int64, error)
	BumpGeneration(ctx context.Context, scope string) (int64, error)
	CatalogPriceKey(itemID string, generation int64, storeID, userID string, promotional bool) string
}

// CachedServiceParams wires the shared catalog cache.
type CachedServiceParams struct {
	Next    Pricing
	Store   cacheStore
	TTL     time.Duration
	Metrics *metrics.PricingMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

// CachedService puts a Redis read-through cache in front of catalog lookups.
// Entries are scoped by an item generation so writes invalidate every store and shopper at once.
// When the wrapped lookup implements GetPriceUntil, an entry expires no later than the next
// rule window boundary; otherwise it may be up to TTL stale across a boundary.
type CachedService struct {
	next    Pricing
	store   cacheStore
	ttl     time.Duration
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewCachedService constructs the cache wrapper.
func NewCachedService(params CachedServiceParams) (*CachedService, error) {
	if params.Next == nil {
		return nil, fmt.Errorf("catalog pricing required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &CachedService{
		next:    params.Next,
		store:   params.Store,
		ttl:     params.TTL,
		metrics: params.Metrics,
		logg:    logg,
		now:     now,
	}, nil
}

// GetPrice serves the lookup from Redis when possible. Redis failures fall through to the wrapped service.
func (c *CachedService) GetPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, error) {
	scope := itemID.String()
	generation, err := c.store.Generation(ctx, scope)
	if err != nil {
		c.metrics.ObserveCacheResult(metrics.OutcomeError)
		c.warn(ctx, "catalog cache generation read failed", err)
		return c.next.GetPrice(ctx, itemID, storeID, userID, promotional)
	}

	user := ""
	if userID != nil {
		user = userID.String()
	}
	key := c.store.CatalogPriceKey(scope, generation, storeID.String(), user, promotional)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if value, ok := decodeEntry(raw); ok {
			c.metrics.ObserveCacheResult(metrics.OutcomeHit)
			return value, nil
		}
		c.metrics.ObserveCacheResult(metrics.OutcomeError)
	case redis.IsMiss(err):
		c.metrics.ObserveCacheResult(metrics.OutcomeMiss)
	default:
		c.metrics.ObserveCacheResult(metrics.OutcomeError)
		c.warn(ctx, "catalog cache read failed", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, ttl, err := c.lookup(ctx, itemID, storeID, userID, promotional)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		if ttl <= 0 {
			return value, nil
		}
		if err := c.store.Set(ctx, key, encodeEntry(value), ttl); err != nil {
			c.warn(ctx, "catalog cache write failed", err)
		}
		return value, nil
	})
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return v.(decimal.NullDecimal), nil
}

// lookup calls the wrapped service and returns how long the result may be cached.
func (c *CachedService) lookup(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, time.Duration, error) {
	windowed, ok := c.next.(windowedPricing)
	if !ok {
		value, err := c.next.GetPrice(ctx, itemID, storeID, userID, promotional)
		return value, c.ttl, err
	}
	value, until, err := windowed.GetPriceUntil(ctx, itemID, storeID, userID, promotional)
	if err != nil {
		return decimal.NullDecimal{}, 0, err
	}
	ttl := c.ttl
	if until != nil {
		if left := until.Sub(c.now()); left < ttl {
			ttl = left
		}
	}
	return value, ttl, nil
}

// Invalidate drops every cached lookup of the purchasable.
func (c *CachedService) Invalidate(ctx context.Context, purchasableID uuid.UUID) error {
	_, err := c.store.BumpGeneration(ctx, purchasableID.String())
	return err
}

func (c *CachedService) warn(ctx context.Context, msg string, err error) {
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}

func encodeEntry(value decimal.NullDecimal) string {
	if !value.Valid {
		return absentMarker
	}
	return value.Decimal.String()
}

func decodeEntry(raw string) (decimal.NullDecimal, bool) {
	if raw == absentMarker {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}
