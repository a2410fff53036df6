package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/pkg/logger"
)

const defaultCatalogPriceRetention = 30 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogPriceRepo interface {
	DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type saleRepo interface {
	DisableExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// CatalogPricePruningJobParams configure the catalog price pruning job.
type CatalogPricePruningJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository catalogPriceRepo
	// Retention keeps ended catalog prices around for this long before deletion.
	Retention time.Duration
}

// NewCatalogPricePruningJob deletes catalog prices whose window ended before now minus the retention.
func NewCatalogPricePruningJob(params CatalogPricePruningJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("catalog price repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCatalogPriceRetention
	}
	return &catalogPricePruningJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type catalogPricePruningJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      catalogPriceRepo
	retention time.Duration
	now       func() time.Time
}

func (j *catalogPricePruningJob) Name() string { return "catalog-price-pruning" }

func (j *catalogPricePruningJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteExpired(ctx, tx, cutoff)
		deleted = rows
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune catalog prices: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "catalog price pruning complete")
	return deleted, nil
}

// SaleExpiryJobParams configure the sale expiry job.
type SaleExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository saleRepo
}

// NewSaleExpiryJob disables enabled sales whose window has ended.
func NewSaleExpiryJob(params SaleExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	return &saleExpiryJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type saleExpiryJob struct {
	logg *logger.Logger
	db   txRunner
	repo saleRepo
	now  func() time.Time
}

func (j *saleExpiryJob) Name() string { return "sale-expiry" }

func (j *saleExpiryJob) Run(ctx context.Context) (int64, error) {
	now := j.now().UTC()
	var disabled int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DisableExpired(ctx, tx, now)
		disabled = rows
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("expire sales: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_disabled", disabled), "sale expiry complete")
	return disabled, nil
}
