package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type priceRepository interface {
	LowestPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool, at time.Time) (decimal.NullDecimal, error)
	NextChange(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool, at time.Time) (*time.Time, error)
}

// Service answers catalog price lookups straight from the database.
type Service struct {
	repo priceRepository
	now  func() time.Time
}

// NewService constructs a catalog pricing service.
func NewService(repo priceRepository, now func() time.Time) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}, nil
}

// GetPrice returns the catalog price for the item in the store, absent when no rule applies.
func (s *Service) GetPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, error) {
	return s.repo.LowestPrice(ctx, itemID, storeID, userID, promotional, s.now().UTC())
}

// GetPriceUntil is GetPrice plus the instant the answer may change; nil means not before
// the next write to the rules.
func (s *Service) GetPriceUntil(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) (decimal.NullDecimal, *time.Time, error) {
	at := s.now().UTC()
	price, err := s.repo.LowestPrice(ctx, itemID, storeID, userID, promotional, at)
	if err != nil {
		return decimal.NullDecimal{}, nil, err
	}
	until, err := s.repo.NextChange(ctx, itemID, storeID, userID, promotional, at)
	if err != nil {
		return decimal.NullDecimal{}, nil, err
	}
	return price, until, nil
}
