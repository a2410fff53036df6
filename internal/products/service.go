package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/internal/conditions"
	"github.com/angelmondragon/purchasables/pkg/db"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

// Service exposes product browse and management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductMatching(ctx context.Context, id uuid.UUID, filter ProductFilter) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

type storeDirectory interface {
	AllStores(ctx context.Context) ([]models.Store, error)
	ByHandle(ctx context.Context, handle string) (*models.Store, error)
}

type service struct {
	repo   *Repository
	stores storeDirectory
	logg   *logger.Logger
}

// NewService constructs a product service implementation.
func NewService(repo *Repository, stores storeDirectory, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store directory required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, stores: stores, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.Validation("product is invalid", []pkgerrors.FieldError{{Field: "title", Message: "is required"}})
	}
	product := &models.Product{Title: title}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product created")
	return s.GetProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	return s.GetProductMatching(ctx, id, ProductFilter{})
}

func (s *service) GetProductMatching(ctx context.Context, id uuid.UUID, filter ProductFilter) (*ProductDTO, error) {
	var storeID *uuid.UUID
	if filter.HasUnlimitedStock != nil {
		var err error
		if storeID, err = s.storeFilter(ctx, filter.StoreHandle); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if filter.HasUnlimitedStock != nil &&
		!(conditions.UnlimitedStockRule{StoreID: storeID}).Matches(product, *filter.HasUnlimitedStock) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	handles, err := s.storeHandles(ctx)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(product, handles)
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	storeID, err := s.storeFilter(ctx, input.StoreHandle)
	if err != nil {
		return nil, err
	}
	filter := ListFilter{
		HasUnlimitedStock: input.HasUnlimitedStock,
		StoreID:           storeID,
		Limit:             input.Limit,
		Cursor:            cursor,
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	rows, next := pagination.Page(rows, input.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	handles, err := s.storeHandles(ctx)
	if err != nil {
		return nil, err
	}
	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		result.Products = append(result.Products, NewProductDTO(&rows[i], handles))
	}
	return result, nil
}

// storeFilter resolves the optional store handle of a stock filter.
func (s *service) storeFilter(ctx context.Context, handle string) (*uuid.UUID, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}
	store, err := s.stores.ByHandle(ctx, handle)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Validation("invalid store", []pkgerrors.FieldError{{Field: "store", Message: "store does not exist"}})
		}
		return nil, err
	}
	return &store.ID, nil
}

func (s *service) storeHandles(ctx context.Context) (map[uuid.UUID]string, error) {
	all, err := s.stores.AllStores(ctx)
	if err != nil {
		return nil, err
	}
	handles := make(map[uuid.UUID]string, len(all))
	for _, store := range all {
		handles[store.ID] = store.Handle
	}
	return handles, nil
}
