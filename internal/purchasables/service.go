package purchasable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/pkg/db"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

// Service exposes purchasable management operations.
type Service interface {
	Load(ctx context.Context, id uuid.UUID) (*models.Purchasable, error)
	Get(ctx context.Context, id uuid.UUID) (*PurchasableDTO, error)
	Create(ctx context.Context, input SaveInput) (*PurchasableDTO, error)
	Update(ctx context.Context, id uuid.UUID, input SaveInput) (*PurchasableDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStoreValues(ctx context.Context, id uuid.UUID, storeHandle string, values map[string]any) (*PurchasableDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type storeDirectory interface {
	AllStores(ctx context.Context) ([]models.Store, error)
	PrimaryStore(ctx context.Context) (*models.Store, error)
	ByHandle(ctx context.Context, handle string) (*models.Store, error)
}

type categoryResolver interface {
	ResolveTaxCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error)
	ResolveShippingCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error)
}

// cacheInvalidator drops shared pricing cache entries of a purchasable after writes.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, purchasableID uuid.UUID) error
}

// ServiceParams wires the purchasable service.
type ServiceParams struct {
	Repo       *Repository
	DB         *db.Client
	Stores     storeDirectory
	Categories categoryResolver
	Cache      cacheInvalidator
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	stores     storeDirectory
	categories categoryResolver
	cache      cacheInvalidator
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs a purchasable service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("purchasable repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store directory required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category resolver required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		dbClient:   params.DB,
		stores:     params.Stores,
		categories: params.Categories,
		cache:      params.Cache,
		logg:       logg,
		now:        now,
	}, nil
}

func (s *service) Load(ctx context.Context, id uuid.UUID) (*models.Purchasable, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchasable not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchasable")
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PurchasableDTO, error) {
	item, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, item)
}

func (s *service) Create(ctx context.Context, input SaveInput) (*PurchasableDTO, error) {
	item := &models.Purchasable{}
	applyInput(item, input)

	if err := s.prepare(ctx, item, input); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, item)
	}); err != nil {
		return nil, mapWriteError(err, "create purchasable")
	}

	ctx = s.logg.WithPurchasableID(ctx, item.ID.String())
	s.logg.Info(ctx, "purchasable created")
	return s.Get(ctx, item.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input SaveInput) (*PurchasableDTO, error) {
	item, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(item, input)

	if err := s.prepare(ctx, item, input); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Update(ctx, item)
	}); err != nil {
		return nil, mapWriteError(err, "update purchasable")
	}

	ctx = s.logg.WithPurchasableID(ctx, item.ID.String())
	s.invalidate(ctx, item.ID)
	s.logg.Info(ctx, "purchasable updated")
	return s.Get(ctx, item.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).Delete(ctx, id)
		deleted = rows
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchasable")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "purchasable not found")
	}

	ctx = s.logg.WithPurchasableID(ctx, id.String())
	s.invalidate(ctx, id)
	s.logg.Info(ctx, "purchasable deleted")
	return nil
}

func (s *service) SetStoreValues(ctx context.Context, id uuid.UUID, storeHandle string, values map[string]any) (*PurchasableDTO, error) {
	item, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.ByHandle(ctx, storeHandle)
	if err != nil {
		return nil, err
	}
	if err := SetStoreValues(item, store.ID, values); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, item); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpsertOverride(ctx, item.StoreOverride(store.ID)); err != nil {
			return err
		}
		return txRepo.Touch(ctx, item.ID, s.now())
	}); err != nil {
		return nil, mapWriteError(err, "save store values")
	}

	ctx = s.logg.WithPurchasableID(ctx, item.ID.String())
	ctx = s.logg.WithStoreHandle(ctx, store.Handle)
	s.invalidate(ctx, item.ID)
	s.logg.Info(ctx, "store values updated")
	return s.Get(ctx, item.ID)
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, ListFilter{
		Status:    input.Status,
		ProductID: input.ProductID,
		Limit:     input.Limit,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchasables")
	}
	rows, next := pagination.Page(rows, input.Limit, func(p models.Purchasable) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	handles, err := s.storeHandles(ctx)
	if err != nil {
		return nil, err
	}
	result := &ListResult{Items: make([]PurchasableDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		result.Items = append(result.Items, NewPurchasableDTO(&rows[i], handles))
	}
	return result, nil
}

// prepare applies store values, resolves categories and validates item.
func (s *service) prepare(ctx context.Context, item *models.Purchasable, input SaveInput) error {
	var storeErrs []pkgerrors.FieldError
	for handle, values := range input.Stores {
		store, err := s.stores.ByHandle(ctx, handle)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				storeErrs = append(storeErrs, pkgerrors.FieldError{Field: "stores." + handle, Message: "store does not exist"})
				continue
			}
			return err
		}
		if err := SetStoreValues(item, store.ID, values); err != nil {
			if fields := pkgerrors.FieldErrors(err); fields != nil {
				for _, fe := range fields {
					storeErrs = append(storeErrs, pkgerrors.FieldError{Field: "stores." + handle + "." + fe.Field, Message: fe.Message})
				}
				continue
			}
			return err
		}
	}
	if len(storeErrs) > 0 {
		return pkgerrors.Validation("purchasable is invalid", storeErrs)
	}

	taxID, err := s.categories.ResolveTaxCategory(ctx, item.TaxCategoryID)
	if err != nil {
		return err
	}
	shippingID, err := s.categories.ResolveShippingCategory(ctx, item.ShippingCategoryID)
	if err != nil {
		return err
	}
	item.TaxCategoryID = &taxID
	item.ShippingCategoryID = &shippingID

	return s.validate(ctx, item)
}

func (s *service) validate(ctx context.Context, item *models.Purchasable) error {
	handles, err := s.storeHandles(ctx)
	if err != nil {
		return err
	}
	primary, err := s.stores.PrimaryStore(ctx)
	if err != nil {
		return err
	}
	return Validate(ctx, item, handles, primary.ID, s.repo)
}

func (s *service) describe(ctx context.Context, item *models.Purchasable) (*PurchasableDTO, error) {
	handles, err := s.storeHandles(ctx)
	if err != nil {
		return nil, err
	}
	dto := NewPurchasableDTO(item, handles)
	return &dto, nil
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

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache invalidation failed")
	}
}

func applyInput(item *models.Purchasable, input SaveInput) {
	item.SKU = strings.TrimSpace(input.SKU)
	item.Status = input.Status
	if item.Status == "" {
		item.Status = enums.PurchasableStatusPending
	}
	item.ProductID = input.ProductID
	item.Width = input.Width
	item.Height = input.Height
	item.Length = input.Length
	item.Weight = input.Weight
	item.TaxCategoryID = input.TaxCategoryID
	item.ShippingCategoryID = input.ShippingCategoryID
}

func mapWriteError(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, action+": duplicate sku or store override")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
