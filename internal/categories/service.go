package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/pkg/db"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

// Resolver picks the tax and shipping category a purchasable is saved with.
type Resolver interface {
	ResolveTaxCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error)
	ResolveShippingCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error)
}

type categoryRepository interface {
	DefaultTaxCategory(ctx context.Context) (*models.TaxCategory, error)
	DefaultShippingCategory(ctx context.Context) (*models.ShippingCategory, error)
	TaxCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	ShippingCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type resolver struct {
	repo categoryRepository
}

// NewResolver constructs a category resolver.
func NewResolver(repo categoryRepository) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &resolver{repo: repo}, nil
}

// ResolveTaxCategory returns id when it exists, or the default tax category when id is nil.
func (r *resolver) ResolveTaxCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id != nil && *id != uuid.Nil {
		ok, err := r.repo.TaxCategoryExists(ctx, *id)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tax category")
		}
		if !ok {
			return uuid.Nil, pkgerrors.Validation("purchasable is invalid", []pkgerrors.FieldError{
				{Field: "taxCategoryId", Message: "tax category does not exist"},
			})
		}
		return *id, nil
	}
	category, err := r.repo.DefaultTaxCategory(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeConfiguration, "no default tax category configured")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default tax category")
	}
	return category.ID, nil
}

// ResolveShippingCategory returns id when it exists, or the default shipping category when id is nil.
func (r *resolver) ResolveShippingCategory(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id != nil && *id != uuid.Nil {
		ok, err := r.repo.ShippingCategoryExists(ctx, *id)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check shipping category")
		}
		if !ok {
			return uuid.Nil, pkgerrors.Validation("purchasable is invalid", []pkgerrors.FieldError{
				{Field: "shippingCategoryId", Message: "shipping category does not exist"},
			})
		}
		return *id, nil
	}
	category, err := r.repo.DefaultShippingCategory(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeConfiguration, "no default shipping category configured")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default shipping category")
	}
	return category.ID, nil
}
