package purchasable

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// itemRules is the validated view of the purchasable columns.
type itemRules struct {
	SKU    string `json:"sku" validate:"required_if=Live true"`
	Status string `json:"status" validate:"required,oneof=live pending expired disabled"`
	Live   bool   `json:"-"`
}

// storeRules is the validated view of one live override.
type storeRules struct {
	Price             *decimal.Decimal `json:"price" validate:"required"`
	Stock             int              `json:"stock" validate:"required_unless=HasUnlimitedStock true"`
	HasUnlimitedStock bool             `json:"hasUnlimitedStock"`
	MinQty            *int             `json:"minQty" validate:"omitempty,gte=0"`
	MaxQty            *int             `json:"maxQty" validate:"omitempty,gte=0"`
}

type skuChecker interface {
	SKUExists(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
}

// Validate checks item before save and returns every failure at once as a
// VALIDATION_ERROR carrying []errors.FieldError. storeHandles names overrides in
// field paths; primaryStoreID is the store every live item must be priced in.
func Validate(ctx context.Context, item *models.Purchasable, storeHandles map[uuid.UUID]string, primaryStoreID uuid.UUID, skus skuChecker) error {
	var fields []pkgerrors.FieldError

	rules := itemRules{SKU: strings.TrimSpace(item.SKU), Status: string(item.Status), Live: item.IsLive()}
	fields = append(fields, structErrors("", validate.Struct(rules))...)

	for name, value := range map[string]decimal.NullDecimal{
		"width":  item.Width,
		"height": item.Height,
		"length": item.Length,
		"weight": item.Weight,
	} {
		if value.Valid && value.Decimal.IsNegative() {
			fields = append(fields, pkgerrors.FieldError{Field: name, Message: "must not be negative"})
		}
	}

	if item.IsLive() && rules.SKU != "" && skus != nil {
		taken, err := skus.SKUExists(ctx, rules.SKU, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku uniqueness")
		}
		if taken {
			fields = append(fields, pkgerrors.FieldError{Field: "sku", Message: fmt.Sprintf("SKU %q has already been taken", rules.SKU)})
		}
	}

	if item.IsLive() && primaryStoreID != uuid.Nil && item.StoreOverride(primaryStoreID) == nil {
		fields = append(fields, pkgerrors.FieldError{Field: storePath(storeHandles, primaryStoreID, "price"), Message: "is required"})
	}

	for i := range item.Stores {
		fields = append(fields, validateOverride(item, &item.Stores[i], storeHandles)...)
	}

	if len(fields) == 0 {
		return nil
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return pkgerrors.Validation("purchasable is invalid", fields)
}

func validateOverride(item *models.Purchasable, override *models.PurchasableStore, storeHandles map[uuid.UUID]string) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	path := func(field string) string { return storePath(storeHandles, override.StoreID, field) }

	if item.IsLive() {
		rules := storeRules{
			Stock:             override.Stock,
			HasUnlimitedStock: override.HasUnlimitedStock,
			MinQty:            override.MinQty,
			MaxQty:            override.MaxQty,
		}
		if override.Price.Valid {
			price := override.Price.Decimal
			rules.Price = &price
		}
		for _, fe := range structErrors("", validate.Struct(rules)) {
			fields = append(fields, pkgerrors.FieldError{Field: path(fe.Field), Message: fe.Message})
		}
	}

	if override.Price.Valid && override.Price.Decimal.IsNegative() {
		fields = append(fields, pkgerrors.FieldError{Field: path("price"), Message: "must not be negative"})
	}
	if override.PromotionalPrice.Valid && override.PromotionalPrice.Decimal.IsNegative() {
		fields = append(fields, pkgerrors.FieldError{Field: path("promotionalPrice"), Message: "must not be negative"})
	}
	if override.MinQty != nil && override.MaxQty != nil && *override.MaxQty > 0 && *override.MinQty > *override.MaxQty {
		fields = append(fields, pkgerrors.FieldError{Field: path("minQty"), Message: "must not exceed maxQty"})
	}
	return fields
}

func storePath(storeHandles map[uuid.UUID]string, storeID uuid.UUID, field string) string {
	handle := storeHandles[storeID]
	if handle == "" {
		handle = storeID.String()
	}
	return fmt.Sprintf("stores.%s.%s", handle, field)
}

func structErrors(prefix string, err error) []pkgerrors.FieldError {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []pkgerrors.FieldError{{Field: prefix, Message: err.Error()}}
	}
	out := make([]pkgerrors.FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, pkgerrors.FieldError{Field: prefix + fe.Field(), Message: validationMessage(fe)})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return "is invalid"
}
