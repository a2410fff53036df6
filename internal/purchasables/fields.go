package purchasable

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/money"
)

// Field names a store-scoped value of a purchasable.
type Field string

const (
	FieldPrice                Field = "price"
	FieldPromotionalPrice     Field = "promotionalPrice"
	FieldStock                Field = "stock"
	FieldHasUnlimitedStock    Field = "hasUnlimitedStock"
	FieldMinQty               Field = "minQty"
	FieldMaxQty               Field = "maxQty"
	FieldPromotable           Field = "promotable"
	FieldAvailableForPurchase Field = "availableForPurchase"
	FieldFreeShipping         Field = "freeShipping"
)

type accessor struct {
	// zero is returned when the purchasable has no override for the store.
	zero  any
	get   func(o *models.PurchasableStore) any
	parse func(value any) (any, error)
	set   func(o *models.PurchasableStore, parsed any)
}

var accessors = map[Field]accessor{
	FieldPrice: {
		zero:  money.Absent(),
		get:   func(o *models.PurchasableStore) any { return o.Price },
		parse: parseNullDecimal,
		set:   func(o *models.PurchasableStore, v any) { o.Price = v.(decimal.NullDecimal) },
	},
	FieldPromotionalPrice: {
		zero:  money.Absent(),
		get:   func(o *models.PurchasableStore) any { return o.PromotionalPrice },
		parse: parseNullDecimal,
		set:   func(o *models.PurchasableStore, v any) { o.PromotionalPrice = v.(decimal.NullDecimal) },
	},
	FieldStock: {
		zero:  0,
		get:   func(o *models.PurchasableStore) any { return o.Stock },
		parse: parseIntValue,
		set:   func(o *models.PurchasableStore, v any) { o.Stock = v.(int) },
	},
	FieldHasUnlimitedStock: {
		zero:  false,
		get:   func(o *models.PurchasableStore) any { return o.HasUnlimitedStock },
		parse: parseBoolValue,
		set:   func(o *models.PurchasableStore, v any) { o.HasUnlimitedStock = v.(bool) },
	},
	FieldMinQty: {
		zero:  (*int)(nil),
		get:   func(o *models.PurchasableStore) any { return o.MinQty },
		parse: parseOptionalInt,
		set:   func(o *models.PurchasableStore, v any) { o.MinQty = v.(*int) },
	},
	FieldMaxQty: {
		zero:  (*int)(nil),
		get:   func(o *models.PurchasableStore) any { return o.MaxQty },
		parse: parseOptionalInt,
		set:   func(o *models.PurchasableStore, v any) { o.MaxQty = v.(*int) },
	},
	FieldPromotable: {
		zero:  false,
		get:   func(o *models.PurchasableStore) any { return o.Promotable },
		parse: parseBoolValue,
		set:   func(o *models.PurchasableStore, v any) { o.Promotable = v.(bool) },
	},
	FieldAvailableForPurchase: {
		zero:  false,
		get:   func(o *models.PurchasableStore) any { return o.AvailableForPurchase },
		parse: parseBoolValue,
		set:   func(o *models.PurchasableStore, v any) { o.AvailableForPurchase = v.(bool) },
	},
	FieldFreeShipping: {
		zero:  false,
		get:   func(o *models.PurchasableStore) any { return o.FreeShipping },
		parse: parseBoolValue,
		set:   func(o *models.PurchasableStore, v any) { o.FreeShipping = v.(bool) },
	},
}

// IsKnownField reports whether name is a registered store field.
func IsKnownField(name string) bool {
	_, ok := accessors[Field(name)]
	return ok
}

// KnownFields lists the registered store fields in a stable order.
func KnownFields() []Field {
	return []Field{
		FieldPrice,
		FieldPromotionalPrice,
		FieldStock,
		FieldHasUnlimitedStock,
		FieldMinQty,
		FieldMaxQty,
		FieldPromotable,
		FieldAvailableForPurchase,
		FieldFreeShipping,
	}
}

func lookup(field Field) (accessor, error) {
	acc, ok := accessors[field]
	if !ok {
		return accessor{}, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("unknown store field %q", field))
	}
	return acc, nil
}

// GetStoreValue reads field from the purchasable's override for storeID.
// A missing override yields the field's natural default.
func GetStoreValue(item *models.Purchasable, storeID uuid.UUID, field Field) (any, error) {
	acc, err := lookup(field)
	if err != nil {
		return nil, err
	}
	override := item.StoreOverride(storeID)
	if override == nil {
		return acc.zero, nil
	}
	return acc.get(override), nil
}

// SetStoreValue writes field on the purchasable's override for storeID, creating the
// override when missing. Unknown fields and unparsable values leave item untouched.
func SetStoreValue(item *models.Purchasable, storeID uuid.UUID, field Field, value any) error {
	return SetStoreValues(item, storeID, map[string]any{string(field): value})
}

// SetStoreValues applies several store fields at once. Every name is checked and every
// value parsed before the override is touched, so a failure leaves item unchanged.
func SetStoreValues(item *models.Purchasable, storeID uuid.UUID, values map[string]any) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "purchasable is required")
	}
	for name := range values {
		if _, err := lookup(Field(name)); err != nil {
			return err
		}
	}

	parsed := make(map[Field]any, len(values))
	var fieldErrs []pkgerrors.FieldError
	for _, field := range KnownFields() {
		raw, ok := values[string(field)]
		if !ok {
			continue
		}
		value, err := accessors[field].parse(raw)
		if err != nil {
			fieldErrs = append(fieldErrs, pkgerrors.FieldError{Field: string(field), Message: err.Error()})
			continue
		}
		parsed[field] = value
	}
	if len(fieldErrs) > 0 {
		return pkgerrors.Validation("invalid store values", fieldErrs)
	}

	override := item.EnsureStoreOverride(storeID)
	for field, value := range parsed {
		accessors[field].set(override, value)
	}
	return nil
}

// Price returns the stored price for storeID.
func Price(item *models.Purchasable, storeID uuid.UUID) decimal.NullDecimal {
	if o := item.StoreOverride(storeID); o != nil {
		return o.Price
	}
	return money.Absent()
}

// SetPrice stores the price for storeID.
func SetPrice(item *models.Purchasable, storeID uuid.UUID, price decimal.NullDecimal) {
	item.EnsureStoreOverride(storeID).Price = price
}

// PromotionalPrice returns the stored promotional price for storeID.
func PromotionalPrice(item *models.Purchasable, storeID uuid.UUID) decimal.NullDecimal {
	if o := item.StoreOverride(storeID); o != nil {
		return o.PromotionalPrice
	}
	return money.Absent()
}

// SetPromotionalPrice stores the promotional price for storeID.
func SetPromotionalPrice(item *models.Purchasable, storeID uuid.UUID, price decimal.NullDecimal) {
	item.EnsureStoreOverride(storeID).PromotionalPrice = price
}

// Stock returns the stored stock level for storeID.
func Stock(item *models.Purchasable, storeID uuid.UUID) int {
	if o := item.StoreOverride(storeID); o != nil {
		return o.Stock
	}
	return 0
}

// SetStock stores the stock level for storeID.
func SetStock(item *models.Purchasable, storeID uuid.UUID, stock int) {
	item.EnsureStoreOverride(storeID).Stock = stock
}

// HasUnlimitedStock reports the unlimited stock flag for storeID.
func HasUnlimitedStock(item *models.Purchasable, storeID uuid.UUID) bool {
	if o := item.StoreOverride(storeID); o != nil {
		return o.HasUnlimitedStock
	}
	return false
}

// SetHasUnlimitedStock stores the unlimited stock flag for storeID.
func SetHasUnlimitedStock(item *models.Purchasable, storeID uuid.UUID, unlimited bool) {
	item.EnsureStoreOverride(storeID).HasUnlimitedStock = unlimited
}

// MinQty returns the minimum purchase quantity for storeID, nil when unset.
func MinQty(item *models.Purchasable, storeID uuid.UUID) *int {
	if o := item.StoreOverride(storeID); o != nil {
		return o.MinQty
	}
	return nil
}

// MaxQty returns the maximum purchase quantity for storeID, nil when unset.
func MaxQty(item *models.Purchasable, storeID uuid.UUID) *int {
	if o := item.StoreOverride(storeID); o != nil {
		return o.MaxQty
	}
	return nil
}

// Promotable reports whether sales may apply in storeID.
func Promotable(item *models.Purchasable, storeID uuid.UUID) bool {
	if o := item.StoreOverride(storeID); o != nil {
		return o.Promotable
	}
	return false
}

// AvailableForPurchase reports the purchase flag for storeID.
func AvailableForPurchase(item *models.Purchasable, storeID uuid.UUID) bool {
	if o := item.StoreOverride(storeID); o != nil {
		return o.AvailableForPurchase
	}
	return false
}

// FreeShipping reports the free shipping flag for storeID.
func FreeShipping(item *models.Purchasable, storeID uuid.UUID) bool {
	if o := item.StoreOverride(storeID); o != nil {
		return o.FreeShipping
	}
	return false
}

func parseNullDecimal(value any) (any, error) {
	d, err := money.ParseNull(value)
	if err != nil {
		return nil, fmt.Errorf("must be a number")
	}
	return d, nil
}

var (
	minStoreInt = decimal.NewFromInt(math.MinInt32)
	maxStoreInt = decimal.NewFromInt(math.MaxInt32)
)

// parseIntValue accepts whole numbers that fit the integer columns of purchasable_stores.
func parseIntValue(value any) (any, error) {
	errWhole := fmt.Errorf("must be a whole number")
	var d decimal.Decimal
	switch v := value.(type) {
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errWhole
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, errWhole
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, errWhole
		}
		d = parsed
	default:
		return nil, errWhole
	}
	if !d.IsInteger() || d.LessThan(minStoreInt) || d.GreaterThan(maxStoreInt) {
		return nil, errWhole
	}
	return int(d.IntPart()), nil
}

func parseOptionalInt(value any) (any, error) {
	if value == nil {
		return (*int)(nil), nil
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return (*int)(nil), nil
	}
	n, err := parseIntValue(value)
	if err != nil {
		return nil, err
	}
	out := n.(int)
	return &out, nil
}

func parseBoolValue(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return b, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return !d.IsZero(), nil
	default:
		return nil, fmt.Errorf("must be true or false")
	}
}
