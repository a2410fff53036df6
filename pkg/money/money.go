// Package money holds the decimal helpers shared by pricing code.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places prices are compared and displayed at.
const Places = 2

// Round rounds to two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// RoundNull rounds a present value and leaves an absent one untouched.
func RoundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(Round(d.Decimal))
}

// Absent is the zero NullDecimal, spelled out for readability at call sites.
func Absent() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Present wraps d as a present NullDecimal.
func Present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// Equal reports whether a and b hold the same presence and value.
func Equal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// Parse converts loosely typed input into a decimal.
// Accepted inputs: decimal values, Go numbers, json.Number and numeric strings.
func Parse(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, fmt.Errorf("nil decimal")
		}
		return *v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, fmt.Errorf("empty number")
		}
		return decimal.NewFromString(trimmed)
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", value)
	}
}

// ParseNull is Parse for optional values: nil and the empty string map to absent.
func ParseNull(value any) (decimal.NullDecimal, error) {
	switch v := value.(type) {
	case nil:
		return Absent(), nil
	case decimal.NullDecimal:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return Absent(), nil
		}
	}
	d, err := Parse(value)
	if err != nil {
		return Absent(), err
	}
	return Present(d), nil
}
