package enums

import "fmt"

// SaleApplyType describes how a sale changes the running price.
type SaleApplyType string

const (
	// SaleApplyByPercent reduces the price by a fraction of itself.
	SaleApplyByPercent SaleApplyType = "byPercent"
	// SaleApplyToPercent sets the price to a fraction of itself.
	SaleApplyToPercent SaleApplyType = "toPercent"
	SaleApplyByFlat    SaleApplyType = "byFlat"
	SaleApplyToFlat    SaleApplyType = "toFlat"
)

var validSaleApplyTypes = []SaleApplyType{
	SaleApplyByPercent,
	SaleApplyToPercent,
	SaleApplyByFlat,
	SaleApplyToFlat,
}

// String implements fmt.Stringer.
func (t SaleApplyType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known SaleApplyType.
func (t SaleApplyType) IsValid() bool {
	for _, candidate := range validSaleApplyTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSaleApplyType converts raw input into a SaleApplyType.
func ParseSaleApplyType(value string) (SaleApplyType, error) {
	for _, candidate := range validSaleApplyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale apply type %q", value)
}
