package enums

import "fmt"

// PurchasableStatus represents the lifecycle status of a purchasable.
// Only live purchasables take part in SKU uniqueness and save-time validation.
type PurchasableStatus string

const (
	PurchasableStatusLive     PurchasableStatus = "live"
	PurchasableStatusPending  PurchasableStatus = "pending"
	PurchasableStatusExpired  PurchasableStatus = "expired"
	PurchasableStatusDisabled PurchasableStatus = "disabled"
)

var validPurchasableStatuses = []PurchasableStatus{
	PurchasableStatusLive,
	PurchasableStatusPending,
	PurchasableStatusExpired,
	PurchasableStatusDisabled,
}

// String implements fmt.Stringer.
func (s PurchasableStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PurchasableStatus.
func (s PurchasableStatus) IsValid() bool {
	for _, candidate := range validPurchasableStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePurchasableStatus converts raw input into a PurchasableStatus.
func ParsePurchasableStatus(value string) (PurchasableStatus, error) {
	for _, candidate := range validPurchasableStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchasable status %q", value)
}
