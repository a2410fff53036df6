package models

// All lists every model, in dependency order, for schema bootstrapping in tests and sqlite mode.
func All() []any {
	return []any{
		&Store{},
		&TaxCategory{},
		&ShippingCategory{},
		&Product{},
		&Purchasable{},
		&PurchasableStore{},
		&CatalogPrice{},
		&Sale{},
		&SalePurchasable{},
		&SaleStore{},
	}
}
