package product

// ListProductsInput captures the browse endpoint filters and pagination.
type ListProductsInput struct {
	HasUnlimitedStock *bool
	// StoreHandle restricts the unlimited stock filter to one store; empty means any store.
	StoreHandle string
	Limit       int
	Cursor      string
}

// ProductFilter narrows a single product lookup with the same stock condition the browse
// endpoint applies. A product that fails it reads as not found.
type ProductFilter struct {
	HasUnlimitedStock *bool
	StoreHandle       string
}

// CreateProductInput holds the payload to create a product.
type CreateProductInput struct {
	Title string
}

// ProductListResult is one page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"nextCursor,omitempty"`
}
