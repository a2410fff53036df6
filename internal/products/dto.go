package product

import (
	"time"

	"github.com/google/uuid"

	purchasable "github.com/angelmondragon/purchasables/internal/purchasables"
	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// ProductDTO represents a product with its variants.
type ProductDTO struct {
	ID        uuid.UUID                    `json:"id"`
	Title     string                       `json:"title"`
	Variants  []purchasable.PurchasableDTO `json:"variants"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

// NewProductDTO maps the model, naming store overrides through storeHandles.
func NewProductDTO(product *models.Product, storeHandles map[uuid.UUID]string) ProductDTO {
	dto := ProductDTO{
		ID:        product.ID,
		Title:     product.Title,
		Variants:  make([]purchasable.PurchasableDTO, 0, len(product.Variants)),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	for i := range product.Variants {
		dto.Variants = append(dto.Variants, purchasable.NewPurchasableDTO(&product.Variants[i], storeHandles))
	}
	return dto
}
