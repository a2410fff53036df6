package stores

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// StoreDTO exposes store data in API responses.
type StoreDTO struct {
	ID       uuid.UUID `json:"id"`
	Handle   string    `json:"handle"`
	Name     string    `json:"name"`
	Primary  bool      `json:"primary"`
	Currency string    `json:"currency"`
}

// FromModel maps the DB model to the API DTO.
func FromModel(m *models.Store) StoreDTO {
	return StoreDTO{
		ID:       m.ID,
		Handle:   m.Handle,
		Name:     m.Name,
		Primary:  m.Primary,
		Currency: m.Currency,
	}
}

// FromModels maps a slice of stores.
func FromModels(list []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
