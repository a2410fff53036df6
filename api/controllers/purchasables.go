package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/api/responses"
	"github.com/angelmondragon/purchasables/api/validators"
	purchasable "github.com/angelmondragon/purchasables/internal/purchasables"
	"github.com/angelmondragon/purchasables/pkg/enums"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

type purchasableRequest struct {
	SKU                string                    `json:"sku" validate:"max=64"`
	Status             string                    `json:"status" validate:"omitempty,oneof=live pending expired disabled"`
	ProductID          *uuid.UUID                `json:"productId"`
	Width              decimal.NullDecimal       `json:"width"`
	Height             decimal.NullDecimal       `json:"height"`
	Length             decimal.NullDecimal       `json:"length"`
	Weight             decimal.NullDecimal       `json:"weight"`
	TaxCategoryID      *uuid.UUID                `json:"taxCategoryId"`
	ShippingCategoryID *uuid.UUID                `json:"shippingCategoryId"`
	Stores             map[string]map[string]any `json:"stores"`
}

func (p purchasableRequest) toInput() (purchasable.SaveInput, error) {
	status := enums.PurchasableStatusLive
	if raw := strings.TrimSpace(p.Status); raw != "" {
		parsed, err := enums.ParsePurchasableStatus(raw)
		if err != nil {
			return purchasable.SaveInput{}, pkgerrors.Validation("invalid purchasable", []pkgerrors.FieldError{{Field: "status", Message: "is invalid"}})
		}
		status = parsed
	}
	if err := checkStoreFields(p.Stores); err != nil {
		return purchasable.SaveInput{}, err
	}
	return purchasable.SaveInput{
		SKU:                validators.SanitizeString(p.SKU, 64),
		Status:             status,
		ProductID:          p.ProductID,
		Width:              p.Width,
		Height:             p.Height,
		Length:             p.Length,
		Weight:             p.Weight,
		TaxCategoryID:      p.TaxCategoryID,
		ShippingCategoryID: p.ShippingCategoryID,
		Stores:             p.Stores,
	}, nil
}

// checkStoreFields turns unknown store field names into client errors. The service
// treats them as configuration errors since only callers can send them.
func checkStoreFields(stores map[string]map[string]any) error {
	var fields []pkgerrors.FieldError
	for handle, values := range stores {
		for name := range values {
			if !purchasable.IsKnownField(name) {
				fields = append(fields, pkgerrors.FieldError{Field: "stores." + handle + "." + name, Message: "unknown field"})
			}
		}
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("invalid purchasable", fields)
	}
	return nil
}

// PurchasableList returns a page of purchasables.
func PurchasableList(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseQueryUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := purchasable.ListInput{
			ProductID: productID,
			Limit:     limit,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePurchasableStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("invalid request parameters", []pkgerrors.FieldError{{Field: "status", Message: "is invalid"}}))
				return
			}
			input.Status = &status
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PurchasableGet returns one purchasable with its store values.
func PurchasableGet(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "purchasableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PurchasableCreate validates and stores a new purchasable.
func PurchasableCreate(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload purchasableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PurchasableUpdate replaces the editable state of a purchasable.
func PurchasableUpdate(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "purchasableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload purchasableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PurchasableDelete removes a purchasable and everything attached to it.
func PurchasableDelete(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "purchasableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PurchasableSetStoreValues writes store fields of one purchasable in one store.
func PurchasableSetStoreValues(svc purchasable.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "purchasableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handle := strings.TrimSpace(chi.URLParam(r, "storeHandle"))
		values, err := validators.DecodeJSONValues(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := checkStoreFields(map[string]map[string]any{handle: values}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.SetStoreValues(r.Context(), id, handle, values)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
