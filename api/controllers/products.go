package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/purchasables/api/responses"
	"github.com/angelmondragon/purchasables/api/validators"
	product "github.com/angelmondragon/purchasables/internal/products"
	"github.com/angelmondragon/purchasables/pkg/logger"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

type createProductRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// ProductList browses products. hasUnlimitedStock filters on the stock flag of any
// variant, optionally limited to one store.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unlimited, err := validators.ParseQueryBool(r, "hasUnlimitedStock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListProducts(r.Context(), product.ListProductsInput{
			HasUnlimitedStock: unlimited,
			StoreHandle:       strings.TrimSpace(r.URL.Query().Get("store")),
			Limit:             limit,
			Cursor:            strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductGet loads one product. With hasUnlimitedStock (and optionally store) a product
// whose variants fail the condition is reported as not found.
func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unlimited, err := validators.ParseQueryBool(r, "hasUnlimitedStock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetProductMatching(r.Context(), id, product.ProductFilter{
			HasUnlimitedStock: unlimited,
			StoreHandle:       strings.TrimSpace(r.URL.Query().Get("store")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateProduct(r.Context(), product.CreateProductInput{Title: validators.SanitizeString(payload.Title, 255)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
