package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/api/middleware"
	"github.com/angelmondragon/purchasables/api/responses"
	"github.com/angelmondragon/purchasables/api/validators"
	"github.com/angelmondragon/purchasables/internal/pricing"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/logger"
)

type purchasableLoader interface {
	Load(ctx context.Context, id uuid.UUID) (*models.Purchasable, error)
}

type storeFinder interface {
	ByHandle(ctx context.Context, handle string) (*models.Store, error)
}

type resolverFactory interface {
	NewResolver(userID *uuid.UUID) *pricing.Resolver
}

// PurchasablePricing resolves price, promotional price, sale price and stock of a
// purchasable in the requested store, or the current store when none is given.
func PurchasablePricing(items purchasableLoader, stores storeFinder, engine resolverFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "purchasableId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithPurchasableID(ctx, id.String())
		}

		store, err := stores.ByHandle(ctx, strings.TrimSpace(r.URL.Query().Get("store")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		item, err := items.Load(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resolver := engine.NewResolver(middleware.UserIDFromContext(ctx))
		snapshot, err := resolver.Snapshot(ctx, item, store)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
