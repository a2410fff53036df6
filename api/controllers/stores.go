package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/purchasables/api/responses"
	"github.com/angelmondragon/purchasables/internal/stores"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
)

type storeLister interface {
	AllStores(ctx context.Context) ([]models.Store, error)
}

// StoreList returns every configured store, primary first.
func StoreList(dir storeLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store directory unavailable"))
			return
		}
		all, err := dir.AllStores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores.FromModels(all))
	}
}
