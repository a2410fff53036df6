package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/api/responses"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/logger"
)

const userIDHeader = "X-User-Id"

// Shopper resolves the optional shopper identity used for customer-specific catalog
// prices. Requests without the header stay anonymous.
func Shopper(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(userIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("invalid user id", []pkgerrors.FieldError{
					{Field: userIDHeader, Message: "must be a uuid"},
				}))
				return
			}
			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
