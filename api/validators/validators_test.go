package validators

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

type createPayload struct {
	Title string `json:"title" validate:"required,max=10"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":""}`))
	var payload createPayload
	err := DecodeJSONBody(req, &payload)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := pkgerrors.FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "title" || fields[0].Message != "is required" {
		t.Fatalf("unexpected field errors %+v", fields)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","extra":1}`))
	var payload createPayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONValuesKeepsNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":19.99,"stock":3}`))
	values, err := DecodeJSONValues(req)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n, ok := values["price"].(json.Number); !ok || n.String() != "19.99" {
		t.Fatalf("expected json.Number price, got %#v", values["price"])
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	if _, err := DecodeJSONValues(req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected empty body to be rejected, got %v", err)
	}
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&unlimited=yes&product=bad", nil)

	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected out of range limit to fail, got %v", err)
	}
	if _, err := ParseQueryBool(req, "unlimited"); err == nil {
		t.Fatal("expected invalid bool to fail")
	}
	if _, err := ParseQueryUUID(req, "product"); err == nil {
		t.Fatal("expected invalid uuid to fail")
	}

	req = httptest.NewRequest(http.MethodGet, "/?unlimited=true", nil)
	limit, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || limit != 25 {
		t.Fatalf("expected default limit, got %d err=%v", limit, err)
	}
	b, err := ParseQueryBool(req, "unlimited")
	if err != nil || b == nil || !*b {
		t.Fatalf("expected true, got %v err=%v", b, err)
	}
	missing, err := ParseQueryUUID(req, "product")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for absent uuid, got %v err=%v", missing, err)
	}
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id.String())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	got, err := ParseURLUUID(req, "id")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s err=%v", id, got, err)
	}

	routeCtx.URLParams = chi.RouteParams{}
	routeCtx.URLParams.Add("id", "nope")
	if _, err := ParseURLUUID(req, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"  ABC-1 ", 0, "ABC-1"},
		{"SKU\x00\n-2", 0, "SKU-2"},
		{"ébène", 3, "ébè"},
		{"abc", 10, "abc"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.max); got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
