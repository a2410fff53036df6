package purchasable

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
	"github.com/angelmondragon/purchasables/pkg/money"
)

type stubSKUs struct {
	taken bool
	err   error
}

func (s stubSKUs) SKUExists(context.Context, string, uuid.UUID) (bool, error) {
	return s.taken, s.err
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	storeID := uuid.New()
	handles := map[uuid.UUID]string{storeID: "main"}
	item := &models.Purchasable{
		Status: enums.PurchasableStatusLive,
		Weight: money.Present(decimal.NewFromInt(-1)),
	}
	override := item.EnsureStoreOverride(storeID)
	override.PromotionalPrice = money.Present(decimal.NewFromInt(-2))

	err := Validate(context.Background(), item, handles, storeID, stubSKUs{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"sku", "stores.main.price", "stores.main.promotionalPrice", "stores.main.stock", "weight"}
	got := pkgerrors.FieldErrors(err)
	if len(got) != len(want) {
		t.Fatalf("expected %d field errors, got %+v", len(want), got)
	}
	for i, field := range want {
		if got[i].Field != field {
			t.Fatalf("field %d: expected %s, got %s", i, field, got[i].Field)
		}
	}
}

func TestValidateTakenSKU(t *testing.T) {
	storeID := uuid.New()
	item := &models.Purchasable{SKU: "ABC", Status: enums.PurchasableStatusLive}
	SetPrice(item, storeID, money.Present(decimal.NewFromInt(1)))
	SetHasUnlimitedStock(item, storeID, true)

	if err := Validate(context.Background(), item, nil, storeID, stubSKUs{}); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	err := Validate(context.Background(), item, nil, storeID, stubSKUs{taken: true})
	fields := pkgerrors.FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "sku" {
		t.Fatalf("expected sku error, got %v", err)
	}

	err = Validate(context.Background(), item, nil, storeID, stubSKUs{err: errors.New("db down")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestValidateUsesStoreIDWhenHandleUnknown(t *testing.T) {
	storeID := uuid.New()
	item := &models.Purchasable{Status: enums.PurchasableStatusPending}
	SetPrice(item, storeID, money.Present(decimal.NewFromInt(-5)))

	err := Validate(context.Background(), item, nil, uuid.Nil, nil)
	fields := pkgerrors.FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "stores."+storeID.String()+".price" {
		t.Fatalf("unexpected field errors %+v", fields)
	}
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	item := &models.Purchasable{Status: "archived"}
	err := Validate(context.Background(), item, nil, uuid.Nil, nil)
	fields := pkgerrors.FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "status" {
		t.Fatalf("expected status error, got %+v", fields)
	}
}
