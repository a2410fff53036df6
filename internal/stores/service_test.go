package stores

import (
	"context"
	"testing"

	"github.com/angelmondragon/purchasables/pkg/db/dbtest"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

func seedStores(t *testing.T, repo *Repository) (primary, outlet *models.Store) {
	t.Helper()
	primary = &models.Store{Handle: "main", Name: "Main", Primary: true, Currency: "USD"}
	outlet = &models.Store{Handle: "outlet", Name: "Outlet", Currency: "USD", SortOrder: 1}
	for _, s := range []*models.Store{primary, outlet} {
		if err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("seed store %s: %v", s.Handle, err)
		}
	}
	return primary, outlet
}

func TestNewDirectoryRequiresRepo(t *testing.T) {
	if _, err := NewDirectory(nil, ""); err == nil {
		t.Fatal("expected error creating directory without repo")
	}
}

func TestDirectoryCurrentStoreDefaultsToPrimary(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	primary, _ := seedStores(t, repo)

	dir, err := NewDirectory(repo, "")
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	got, err := dir.CurrentStore(context.Background())
	if err != nil {
		t.Fatalf("current store: %v", err)
	}
	if got.ID != primary.ID {
		t.Fatalf("expected primary store %s, got %s", primary.ID, got.ID)
	}
}

func TestDirectoryCurrentStoreUsesConfiguredHandle(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	_, outlet := seedStores(t, repo)

	dir, _ := NewDirectory(repo, " outlet ")
	got, err := dir.CurrentStore(context.Background())
	if err != nil {
		t.Fatalf("current store: %v", err)
	}
	if got.ID != outlet.ID {
		t.Fatalf("expected outlet store, got %s", got.Handle)
	}
}

func TestDirectoryMissingConfiguredStoreIsConfigurationError(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seedStores(t, repo)

	dir, _ := NewDirectory(repo, "ghost")
	_, err := dir.CurrentStore(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDirectoryWithoutPrimaryIsConfigurationError(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	dir, _ := NewDirectory(repo, "")

	_, err := dir.PrimaryStore(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDirectoryByHandle(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	primary, outlet := seedStores(t, repo)
	dir, _ := NewDirectory(repo, "")
	ctx := context.Background()

	got, err := dir.ByHandle(ctx, "outlet")
	if err != nil || got.ID != outlet.ID {
		t.Fatalf("expected outlet store, got %v err=%v", got, err)
	}

	got, err = dir.ByHandle(ctx, "")
	if err != nil || got.ID != primary.ID {
		t.Fatalf("expected empty handle to resolve the current store, got %v err=%v", got, err)
	}

	_, err = dir.ByHandle(ctx, "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDirectoryAllStoresOrdered(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seedStores(t, repo)
	dir, _ := NewDirectory(repo, "")

	all, err := dir.AllStores(context.Background())
	if err != nil {
		t.Fatalf("all stores: %v", err)
	}
	if len(all) != 2 || all[0].Handle != "main" || all[1].Handle != "outlet" {
		t.Fatalf("unexpected store ordering %+v", FromModels(all))
	}
}
