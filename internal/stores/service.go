package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/purchasables/pkg/db"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	pkgerrors "github.com/angelmondragon/purchasables/pkg/errors"
)

// Directory resolves stores for pricing and persistence.
type Directory interface {
	CurrentStore(ctx context.Context) (*models.Store, error)
	PrimaryStore(ctx context.Context) (*models.Store, error)
	AllStores(ctx context.Context) ([]models.Store, error)
	ByHandle(ctx context.Context, handle string) (*models.Store, error)
	ByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByHandle(ctx context.Context, handle string) (*models.Store, error)
	FindPrimary(ctx context.Context) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
}

type directory struct {
	repo          storeRepository
	currentHandle string
}

// NewDirectory builds a Directory. currentHandle names the store used when a caller
// does not pick one; empty means the primary store.
func NewDirectory(repo storeRepository, currentHandle string) (Directory, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &directory{repo: repo, currentHandle: strings.TrimSpace(currentHandle)}, nil
}

func (d *directory) CurrentStore(ctx context.Context) (*models.Store, error) {
	if d.currentHandle == "" {
		return d.PrimaryStore(ctx)
	}
	store, err := d.repo.FindByHandle(ctx, d.currentHandle)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("current store %q does not exist", d.currentHandle))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current store")
	}
	return store, nil
}

func (d *directory) PrimaryStore(ctx context.Context) (*models.Store, error) {
	store, err := d.repo.FindPrimary(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "no primary store configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load primary store")
	}
	return store, nil
}

func (d *directory) AllStores(ctx context.Context) ([]models.Store, error) {
	stores, err := d.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return stores, nil
}

func (d *directory) ByHandle(ctx context.Context, handle string) (*models.Store, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return d.CurrentStore(ctx)
	}
	store, err := d.repo.FindByHandle(ctx, handle)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("store %q not found", handle))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (d *directory) ByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := d.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
