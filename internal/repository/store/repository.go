package store

import (
	"context"

	"netbull-client-api/internal/domain"
)

// Repository stores the local mirrors of the Store and Product aggregates
// owned by the store service. Writes come from the event inbox; the order
// workflow additionally decrements product quantities inside its own
// transaction (see the order repository).
type Repository interface {
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	UpsertStore(ctx context.Context, store domain.Store) error
	UpdateStoreCNPJ(ctx context.Context, id int64, cnpj string) error
	// DeleteStore removes the store mirror and every product mirrored
	// under it, in one transaction. Deleting a missing store is a no-op.
	DeleteStore(ctx context.Context, id int64) error

	GetProductByCodeAndStore(ctx context.Context, code string, storeID int64) (*domain.Product, error)
	ListProductsByStore(ctx context.Context, storeID int64) ([]domain.Product, error)
	UpsertProduct(ctx context.Context, product domain.Product) error
	// UpdateProductFields replaces quantity, code and price only; the store
	// reference is never changed by an update event.
	UpdateProductFields(ctx context.Context, product domain.Product) error
	// DeleteProduct removes the product mirror. Deleting a missing product
	// is a no-op.
	DeleteProduct(ctx context.Context, id int64) error
}
