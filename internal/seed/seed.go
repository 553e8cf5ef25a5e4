package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	ID         int64
	Code       string
	PriceCents int64
	Quantity   int64
}

// Apply inserts basic seed data for manual testing: the address-type
// catalog plus one mirrored store with a few products, as if the
// replication events had already been consumed. Idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, description := range []string{"Residencial", "Comercial"} {
		if err := ensureAddressType(ctx, pool, description); err != nil {
			return fmt.Errorf("ensure address type %s: %w", description, err)
		}
	}

	const demoStoreID = 1
	if err := ensureStore(ctx, pool, demoStoreID, "12345678000199"); err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}

	products := []productSeed{
		{ID: 1, Code: "NB-KEYBOARD", PriceCents: 14990, Quantity: 25},
		{ID: 2, Code: "NB-MOUSE", PriceCents: 7990, Quantity: 40},
		{ID: 3, Code: "NB-MONITOR", PriceCents: 89900, Quantity: 10},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, demoStoreID, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Code, err)
		}
	}

	return nil
}

func ensureAddressType(ctx context.Context, pool *pgxpool.Pool, description string) error {
	const q = `
INSERT INTO address_type (description)
VALUES ($1)
ON CONFLICT (description) DO NOTHING
`
	_, err := pool.Exec(ctx, q, description)
	return err
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, id int64, cnpj string) error {
	const q = `
INSERT INTO store (id, cnpj)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET cnpj = EXCLUDED.cnpj
`
	_, err := pool.Exec(ctx, q, id, cnpj)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, storeID int64, p productSeed) error {
	const q = `
INSERT INTO product_store (id, code, price_cents, quantity, store_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET code = EXCLUDED.code,
    price_cents = EXCLUDED.price_cents,
    quantity = EXCLUDED.quantity
`
	_, err := pool.Exec(ctx, q, p.ID, p.Code, p.PriceCents, p.Quantity, storeID)
	return err
}
