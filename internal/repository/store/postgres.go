package store

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"netbull-client-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	var s domain.Store
	err := r.pool.QueryRow(ctx, `SELECT id, cnpj FROM store WHERE id = $1`, id).Scan(&s.ID, &s.CNPJ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) UpsertStore(ctx context.Context, store domain.Store) error {
	const q = `
INSERT INTO store (id, cnpj)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET cnpj = EXCLUDED.cnpj
`
	if _, err := r.pool.Exec(ctx, q, store.ID, store.CNPJ); err != nil {
		r.logger.Printf("store repo: upsert store id=%d error=%v", store.ID, err)
		return err
	}
	r.logger.Printf("store repo: upserted store id=%d", store.ID)
	return nil
}

func (r *postgresRepo) UpdateStoreCNPJ(ctx context.Context, id int64, cnpj string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE store SET cnpj = $1 WHERE id = $2`, cnpj, id)
	if err != nil {
		r.logger.Printf("store repo: update store id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteStore(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM product_store WHERE store_id = $1`, id); err != nil {
		r.logger.Printf("store repo: cascade products store_id=%d error=%v", id, err)
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM store WHERE id = $1`, id); err != nil {
		r.logger.Printf("store repo: delete store id=%d error=%v", id, err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("store repo: deleted store id=%d", id)
	return nil
}

func (r *postgresRepo) GetProductByCodeAndStore(ctx context.Context, code string, storeID int64) (*domain.Product, error) {
	const q = `
SELECT id, code, price_cents, quantity, store_id
FROM product_store
WHERE code = $1 AND store_id = $2
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, code, storeID).Scan(&p.ID, &p.Code, &p.PriceCents, &p.Quantity, &p.StoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) ListProductsByStore(ctx context.Context, storeID int64) ([]domain.Product, error) {
	const q = `
SELECT id, code, price_cents, quantity, store_id
FROM product_store
WHERE store_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.PriceCents, &p.Quantity, &p.StoreID); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpsertProduct(ctx context.Context, product domain.Product) error {
	const q = `
INSERT INTO product_store (id, code, price_cents, quantity, store_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    code = EXCLUDED.code,
    price_cents = EXCLUDED.price_cents,
    quantity = EXCLUDED.quantity
`
	if _, err := r.pool.Exec(ctx, q, product.ID, product.Code, product.PriceCents, product.Quantity, product.StoreID); err != nil {
		r.logger.Printf("store repo: upsert product id=%d error=%v", product.ID, err)
		return err
	}
	r.logger.Printf("store repo: upserted product id=%d code=%s", product.ID, product.Code)
	return nil
}

func (r *postgresRepo) UpdateProductFields(ctx context.Context, product domain.Product) error {
	const q = `
UPDATE product_store
SET code = $1, price_cents = $2, quantity = $3
WHERE id = $4
`
	cmd, err := r.pool.Exec(ctx, q, product.Code, product.PriceCents, product.Quantity, product.ID)
	if err != nil {
		r.logger.Printf("store repo: update product id=%d error=%v", product.ID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM product_store WHERE id = $1`, id); err != nil {
		r.logger.Printf("store repo: delete product id=%d error=%v", id, err)
		return err
	}
	r.logger.Printf("store repo: deleted product id=%d", id)
	return nil
}
