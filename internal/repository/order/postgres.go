package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

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

const orderColumns = `id, state, order_created, order_dispatched, order_delivered, total_cents, address_id, client_id, store_id`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Guarded decrement: the WHERE clause makes "check quantity, then
	// decrement" atomic under concurrent reservations of the same product.
	for _, res := range in.Reservations {
		cmd, err := tx.Exec(ctx, `
UPDATE product_store
SET quantity = quantity - $2
WHERE id = $1 AND quantity >= $2
`, res.ProductID, res.Quantity)
		if err != nil {
			r.logger.Printf("order repo: reserve product_id=%d error=%v", res.ProductID, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, r.reservationFailure(ctx, tx, res.ProductID)
		}
	}

	order := domain.Order{
		State:        in.State,
		OrderCreated: in.OrderCreated,
		TotalCents:   in.TotalCents,
		AddressID:    in.AddressID,
		ClientID:     in.ClientID,
		StoreID:      in.StoreID,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO order_client (state, order_created, total_cents, address_id, client_id, store_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, in.State, in.OrderCreated, in.TotalCents, in.AddressID, in.ClientID, in.StoreID).Scan(&order.ID)
	if err != nil {
		r.logger.Printf("order repo: insert order client_id=%d error=%v", in.ClientID, err)
		return nil, err
	}

	order.Lines = make([]domain.OrderLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		line.OrderID = order.ID
		err = tx.QueryRow(ctx, `
INSERT INTO product_order (code, quantity, price_cents, order_id)
VALUES ($1, $2, $3, $4)
RETURNING id
`, line.Code, line.Quantity, line.PriceCents, order.ID).Scan(&line.ID)
		if err != nil {
			r.logger.Printf("order repo: insert line order_id=%d code=%s error=%v", order.ID, line.Code, err)
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%d client_id=%d total_cents=%d", order.ID, order.ClientID, order.TotalCents)
	return &order, nil
}

// reservationFailure distinguishes a vanished mirror from a stock shortfall
// for the product whose guarded decrement matched no row.
func (r *postgresRepo) reservationFailure(ctx context.Context, tx pgx.Tx, productID int64) error {
	var code string
	var available int64
	err := tx.QueryRow(ctx, `SELECT code, quantity FROM product_store WHERE id = $1`, productID).Scan(&code, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return &domain.InsufficientStockError{Code: code, Available: available}
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM order_client WHERE id = $1`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID,
		&o.State,
		&o.OrderCreated,
		&o.OrderDispatched,
		&o.OrderDelivered,
		&o.TotalCents,
		&o.AddressID,
		&o.ClientID,
		&o.StoreID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) PageByClient(ctx context.Context, clientID int64, page, size int) (*domain.OrderPage, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_client WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
SELECT ` + orderColumns + `
FROM order_client
WHERE client_id = $1
ORDER BY id ASC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, clientID, size, page*size)
	if err != nil {
		r.logger.Printf("order repo: page client_id=%d error=%v", clientID, err)
		return nil, err
	}
	defer rows.Close()

	content := make([]domain.Order, 0, size)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.State,
			&o.OrderCreated,
			&o.OrderDispatched,
			&o.OrderDelivered,
			&o.TotalCents,
			&o.AddressID,
			&o.ClientID,
			&o.StoreID,
		); err != nil {
			return nil, err
		}
		content = append(content, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range content {
		if err := r.loadLines(ctx, &content[i]); err != nil {
			return nil, err
		}
	}

	return &domain.OrderPage{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    domain.PageCount(total, size),
	}, nil
}

func (r *postgresRepo) MarkDispatched(ctx context.Context, id int64, dispatched time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE order_client
SET state = $1, order_dispatched = $2
WHERE id = $3 AND state = $4
`, domain.OrderStateDispatched, dispatched, id, domain.OrderStateCreated)
	if err != nil {
		r.logger.Printf("order repo: mark dispatched id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: dispatched id=%d", id)
	return nil
}

func (r *postgresRepo) MarkDelivered(ctx context.Context, id int64, delivered time.Time) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE order_client
SET state = $1, order_delivered = $2
WHERE id = $3 AND state = $4
`, domain.OrderStateDelivered, delivered, id, domain.OrderStateDispatched)
	if err != nil {
		r.logger.Printf("order repo: mark delivered id=%d error=%v", id, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("order repo: delivered id=%d", id)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) loadLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id, code, quantity, price_cents, order_id
FROM product_order
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0, 4)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.Code, &line.Quantity, &line.PriceCents, &line.OrderID); err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	o.Lines = lines
	return nil
}
