package address

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

const addressColumns = `id, street, number, district, city, cep, state, type_id, client_id`

func (r *postgresRepo) Create(ctx context.Context, address domain.Address) (*domain.Address, error) {
	const q = `
INSERT INTO address (street, number, district, city, cep, state, type_id, client_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := r.pool.QueryRow(ctx, q,
		address.Street,
		address.Number,
		address.District,
		address.City,
		address.CEP,
		address.State,
		address.TypeID,
		address.ClientID,
	).Scan(&address.ID)
	if err != nil {
		r.logger.Printf("address repo: create client_id=%d error=%v", address.ClientID, err)
		return nil, err
	}
	r.logger.Printf("address repo: created id=%d", address.ID)
	return &address, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM address WHERE id = $1`
	var a domain.Address
	err := r.pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Street, &a.Number, &a.District, &a.City, &a.CEP, &a.State, &a.TypeID, &a.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM address WHERE client_id = $1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, q, clientID)
	if err != nil {
		r.logger.Printf("address repo: list client_id=%d error=%v", clientID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.Street, &a.Number, &a.District, &a.City, &a.CEP, &a.State, &a.TypeID, &a.ClientID); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, address domain.Address) (*domain.Address, error) {
	const q = `
UPDATE address
SET street = $1, number = $2, district = $3, city = $4, cep = $5, state = $6, type_id = $7
WHERE id = $8
`
	cmd, err := r.pool.Exec(ctx, q,
		address.Street,
		address.Number,
		address.District,
		address.City,
		address.CEP,
		address.State,
		address.TypeID,
		address.ID,
	)
	if err != nil {
		r.logger.Printf("address repo: update id=%d error=%v", address.ID, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("address repo: updated id=%d", address.ID)
	return &address, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM address WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("address repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("address repo: deleted id=%d", id)
	return nil
}

func (r *postgresRepo) ListTypes(ctx context.Context) ([]domain.AddressType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, description FROM address_type ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AddressType
	for rows.Next() {
		var t domain.AddressType
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) TypeExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM address_type WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
