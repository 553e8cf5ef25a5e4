package client

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const clientColumns = `id, name, cpf, email, birthday, password`

func (r *postgresRepo) Create(ctx context.Context, client domain.Client) (*domain.Client, error) {
	const q = `
INSERT INTO cliente (name, cpf, email, birthday, password)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := r.pool.QueryRow(ctx, q, client.Name, client.CPF, client.Email, client.Birthday, client.PasswordHash).Scan(&client.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("client repo: create cpf=%s error=%v", client.CPF, err)
		return nil, err
	}
	r.logger.Printf("client repo: created id=%d", client.ID)
	return &client, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.fetchOne(ctx, `SELECT `+clientColumns+` FROM cliente WHERE id = $1`, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.fetchOne(ctx, `SELECT `+clientColumns+` FROM cliente WHERE email = $1`, email)
}

func (r *postgresRepo) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	return r.fetchOne(ctx, `SELECT `+clientColumns+` FROM cliente WHERE cpf = $1`, cpf)
}

func (r *postgresRepo) Page(ctx context.Context, page, size int) (*domain.ClientPage, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cliente`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
SELECT ` + clientColumns + `
FROM cliente
ORDER BY id ASC
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, q, size, page*size)
	if err != nil {
		r.logger.Printf("client repo: page=%d size=%d error=%v", page, size, err)
		return nil, err
	}
	defer rows.Close()

	content := make([]domain.Client, 0, size)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CPF, &c.Email, &c.Birthday, &c.PasswordHash); err != nil {
			return nil, err
		}
		content = append(content, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ClientPage{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    domain.PageCount(total, size),
	}, nil
}

func (r *postgresRepo) Update(ctx context.Context, client domain.Client) (*domain.Client, error) {
	const q = `
UPDATE cliente
SET name = $1, email = $2, birthday = $3, password = $4
WHERE id = $5
`
	cmd, err := r.pool.Exec(ctx, q, client.Name, client.Email, client.Birthday, client.PasswordHash, client.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("client repo: update id=%d error=%v", client.ID, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("client repo: updated id=%d", client.ID)
	return &client, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cliente WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("client repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("client repo: deleted id=%d", id)
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, arg interface{}) (*domain.Client, error) {
	var c domain.Client
	err := r.pool.QueryRow(ctx, q, arg).Scan(&c.ID, &c.Name, &c.CPF, &c.Email, &c.Birthday, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
