package client

import (
	"context"

	"netbull-client-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, client domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)
	Page(ctx context.Context, page, size int) (*domain.ClientPage, error)
	Update(ctx context.Context, client domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}
