package address

import (
	"context"

	"netbull-client-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, address domain.Address) (*domain.Address, error)
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Address, error)
	Update(ctx context.Context, address domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, id int64) error
	ListTypes(ctx context.Context) ([]domain.AddressType, error)
	TypeExists(ctx context.Context, id int) (bool, error)
}
