package order

import (
	"context"
	"time"

	"netbull-client-api/internal/domain"
)

// CreateInput is everything the order-creation transaction needs. The
// reservations are applied to the product mirrors in the same transaction
// that inserts the order and its lines, so a crash can never leave stock
// decremented without an order or vice versa.
type CreateInput struct {
	ClientID     int64
	AddressID    *int64
	StoreID      int64
	State        domain.OrderState
	OrderCreated time.Time
	TotalCents   int64
	Lines        []domain.OrderLine
	Reservations []domain.StockReservation
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	PageByClient(ctx context.Context, clientID int64, page, size int) (*domain.OrderPage, error)
	// MarkDispatched moves the order to ENVIADO. It only applies while the
	// order is still CRIADO, which makes duplicate dispatch events no-ops
	// and backward transitions impossible. Returns ErrNotFound when no row
	// was updated.
	MarkDispatched(ctx context.Context, id int64, dispatched time.Time) error
	// MarkDelivered moves the order to ENTREGUE. It only applies while the
	// order is ENVIADO. Returns ErrNotFound when no row was updated.
	MarkDelivered(ctx context.Context, id int64, delivered time.Time) (*domain.Order, error)
}
