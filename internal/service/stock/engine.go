package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"netbull-client-api/internal/domain"
)

type productSource interface {
	GetProductByCodeAndStore(ctx context.Context, code string, storeID int64) (*domain.Product, error)
}

// Engine validates an order's requested lines against the mirrored stock
// and prices them from the mirror. It does not mutate anything itself: the
// returned reservations are applied by the order repository inside the
// order-creation transaction, whose guarded decrement is the authoritative
// availability check. The checks here exist to fail fast with a precise
// error before the transaction starts.
type Engine struct {
	products productSource
}

func New(products productSource) *Engine {
	return &Engine{products: products}
}

// Result is the priced outcome of a reservation pass.
type Result struct {
	Lines        []domain.OrderLine
	Reservations []domain.StockReservation
	TotalCents   int64
}

// ReserveAndPrice resolves each requested line against the (code, store)
// mirror, snapshots its price and accumulates the total. Lines are
// processed in input order and the first duplicate or shortfall wins.
func (e *Engine) ReserveAndPrice(ctx context.Context, storeID int64, lines []domain.OrderLine) (*Result, error) {
	result := &Result{
		Lines:        make([]domain.OrderLine, 0, len(lines)),
		Reservations: make([]domain.StockReservation, 0, len(lines)),
	}
	seen := make(map[string]bool, len(lines))

	for _, line := range lines {
		if violations := line.Validate(); len(violations) > 0 {
			return nil, &domain.ValidationError{Violations: violations}
		}
		code := strings.TrimSpace(line.Code)
		if seen[code] {
			return nil, domain.ErrDuplicateProduct
		}
		seen[code] = true

		product, err := e.products.GetProductByCodeAndStore(ctx, code, storeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("product code %s: %w", code, domain.ErrNotFound)
			}
			return nil, err
		}
		if product.Quantity < line.Quantity {
			return nil, &domain.InsufficientStockError{Code: product.Code, Available: product.Quantity}
		}

		result.Lines = append(result.Lines, domain.OrderLine{
			Code:       code,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
		})
		result.Reservations = append(result.Reservations, domain.StockReservation{
			ProductID: product.ID,
			Quantity:  line.Quantity,
		})
		result.TotalCents += product.PriceCents * line.Quantity
	}

	return result, nil
}
