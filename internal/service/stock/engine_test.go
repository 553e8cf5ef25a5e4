package stock

import (
	"context"
	"errors"
	"testing"

	"netbull-client-api/internal/domain"
)

type stubProducts struct {
	products map[string]domain.Product
}

func (s *stubProducts) GetProductByCodeAndStore(_ context.Context, code string, storeID int64) (*domain.Product, error) {
	p, ok := s.products[code]
	if !ok || p.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func testEngine() *Engine {
	return New(&stubProducts{products: map[string]domain.Product{
		"KEYBOARD": {ID: 1, Code: "KEYBOARD", PriceCents: 14990, Quantity: 5, StoreID: 1},
		"MOUSE":    {ID: 2, Code: "MOUSE", PriceCents: 7990, Quantity: 2, StoreID: 1},
	}})
}

func TestReserveAndPrice_PricesFromMirror(t *testing.T) {
	engine := testEngine()

	result, err := engine.ReserveAndPrice(context.Background(), 1, []domain.OrderLine{
		{Code: "KEYBOARD", Quantity: 2},
		{Code: "MOUSE", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if want := int64(2*14990 + 7990); result.TotalCents != want {
		t.Fatalf("expected total %d, got %d", want, result.TotalCents)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].PriceCents != 14990 {
		t.Fatalf("expected snapshotted price 14990, got %d", result.Lines[0].PriceCents)
	}
	if len(result.Reservations) != 2 || result.Reservations[0].ProductID != 1 || result.Reservations[0].Quantity != 2 {
		t.Fatalf("unexpected reservations: %+v", result.Reservations)
	}
}

func TestReserveAndPrice_DuplicateCode(t *testing.T) {
	engine := testEngine()

	_, err := engine.ReserveAndPrice(context.Background(), 1, []domain.OrderLine{
		{Code: "MOUSE", Quantity: 1},
		{Code: "MOUSE", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}
}

func TestReserveAndPrice_UnknownProduct(t *testing.T) {
	engine := testEngine()

	_, err := engine.ReserveAndPrice(context.Background(), 1, []domain.OrderLine{
		{Code: "MONITOR", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveAndPrice_ProductFromOtherStore(t *testing.T) {
	engine := testEngine()

	_, err := engine.ReserveAndPrice(context.Background(), 2, []domain.OrderLine{
		{Code: "KEYBOARD", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveAndPrice_InsufficientStock(t *testing.T) {
	engine := testEngine()

	_, err := engine.ReserveAndPrice(context.Background(), 1, []domain.OrderLine{
		{Code: "MOUSE", Quantity: 3},
	})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Code != "MOUSE" || stockErr.Available != 2 {
		t.Fatalf("unexpected error detail: %+v", stockErr)
	}
}

func TestReserveAndPrice_InvalidLine(t *testing.T) {
	engine := testEngine()

	_, err := engine.ReserveAndPrice(context.Background(), 1, []domain.OrderLine{
		{Code: "", Quantity: 0},
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", validation.Violations)
	}
}
