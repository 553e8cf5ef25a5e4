package domain

import "time"

// OrderState is the order lifecycle state. Transitions are monotonic:
// CRIADO -> ENVIADO (dispatch event) -> ENTREGUE (client confirmation).
type OrderState string

const (
	OrderStateCreated    OrderState = "CRIADO"
	OrderStateDispatched OrderState = "ENVIADO"
	OrderStateDelivered  OrderState = "ENTREGUE"
)

// Valid reports whether s is one of the known states.
func (s OrderState) Valid() bool {
	switch s {
	case OrderStateCreated, OrderStateDispatched, OrderStateDelivered:
		return true
	}
	return false
}

// Order is the central owned aggregate.
type Order struct {
	ID              int64       `json:"id"`
	State           OrderState  `json:"state"`
	OrderCreated    time.Time   `json:"orderCreated"`
	OrderDispatched *time.Time  `json:"orderDispatched,omitempty"`
	OrderDelivered  *time.Time  `json:"orderDelivered,omitempty"`
	TotalCents      int64       `json:"totalCents"`
	AddressID       *int64      `json:"addressId,omitempty"`
	ClientID        int64       `json:"clientId"`
	StoreID         int64       `json:"storeId"`
	Lines           []OrderLine `json:"products"`
}

// OrderLine carries a denormalized product code and the price snapshotted
// from the mirror at order-creation time. The snapshot never changes even
// if the mirrored product's price later does.
type OrderLine struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
	OrderID    int64  `json:"-"`
}

// StockReservation is a pending decrement of a mirrored product's quantity,
// applied atomically with the order insert.
type StockReservation struct {
	ProductID int64
	Quantity  int64
}

// Validate returns every field violation found.
func (o Order) Validate() []string {
	var violations []string
	if o.State == "" {
		violations = append(violations, "the order state must not be empty")
	} else if !o.State.Valid() {
		violations = append(violations, "invalid order state")
	}
	if o.OrderCreated.IsZero() {
		violations = append(violations, "the order creation date must not be empty")
	}
	if o.TotalCents < 0 {
		violations = append(violations, "the total value must not be negative")
	}
	if o.AddressID == nil {
		violations = append(violations, "the order address must not be empty")
	}
	if o.ClientID == 0 {
		violations = append(violations, "the order client must not be empty")
	}
	if o.StoreID == 0 {
		violations = append(violations, "the order store must not be empty")
	}
	if o.Lines == nil {
		violations = append(violations, "the order products must not be empty")
	}
	for _, line := range o.Lines {
		violations = append(violations, line.Validate()...)
	}
	return violations
}

// Validate returns every field violation found.
func (l OrderLine) Validate() []string {
	var violations []string
	if l.Code == "" {
		violations = append(violations, "the product code must not be empty")
	}
	if l.Quantity < 1 {
		violations = append(violations, "the product quantity must not be less than one")
	}
	return violations
}

// OrderPage is one page of orders plus paging metadata.
type OrderPage struct {
	Content       []Order `json:"content"`
	Page          int     `json:"page"`
	Size          int     `json:"size"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
}

func (p OrderPage) Empty() bool {
	return len(p.Content) == 0
}
