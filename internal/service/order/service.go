package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"netbull-client-api/internal/domain"
	orderrepo "netbull-client-api/internal/repository/order"
	"netbull-client-api/internal/service/stock"
)

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	PageByClient(ctx context.Context, clientID int64, page, size int) (*domain.OrderPage, error)
	MarkDelivered(ctx context.Context, id int64, delivered time.Time) (*domain.Order, error)
}

type addressRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Address, error)
}

type clientLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
}

type reserver interface {
	ReserveAndPrice(ctx context.Context, storeID int64, lines []domain.OrderLine) (*stock.Result, error)
}

// EventPublisher is the outbox boundary. Publishes happen after the local
// transaction has committed; failures are the publisher's to log, they do
// not roll anything back.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderDelivered(ctx context.Context, order *domain.Order)
}

// Service owns the order state machine and scopes every operation to the
// requesting client, resolved from the authenticated email. The caller can
// never supply the client or the total.
type Service struct {
	repo      orderRepo
	addresses addressRepo
	clients   clientLookup
	stock     reserver
	publisher EventPublisher
	logger    *log.Logger
}

func New(repo orderRepo, addresses addressRepo, clients clientLookup, stock reserver, publisher EventPublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:      repo,
		addresses: addresses,
		clients:   clients,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateInput mirrors the order-creation payload.
type CreateInput struct {
	StoreID   int64       `json:"storeId"`
	AddressID *int64      `json:"addressId,omitempty"`
	Lines     []LineInput `json:"products"`
}

type LineInput struct {
	Code     string `json:"code"`
	Quantity int64  `json:"quantity"`
}

// Create places an order for the requester. Reservation, pricing, address
// resolution, validation and persistence all happen before the created
// event is published; the repository applies the stock decrement and the
// order insert in one transaction.
func (s *Service) Create(ctx context.Context, requesterEmail string, in CreateInput) (*domain.Order, error) {
	client, err := s.clients.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}

	var lines []domain.OrderLine
	var reservations []domain.StockReservation
	var totalCents int64
	if in.Lines != nil {
		requested := make([]domain.OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			requested = append(requested, domain.OrderLine{Code: l.Code, Quantity: l.Quantity})
		}
		result, err := s.stock.ReserveAndPrice(ctx, in.StoreID, requested)
		if err != nil {
			return nil, err
		}
		lines = result.Lines
		reservations = result.Reservations
		totalCents = result.TotalCents
	}

	addressID, err := s.resolveAddress(ctx, client.ID, in.AddressID)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		State:        domain.OrderStateCreated,
		OrderCreated: time.Now(),
		TotalCents:   totalCents,
		AddressID:    addressID,
		ClientID:     client.ID,
		StoreID:      in.StoreID,
		Lines:        lines,
	}
	if violations := order.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	created, err := s.repo.Create(ctx, orderrepo.CreateInput{
		ClientID:     order.ClientID,
		AddressID:    order.AddressID,
		StoreID:      order.StoreID,
		State:        order.State,
		OrderCreated: order.OrderCreated,
		TotalCents:   order.TotalCents,
		Lines:        order.Lines,
		Reservations: reservations,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order service: created id=%d client_id=%d", created.ID, created.ClientID)
	s.publisher.OrderCreated(ctx, created)
	return created, nil
}

// resolveAddress applies the auto-selection rules: no address given and
// exactly one registered selects it, more than one fails as ambiguous, a
// given address is used only when it belongs to the requester. With no
// address resolvable the order goes on with a nil address and validation
// rejects it.
func (s *Service) resolveAddress(ctx context.Context, clientID int64, requested *int64) (*int64, error) {
	if requested == nil {
		addresses, err := s.addresses.ListByClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		switch {
		case len(addresses) == 0:
			return nil, nil
		case len(addresses) == 1:
			return &addresses[0].ID, nil
		default:
			return nil, domain.ErrAmbiguousAddress
		}
	}

	address, err := s.addresses.GetByID(ctx, *requested)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if address.ClientID != clientID {
		// Somebody else's address: ignore it, validation rejects the order.
		return nil, nil
	}
	return &address.ID, nil
}

// SetDelivered confirms delivery of an order. Only the owning client may
// confirm, only from ENVIADO, and only to ENTREGUE.
func (s *Service) SetDelivered(ctx context.Context, id int64, requesterEmail string, requested domain.OrderState) (*domain.Order, error) {
	order, err := s.ownedOrder(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}

	if order.State == domain.OrderStateDelivered {
		return nil, &domain.InvalidTransitionError{
			Reason: fmt.Sprintf("the order was already delivered on %s", order.OrderDelivered.Format("02/01/2006")),
		}
	}
	if requested != domain.OrderStateDelivered {
		return nil, &domain.InvalidTransitionError{
			Reason: "the order state can only be changed to ENTREGUE",
		}
	}
	if order.State == domain.OrderStateCreated {
		return nil, &domain.InvalidTransitionError{
			Reason: "the order cannot be set to ENTREGUE before it has been dispatched",
		}
	}

	delivered, err := s.repo.MarkDelivered(ctx, order.ID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order service: delivered id=%d", delivered.ID)
	s.publisher.OrderDelivered(ctx, delivered)
	return delivered, nil
}

// GetByID returns the order only when it belongs to the requester.
func (s *Service) GetByID(ctx context.Context, id int64, requesterEmail string) (*domain.Order, error) {
	return s.ownedOrder(ctx, id, requesterEmail)
}

// PageByRequester lists the requester's orders. An empty page is reported
// as not found, matching the service's established API behavior.
func (s *Service) PageByRequester(ctx context.Context, requesterEmail string, page, size int) (*domain.OrderPage, error) {
	client, err := s.clients.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.PageByClient(ctx, client.ID, page, size)
	if err != nil {
		return nil, err
	}
	if orders.Empty() {
		return nil, fmt.Errorf("no orders found: %w", domain.ErrNotFound)
	}
	return orders, nil
}

// ownedOrder loads the order and checks ownership, returning the same
// not-found error whether the order is missing or belongs to someone else.
func (s *Service) ownedOrder(ctx context.Context, id int64, requesterEmail string) (*domain.Order, error) {
	notFound := fmt.Errorf("no order found with id %d: %w", id, domain.ErrNotFound)

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	client, err := s.clients.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	if order.ClientID != client.ID {
		return nil, notFound
	}
	return order, nil
}
