package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"netbull-client-api/internal/domain"
	orderrepo "netbull-client-api/internal/repository/order"
	"netbull-client-api/internal/service/stock"
)

type stubOrderRepo struct {
	created   *orderrepo.CreateInput
	order     *domain.Order
	page      *domain.OrderPage
	delivered *domain.Order
}

func (s *stubOrderRepo) Create(_ context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	s.created = &in
	order := domain.Order{
		ID:           42,
		State:        in.State,
		OrderCreated: in.OrderCreated,
		TotalCents:   in.TotalCents,
		AddressID:    in.AddressID,
		ClientID:     in.ClientID,
		StoreID:      in.StoreID,
		Lines:        in.Lines,
	}
	return &order, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) PageByClient(_ context.Context, _ int64, _, _ int) (*domain.OrderPage, error) {
	return s.page, nil
}

func (s *stubOrderRepo) MarkDelivered(_ context.Context, id int64, delivered time.Time) (*domain.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	out := *s.order
	out.State = domain.OrderStateDelivered
	out.OrderDelivered = &delivered
	s.delivered = &out
	return &out, nil
}

type stubAddressRepo struct {
	addresses []domain.Address
}

func (s *stubAddressRepo) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	for _, a := range s.addresses {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubAddressRepo) ListByClient(_ context.Context, clientID int64) ([]domain.Address, error) {
	var result []domain.Address
	for _, a := range s.addresses {
		if a.ClientID == clientID {
			result = append(result, a)
		}
	}
	return result, nil
}

type stubClients struct {
	client *domain.Client
}

func (s *stubClients) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	if s.client == nil || s.client.Email != email {
		return nil, domain.ErrNotFound
	}
	return s.client, nil
}

type stubReserver struct {
	result *stock.Result
	err    error
}

func (s *stubReserver) ReserveAndPrice(_ context.Context, _ int64, _ []domain.OrderLine) (*stock.Result, error) {
	return s.result, s.err
}

type recordingPublisher struct {
	created   []*domain.Order
	delivered []*domain.Order
}

func (p *recordingPublisher) OrderCreated(_ context.Context, order *domain.Order) {
	p.created = append(p.created, order)
}

func (p *recordingPublisher) OrderDelivered(_ context.Context, order *domain.Order) {
	p.delivered = append(p.delivered, order)
}

const ownerEmail = "ana@example.com"

func testService(repo *stubOrderRepo, addresses *stubAddressRepo, reserver *stubReserver, publisher *recordingPublisher) *Service {
	clients := &stubClients{client: &domain.Client{ID: 7, Email: ownerEmail}}
	return New(repo, addresses, clients, reserver, publisher, nil)
}

func singleAddress() *stubAddressRepo {
	return &stubAddressRepo{addresses: []domain.Address{{ID: 3, ClientID: 7}}}
}

func reservedLines() *stubReserver {
	return &stubReserver{result: &stock.Result{
		Lines:        []domain.OrderLine{{Code: "KEYBOARD", Quantity: 2, PriceCents: 14990}},
		Reservations: []domain.StockReservation{{ProductID: 1, Quantity: 2}},
		TotalCents:   29980,
	}}
}

func TestCreate_AutoSelectsSingleAddress(t *testing.T) {
	repo := &stubOrderRepo{}
	publisher := &recordingPublisher{}
	svc := testService(repo, singleAddress(), reservedLines(), publisher)

	created, err := svc.Create(context.Background(), ownerEmail, CreateInput{
		StoreID: 1,
		Lines:   []LineInput{{Code: "KEYBOARD", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.State != domain.OrderStateCreated {
		t.Fatalf("expected CRIADO, got %s", created.State)
	}
	if created.TotalCents != 29980 {
		t.Fatalf("expected total 29980, got %d", created.TotalCents)
	}
	if created.AddressID == nil || *created.AddressID != 3 {
		t.Fatalf("expected auto-selected address 3, got %v", created.AddressID)
	}
	if repo.created == nil || len(repo.created.Reservations) != 1 {
		t.Fatalf("expected reservations passed to repo, got %+v", repo.created)
	}
	if len(publisher.created) != 1 || publisher.created[0].ID != 42 {
		t.Fatalf("expected created event for order 42, got %+v", publisher.created)
	}
}

func TestCreate_AmbiguousAddress(t *testing.T) {
	addresses := &stubAddressRepo{addresses: []domain.Address{
		{ID: 3, ClientID: 7},
		{ID: 4, ClientID: 7},
	}}
	publisher := &recordingPublisher{}
	svc := testService(&stubOrderRepo{}, addresses, reservedLines(), publisher)

	_, err := svc.Create(context.Background(), ownerEmail, CreateInput{
		StoreID: 1,
		Lines:   []LineInput{{Code: "KEYBOARD", Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrAmbiguousAddress) {
		t.Fatalf("expected ErrAmbiguousAddress, got %v", err)
	}
	if len(publisher.created) != 0 {
		t.Fatalf("no event expected on failure")
	}
}

func TestCreate_NoRegisteredAddress(t *testing.T) {
	svc := testService(&stubOrderRepo{}, &stubAddressRepo{}, reservedLines(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), ownerEmail, CreateInput{
		StoreID: 1,
		Lines:   []LineInput{{Code: "KEYBOARD", Quantity: 1}},
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, v := range validation.Violations {
		if strings.Contains(v, "address") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected address violation, got %v", validation.Violations)
	}
}

func TestCreate_ForeignAddressRejected(t *testing.T) {
	addresses := &stubAddressRepo{addresses: []domain.Address{{ID: 9, ClientID: 99}}}
	svc := testService(&stubOrderRepo{}, addresses, reservedLines(), &recordingPublisher{})

	foreign := int64(9)
	_, err := svc.Create(context.Background(), ownerEmail, CreateInput{
		StoreID:   1,
		AddressID: &foreign,
		Lines:     []LineInput{{Code: "KEYBOARD", Quantity: 1}},
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, v := range validation.Violations {
		if strings.Contains(v, "address") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected address violation, got %v", validation.Violations)
	}
}

func TestCreate_NilProductsRejected(t *testing.T) {
	svc := testService(&stubOrderRepo{}, singleAddress(), reservedLines(), &recordingPublisher{})

	_, err := svc.Create(context.Background(), ownerEmail, CreateInput{StoreID: 1})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreate_ReservationErrorPropagates(t *testing.T) {
	reserver := &stubReserver{err: &domain.InsufficientStockError{Code: "KEYBOARD", Available: 1}}
	svc := testService(&stubOrderRepo{}, singleAddress(), reserver, &recordingPublisher{})

	_, err := svc.Create(context.Background(), ownerEmail, CreateInput{
		StoreID: 1,
		Lines:   []LineInput{{Code: "KEYBOARD", Quantity: 2}},
	})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
}

func dispatchedOrder() *domain.Order {
	dispatched := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	addr := int64(3)
	return &domain.Order{
		ID:              42,
		State:           domain.OrderStateDispatched,
		OrderCreated:    dispatched.Add(-24 * time.Hour),
		OrderDispatched: &dispatched,
		TotalCents:      29980,
		AddressID:       &addr,
		ClientID:        7,
		StoreID:         1,
		Lines:           []domain.OrderLine{{Code: "KEYBOARD", Quantity: 2, PriceCents: 14990}},
	}
}

func TestSetDelivered_FromDispatched(t *testing.T) {
	repo := &stubOrderRepo{order: dispatchedOrder()}
	publisher := &recordingPublisher{}
	svc := testService(repo, singleAddress(), reservedLines(), publisher)

	delivered, err := svc.SetDelivered(context.Background(), 42, ownerEmail, domain.OrderStateDelivered)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.State != domain.OrderStateDelivered {
		t.Fatalf("expected ENTREGUE, got %s", delivered.State)
	}
	if delivered.OrderDelivered == nil {
		t.Fatalf("expected delivery timestamp")
	}
	if len(publisher.delivered) != 1 {
		t.Fatalf("expected delivered event, got %+v", publisher.delivered)
	}
}

func TestSetDelivered_AlreadyDelivered(t *testing.T) {
	order := dispatchedOrder()
	deliveredAt := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)
	order.State = domain.OrderStateDelivered
	order.OrderDelivered = &deliveredAt
	repo := &stubOrderRepo{order: order}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	_, err := svc.SetDelivered(context.Background(), 42, ownerEmail, domain.OrderStateDelivered)
	var transition *domain.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if !strings.Contains(transition.Reason, "12/03/2024") {
		t.Fatalf("expected delivery date in message, got %q", transition.Reason)
	}
}

func TestSetDelivered_OnlyToDelivered(t *testing.T) {
	repo := &stubOrderRepo{order: dispatchedOrder()}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	_, err := svc.SetDelivered(context.Background(), 42, ownerEmail, domain.OrderStateCreated)
	var transition *domain.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if !strings.Contains(transition.Reason, "ENTREGUE") {
		t.Fatalf("unexpected message: %q", transition.Reason)
	}
}

func TestSetDelivered_NotDispatchedYet(t *testing.T) {
	order := dispatchedOrder()
	order.State = domain.OrderStateCreated
	order.OrderDispatched = nil
	repo := &stubOrderRepo{order: order}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	_, err := svc.SetDelivered(context.Background(), 42, ownerEmail, domain.OrderStateDelivered)
	var transition *domain.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if !strings.Contains(transition.Reason, "dispatched") {
		t.Fatalf("unexpected message: %q", transition.Reason)
	}
}

func TestOwnership_SameErrorForMissingAndForeign(t *testing.T) {
	foreignOrder := dispatchedOrder()
	foreignOrder.ClientID = 99
	repo := &stubOrderRepo{order: foreignOrder}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	_, errForeign := svc.GetByID(context.Background(), 42, ownerEmail)
	_, errMissing := svc.GetByID(context.Background(), 404, ownerEmail)

	if !errors.Is(errForeign, domain.ErrNotFound) || !errors.Is(errMissing, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for both, got %v / %v", errForeign, errMissing)
	}
	// An attacker probing ids must not learn which orders exist.
	foreignMsg := strings.Replace(errForeign.Error(), "42", "N", 1)
	missingMsg := strings.Replace(errMissing.Error(), "404", "N", 1)
	if foreignMsg != missingMsg {
		t.Fatalf("messages differ: %q vs %q", errForeign, errMissing)
	}
}

func TestPageByRequester_EmptyIsNotFound(t *testing.T) {
	repo := &stubOrderRepo{page: &domain.OrderPage{Page: 0, Size: 10}}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	_, err := svc.PageByRequester(context.Background(), ownerEmail, 0, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPageByRequester_ReturnsPage(t *testing.T) {
	repo := &stubOrderRepo{page: &domain.OrderPage{
		Content:       []domain.Order{*dispatchedOrder()},
		Page:          0,
		Size:          10,
		TotalElements: 1,
		TotalPages:    1,
	}}
	svc := testService(repo, singleAddress(), reservedLines(), &recordingPublisher{})

	page, err := svc.PageByRequester(context.Background(), ownerEmail, 0, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Content) != 1 || page.TotalElements != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
