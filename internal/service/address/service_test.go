package address

import (
	"context"
	"errors"
	"strings"
	"testing"

	"netbull-client-api/internal/domain"
)

type stubAddressRepo struct {
	nextID    int64
	addresses map[int64]domain.Address
	types     []domain.AddressType
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{
		addresses: make(map[int64]domain.Address),
		types: []domain.AddressType{
			{ID: 1, Description: "Residencial"},
			{ID: 2, Description: "Comercial"},
		},
	}
}

func (s *stubAddressRepo) Create(_ context.Context, address domain.Address) (*domain.Address, error) {
	s.nextID++
	address.ID = s.nextID
	s.addresses[address.ID] = address
	return &address, nil
}

func (s *stubAddressRepo) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
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

func (s *stubAddressRepo) Update(_ context.Context, address domain.Address) (*domain.Address, error) {
	if _, ok := s.addresses[address.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.addresses[address.ID] = address
	return &address, nil
}

func (s *stubAddressRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.addresses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.addresses, id)
	return nil
}

func (s *stubAddressRepo) ListTypes(_ context.Context) ([]domain.AddressType, error) {
	return s.types, nil
}

func (s *stubAddressRepo) TypeExists(_ context.Context, id int) (bool, error) {
	for _, t := range s.types {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type stubClients struct {
	clients map[string]domain.Client
}

func (s *stubClients) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	c, ok := s.clients[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

const ownerEmail = "ana@example.com"

func testService(repo *stubAddressRepo) *Service {
	clients := &stubClients{clients: map[string]domain.Client{
		ownerEmail: {ID: 7, Email: ownerEmail},
	}}
	return New(repo, clients, nil)
}

func validInput() Input {
	return Input{
		Street:   "Rua das Flores",
		Number:   "120",
		District: "Centro",
		City:     "Curitiba",
		CEP:      "80010000",
		State:    "PR",
		TypeID:   1,
	}
}

func TestCreate_BindsToRequester(t *testing.T) {
	repo := newStubAddressRepo()
	svc := testService(repo)

	created, err := svc.Create(context.Background(), ownerEmail, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ClientID != 7 {
		t.Fatalf("expected address bound to client 7, got %d", created.ClientID)
	}
}

func TestCreate_UnknownType(t *testing.T) {
	svc := testService(newStubAddressRepo())

	in := validInput()
	in.TypeID = 99
	_, err := svc.Create(context.Background(), ownerEmail, in)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_CollectsAllViolations(t *testing.T) {
	svc := testService(newStubAddressRepo())

	_, err := svc.Create(context.Background(), ownerEmail, Input{Number: "abc", CEP: "123"})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Violations) < 5 {
		t.Fatalf("expected every violation reported, got %v", validation.Violations)
	}
}

func TestListByRequester_EmptyIsNotFound(t *testing.T) {
	svc := testService(newStubAddressRepo())

	_, err := svc.ListByRequester(context.Background(), ownerEmail)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPatchType_ChangesOnlyType(t *testing.T) {
	repo := newStubAddressRepo()
	svc := testService(repo)
	created, err := svc.Create(context.Background(), ownerEmail, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patched, err := svc.PatchType(context.Background(), created.ID, ownerEmail, 2)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.TypeID != 2 {
		t.Fatalf("expected type 2, got %d", patched.TypeID)
	}
	if patched.Street != created.Street || patched.CEP != created.CEP {
		t.Fatalf("patch must not change other fields")
	}
}

func TestOwnership_SameErrorForMissingAndForeign(t *testing.T) {
	repo := newStubAddressRepo()
	repo.addresses[5] = domain.Address{ID: 5, ClientID: 99, Street: "Av. Paulista", Number: "1000", District: "Bela Vista", City: "São Paulo", CEP: "01310100", State: "SP", TypeID: 1}
	svc := testService(repo)

	errForeign := svc.Delete(context.Background(), 5, ownerEmail)
	errMissing := svc.Delete(context.Background(), 404, ownerEmail)

	if !errors.Is(errForeign, domain.ErrNotFound) || !errors.Is(errMissing, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for both, got %v / %v", errForeign, errMissing)
	}
	foreignMsg := strings.Replace(errForeign.Error(), "5", "N", 1)
	missingMsg := strings.Replace(errMissing.Error(), "404", "N", 1)
	if foreignMsg != missingMsg {
		t.Fatalf("messages differ: %q vs %q", errForeign, errMissing)
	}
}

func TestPut_ReplacesFields(t *testing.T) {
	repo := newStubAddressRepo()
	svc := testService(repo)
	created, err := svc.Create(context.Background(), ownerEmail, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Street = "Rua Nova"
	in.TypeID = 2
	updated, err := svc.Put(context.Background(), created.ID, ownerEmail, in)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if updated.Street != "Rua Nova" || updated.TypeID != 2 {
		t.Fatalf("unexpected result: %+v", updated)
	}
	if updated.ClientID != 7 {
		t.Fatalf("ownership must survive replacement")
	}
}
