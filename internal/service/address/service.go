package address

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"netbull-client-api/internal/domain"
	addressrepo "netbull-client-api/internal/repository/address"
)

type clientLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
}

// Service manages a client's addresses. Every mutating operation is scoped
// to the requester; an address owned by someone else is indistinguishable
// from a missing one.
type Service struct {
	repo    addressrepo.Repository
	clients clientLookup
	logger  *log.Logger
}

func New(repo addressrepo.Repository, clients clientLookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, clients: clients, logger: logger}
}

// Input mirrors incoming address payloads.
type Input struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	CEP      string `json:"cep"`
	State    string `json:"state"`
	TypeID   int    `json:"typeId"`
}

// Create registers an address for the requester.
func (s *Service) Create(ctx context.Context, requesterEmail string, in Input) (*domain.Address, error) {
	client, err := s.clients.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}

	address := domain.Address{
		Street:   in.Street,
		Number:   in.Number,
		District: in.District,
		City:     in.City,
		CEP:      in.CEP,
		State:    in.State,
		TypeID:   in.TypeID,
		ClientID: client.ID,
	}
	if violations := address.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	exists, err := s.repo.TypeExists(ctx, address.TypeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("address type: %w", domain.ErrNotFound)
	}

	created, err := s.repo.Create(ctx, address)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("address service: created id=%d client_id=%d", created.ID, created.ClientID)
	return created, nil
}

// ListByRequester returns the requester's addresses. No registered address
// is reported as not found.
func (s *Service) ListByRequester(ctx context.Context, requesterEmail string) ([]domain.Address, error) {
	client, err := s.clients.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	addresses, err := s.repo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no address found: %w", domain.ErrNotFound)
	}
	return addresses, nil
}

// ListTypes returns the address-type catalog.
func (s *Service) ListTypes(ctx context.Context) ([]domain.AddressType, error) {
	return s.repo.ListTypes(ctx)
}

// PatchType changes only the type of one of the requester's addresses.
func (s *Service) PatchType(ctx context.Context, id int64, requesterEmail string, typeID int) (*domain.Address, error) {
	address, err := s.ownedAddress(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.TypeExists(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("address type: %w", domain.ErrNotFound)
	}

	address.TypeID = typeID
	updated, err := s.repo.Update(ctx, *address)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("address service: patched type id=%d type_id=%d", updated.ID, typeID)
	return updated, nil
}

// Put fully replaces one of the requester's addresses.
func (s *Service) Put(ctx context.Context, id int64, requesterEmail string, in Input) (*domain.Address, error) {
	address, err := s.ownedAddress(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}

	address.Street = in.Street
	address.Number = in.Number
	address.District = in.District
	address.City = in.City
	address.CEP = in.CEP
	address.State = in.State
	address.TypeID = in.TypeID

	if violations := address.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	updated, err := s.repo.Update(ctx, *address)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("address service: replaced id=%d", updated.ID)
	return updated, nil
}

// Delete removes one of the requester's addresses. Historical orders keep
// their snapshot; the reference is simply cleared by the schema.
func (s *Service) Delete(ctx context.Context, id int64, requesterEmail string) error {
	address, err := s.ownedAddress(ctx, id, requesterEmail)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, address.ID); err != nil {
		return err
	}
	s.logger.Printf("address service: deleted id=%d", address.ID)
	return nil
}

func (s *Service) ownedAddress(ctx context.Context, id int64, requesterEmail string) (*domain.Address, error) {
	notFound := fmt.Errorf("no address found with id %d: %w", id, domain.ErrNotFound)

	address, err := s.repo.GetByID(ctx, id)
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
	if address.ClientID != client.ID {
		return nil, notFound
	}
	return address, nil
}
