package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"netbull-client-api/internal/domain"
	clientrepo "netbull-client-api/internal/repository/client"
	tokenrepo "netbull-client-api/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles client registration, authentication and self-service
// updates.
type Service struct {
	repo        clientrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int
	logger      *log.Logger
}

func New(repo clientrepo.Repository, tokens tokenrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		passwordMin: 3,
		logger:      logger,
	}
}

// CreateInput captures the signup payload.
type CreateInput struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
	Password string `json:"password"`
}

// Create registers a new client. Every field violation is reported
// together; email and CPF collisions are conflicts.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Client, error) {
	client := domain.Client{
		Name:  strings.TrimSpace(in.Name),
		CPF:   strings.TrimSpace(in.CPF),
		Email: strings.TrimSpace(strings.ToLower(in.Email)),
	}
	violations := s.parseBirthday(&client, in.Birthday)
	violations = append(violations, client.Validate()...)
	if len(strings.TrimSpace(in.Password)) < s.passwordMin {
		violations = append(violations, "the password is too short")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if _, err := s.repo.GetByEmail(ctx, client.Email); err == nil {
		return nil, &domain.ConflictError{Message: "e-mail already in use"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByCPF(ctx, client.CPF); err == nil {
		return nil, &domain.ConflictError{Message: "CPF already registered"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	client.PasswordHash = string(hashed)

	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a race with a concurrent signup on the same key.
			return nil, &domain.ConflictError{Message: "e-mail or CPF already registered"}
		}
		return nil, err
	}
	s.logger.Printf("client service: registered id=%d name=%s", created.ID, created.Name)
	return created, nil
}

// Login validates credentials and returns an issued access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Client, string, error) {
	client, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, client.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return client, access, nil
}

// LookupByToken returns the client bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Client, error) {
	clientID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return client, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

// Page lists clients.
func (s *Service) Page(ctx context.Context, page, size int) (*domain.ClientPage, error) {
	clients, err := s.repo.Page(ctx, page, size)
	if err != nil {
		return nil, err
	}
	if clients.Empty() {
		return nil, fmt.Errorf("no clients found: %w", domain.ErrNotFound)
	}
	return clients, nil
}

// GetByEmail resolves a client by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return s.repo.GetByEmail(ctx, email)
}

// GetByCPF resolves a client by CPF.
func (s *Service) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	return s.repo.GetByCPF(ctx, cpf)
}

// UpdateInput captures the self-update payload. The CPF is immutable and
// always taken from the stored client.
type UpdateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
	Password string `json:"password"`
}

// Update replaces the requester's own record, preserving the CPF and
// re-checking email uniqueness.
func (s *Service) Update(ctx context.Context, requesterEmail string, in UpdateInput) (*domain.Client, error) {
	current, err := s.repo.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}

	client := domain.Client{
		ID:    current.ID,
		Name:  strings.TrimSpace(in.Name),
		CPF:   current.CPF,
		Email: strings.TrimSpace(strings.ToLower(in.Email)),
	}
	violations := s.parseBirthday(&client, in.Birthday)
	violations = append(violations, client.Validate()...)
	if len(strings.TrimSpace(in.Password)) < s.passwordMin {
		violations = append(violations, "the password is too short")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if other, err := s.repo.GetByEmail(ctx, client.Email); err == nil {
		if !other.Equal(client) {
			return nil, &domain.ConflictError{Message: "e-mail already in use"}
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	client.PasswordHash = string(hashed)

	updated, err := s.repo.Update(ctx, client)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("client service: updated id=%d", updated.ID)
	return updated, nil
}

// Delete removes the requester's own record. Addresses and tokens go with
// it through the schema's cascades.
func (s *Service) Delete(ctx context.Context, requesterEmail string) error {
	client, err := s.repo.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, client.ID); err != nil {
		return err
	}
	s.logger.Printf("client service: deleted id=%d", client.ID)
	return nil
}

func (s *Service) parseBirthday(client *domain.Client, raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	birthday, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return []string{"invalid birth date"}
	}
	client.Birthday = birthday
	return nil
}
