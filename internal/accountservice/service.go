// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/pkg/randompkg"
)

// Generated number ranges, both ends included.
const (
	AccountNumberMin = 100_000_000_000
	AccountNumberMax = 999_999_999_999
	RoutingNumberMin = 100_000_000
	RoutingNumberMax = 999_999_999
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	List(ctx context.Context, externalUserID string) ([]domain.Account, error)
	Get(ctx context.Context, externalUserID, id string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	UpdateStatus(ctx context.Context, externalUserID, id, status string) error
	Delete(ctx context.Context, externalUserID, id string) error
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	validate  *validator.Validate
	newID     func() (string, error)
	newNumber func(min, max int64) string
}

// Option customizes the Service.
type Option func(*Service)

// WithIDGenerator replaces the account id generator.
func WithIDGenerator(f func() (string, error)) Option {
	return func(s *Service) {
		s.newID = f
	}
}

// WithNumberGenerator replaces the account and routing number generator.
//
// f must return a decimal string of an integer in [min, max].
func WithNumberGenerator(f func(min, max int64) string) Option {
	return func(s *Service) {
		s.newNumber = f
	}
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, opts ...Option) *Service {
	s := &Service{
		repo:      ar,
		validate:  newValidator(),
		newID:     newUUID,
		newNumber: randompkg.NumericString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewAccount builds a fresh active account with zero balances for the given external user.
func (s *Service) NewAccount(externalUserID string) (domain.Account, error) {
	id, err := s.newID()
	if err != nil {
		return domain.Account{}, fmt.Errorf("generate account id: %w", err)
	}

	return domain.Account{
		ID:               id,
		ExternalUserID:   externalUserID,
		AccountNumber:    s.newNumber(AccountNumberMin, AccountNumberMax),
		RoutingNumber:    s.newNumber(RoutingNumberMin, RoutingNumberMax),
		Status:           domain.StatusActive,
		CurrentBalance:   "0",
		AvailableBalance: "0",
	}, nil
}

// Create creates, validates and persists a new account for the given external user.
//
// Field violations are returned as *domain.ValidationError and nothing is persisted.
func (s *Service) Create(ctx context.Context, externalUserID string) (domain.Account, error) {
	account, err := s.NewAccount(externalUserID)
	if err != nil {
		return domain.Account{}, err
	}

	if err := validateAccount(s.validate, account); err != nil {
		return domain.Account{}, err
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// List returns the non deleted accounts owned by the given external user.
func (s *Service) List(ctx context.Context, externalUserID string) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx, externalUserID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Get returns the account for the given external user and account id.
func (s *Service) Get(ctx context.Context, externalUserID, id string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, externalUserID, id)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// UpdateStatus moves the account to the given status and returns the stored result.
func (s *Service) UpdateStatus(ctx context.Context, externalUserID, id, status string) (domain.Account, error) {
	if !domain.IsValidUpdateStatus(status) {
		return domain.Account{}, domain.ErrInvalidUpdateStatus
	}

	if err := s.repo.UpdateStatus(ctx, externalUserID, id, status); err != nil {
		return domain.Account{}, err
	}

	// A delete may land between the two calls, Get then reports not found.
	account, err := s.repo.Get(ctx, externalUserID, id)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Delete soft deletes the account.
func (s *Service) Delete(ctx context.Context, externalUserID, id string) error {
	return s.repo.Delete(ctx, externalUserID, id)
}
