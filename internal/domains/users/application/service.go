package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	types "github.com/Apurer/storefront-api/internal/domains/users/application/types"
	"github.com/Apurer/storefront-api/internal/domains/users/domain"
	"github.com/Apurer/storefront-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo ports.Repository
	cost int
	now  func() time.Time
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a customer account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, domain.RoleCustomer)
}

func (s *Service) create(ctx context.Context, input types.RegisterInput, role domain.Role) (*domain.User, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, mapError(domain.ErrEmptyUsername)
	}
	if input.Password == "" {
		return nil, mapError(domain.ErrEmptyPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(input.Username, string(hash), role, domain.Profile{
		Email:    input.Email,
		FullName: input.FullName,
		Phone:    input.Phone,
		Address:  input.Address,
	}, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login checks the password against the stored hash. Unknown users and wrong passwords fail the
// same way.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, mapError(domain.ErrEmptyUsername)
	}
	if password == "" {
		return nil, mapError(domain.ErrEmptyPassword)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	admin, err := s.create(ctx, types.RegisterInput{Username: username, Password: password}, domain.RoleAdmin)
	if errors.Is(err, ports.ErrDuplicateUsername) {
		return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	}
	return admin, err
}

var _ ports.Service = (*Service)(nil)
