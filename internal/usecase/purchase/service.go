package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// Service handles purchase logging and retrieval
type Service struct {
	Repo domain.PurchaseRepository
}

// NewService creates a new purchase service
func NewService(repo domain.PurchaseRepository) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the user-submitted fields of a new purchase
type CreateInput struct {
	UserName     string
	ProductName  string
	ImageURL     string
	PurchaseDate time.Time
	FiatAmount   decimal.Decimal
	Currency     domain.Currency
}

// Create validates and stores a new purchase
// ID and CreatedAt are server-assigned; names are stored trimmed
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Purchase, error) {
	p := &domain.Purchase{
		ID:           uuid.New(),
		UserName:     strings.TrimSpace(input.UserName),
		ProductName:  strings.TrimSpace(input.ProductName),
		ImageURL:     input.ImageURL,
		PurchaseDate: input.PurchaseDate,
		FiatAmount:   input.FiatAmount,
		Currency:     input.Currency,
		CreatedAt:    time.Now(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetByID retrieves a purchase by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	return s.Repo.GetByID(ctx, id)
}

// List retrieves all purchases, newest first
func (s *Service) List(ctx context.Context) ([]*domain.Purchase, error) {
	return s.Repo.List(ctx)
}
