package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// earliestPurchaseDate is the lower bound for purchase dates.
// There is no reliable Bitcoin price data before 2011.
var earliestPurchaseDate = time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)

// Purchase represents a logged real-world purchase in the domain layer
// Immutable once created; CreatedAt is server-assigned
type Purchase struct {
	ID           uuid.UUID
	UserName     string
	ProductName  string
	ImageURL     string
	PurchaseDate time.Time // day granularity, time component not meaningful
	FiatAmount   decimal.Decimal
	Currency     Currency
	CreatedAt    time.Time
}

// Validate ensures the purchase adheres to domain rules
// Returns an error if validation fails
func (p *Purchase) Validate() error {
	if len(strings.TrimSpace(p.UserName)) < 3 {
		return fmt.Errorf("%w: user name must be at least 3 characters", ErrInvalidPurchase)
	}

	if len(strings.TrimSpace(p.ProductName)) < 3 {
		return fmt.Errorf("%w: product name must be at least 3 characters", ErrInvalidPurchase)
	}

	if p.FiatAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: fiat amount must be positive", ErrInvalidPurchase)
	}

	if !p.Currency.Supported() {
		return fmt.Errorf("%w: currency %s is not supported", ErrInvalidPurchase, p.Currency)
	}

	if p.PurchaseDate.Before(earliestPurchaseDate) {
		return fmt.Errorf("%w: purchase date must not be before 2011-01-01", ErrInvalidPurchase)
	}

	if p.PurchaseDate.After(time.Now()) {
		return fmt.Errorf("%w: purchase date must not be in the future", ErrInvalidPurchase)
	}

	return nil
}
