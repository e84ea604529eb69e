package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// purchaseRepository implements domain.PurchaseRepository
type purchaseRepository struct {
	db *DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *DB) domain.PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create stores a new purchase
func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (id, user_name, product_name, image_url, purchase_date, fiat_amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		purchase.ID,
		purchase.UserName,
		purchase.ProductName,
		purchase.ImageURL,
		purchase.PurchaseDate,
		purchase.FiatAmount.String(),
		string(purchase.Currency),
		purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	return nil
}

// GetByID retrieves a purchase by its ID
func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	query := `
		SELECT id, user_name, product_name, image_url, purchase_date, fiat_amount, currency, created_at
		FROM purchases
		WHERE id = $1
	`

	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase by ID: %w", err)
	}

	return purchase, nil
}

// List retrieves all purchases, newest first
func (r *purchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	query := `
		SELECT id, user_name, product_name, image_url, purchase_date, fiat_amount, currency, created_at
		FROM purchases
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*domain.Purchase, 0)
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase rows: %w", err)
	}

	return purchases, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning logic
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPurchase reads one purchase row
func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var purchase domain.Purchase
	var amountStr string
	var currencyStr string

	err := row.Scan(
		&purchase.ID,
		&purchase.UserName,
		&purchase.ProductName,
		&purchase.ImageURL,
		&purchase.PurchaseDate,
		&amountStr,
		&currencyStr,
		&purchase.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse fiat_amount (NUMERIC)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fiat_amount: %w", err)
	}
	purchase.FiatAmount = amount
	purchase.Currency = domain.Currency(currencyStr)

	return &purchase, nil
}
