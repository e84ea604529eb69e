package httpapi

import (
	"time"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
)

// Decimal values travel as strings, matching how they are parsed on the way
// in; clients decide their own rounding for raw fields, display fields are
// pre-formatted server-side.

type createPurchaseRequest struct {
	UserName     string `json:"user_name"`
	ProductName  string `json:"product_name"`
	ImageURL     string `json:"image_url"`
	PurchaseDate string `json:"purchase_date"` // YYYY-MM-DD
	FiatAmount   string `json:"fiat_amount"`
	Currency     string `json:"currency"`
}

type purchaseResponse struct {
	ID           string    `json:"id"`
	UserName     string    `json:"user_name"`
	ProductName  string    `json:"product_name"`
	ImageURL     string    `json:"image_url"`
	PurchaseDate string    `json:"purchase_date"`
	FiatAmount   string    `json:"fiat_amount"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

type valuationResponse struct {
	Purchase     purchaseResponse `json:"purchase"`
	BtcAmount    string           `json:"btc_amount"`
	CurrentValue string           `json:"current_value"`
	Difference   string           `json:"difference"`
	PercentDiff  string           `json:"percent_diff"`
	Saved        bool             `json:"saved"`

	// Pre-formatted display strings
	CurrentValueDisplay string `json:"current_value_display"`
	DifferenceDisplay   string `json:"difference_display"`
	PercentDiffDisplay  string `json:"percent_diff_display"`
}

type currencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type rateResponse struct {
	Currency string `json:"currency"`
	Rate     string `json:"rate"`
}

func toPurchaseResponse(p *domain.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:           p.ID.String(),
		UserName:     p.UserName,
		ProductName:  p.ProductName,
		ImageURL:     p.ImageURL,
		PurchaseDate: domain.DateKey(p.PurchaseDate),
		FiatAmount:   p.FiatAmount.String(),
		Currency:     string(p.Currency),
		CreatedAt:    p.CreatedAt,
	}
}

func toValuationResponse(v *domain.Valuation) valuationResponse {
	return valuationResponse{
		Purchase:            toPurchaseResponse(&v.Purchase),
		BtcAmount:           v.BtcAmount.String(),
		CurrentValue:        v.CurrentValue.String(),
		Difference:          v.Difference.String(),
		PercentDiff:         v.PercentDiff.String(),
		Saved:               v.Saved,
		CurrentValueDisplay: domain.FormatAmount(v.CurrentValue, v.Purchase.Currency),
		DifferenceDisplay:   domain.FormatAmount(v.Difference, v.Purchase.Currency),
		PercentDiffDisplay:  domain.FormatPercent(v.PercentDiff),
	}
}
