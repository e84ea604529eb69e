package domain

import "github.com/shopspring/decimal"

// Valuation is the derived BTC-equivalent analysis of a purchase.
// Never persisted; recomputed from resolver outputs on demand.
//
// Difference and PercentDiff are absolute magnitudes; the sign is carried
// by Saved alone. Saved is true when currentValue < fiatAmount, i.e. when
// BTC declined relative to the purchase and buying it would have been the
// WORSE choice. This polarity is deliberate - do not invert it.
type Valuation struct {
	Purchase     Purchase
	BtcAmount    decimal.Decimal // BTC that could have been bought on the purchase date
	CurrentValue decimal.Decimal // what that BTC is worth now, in the purchase currency
	Difference   decimal.Decimal // |currentValue - fiatAmount|
	PercentDiff  decimal.Decimal // |difference / fiatAmount * 100|
	Saved        bool
}
