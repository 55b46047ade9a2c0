package inventory

import "github.com/shopspring/decimal"

// ItemSummary is the derived state of one medicine, folded from its event
// history. EarliestExpiry is DD-MM-YYYY or empty when no event carried a
// parseable date. Min/Max prices ignore zero and absent prices.
type ItemSummary struct {
	Name           string          `json:"name"`
	TotalStock     int             `json:"total_stock"`
	EarliestExpiry string          `json:"earliest_expiry,omitempty"`
	MinPrice       decimal.Decimal `json:"min_price"`
	MaxPrice       decimal.Decimal `json:"max_price"`
}
