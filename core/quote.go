package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteService resolves the usd rate of a listing currency
type QuoteService interface {
	UsdRate(ctx context.Context, symbolID string) (decimal.Decimal, error)
}
