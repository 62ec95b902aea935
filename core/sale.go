package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses. A sale is created as SaleStatusOnSale and moves to
// SaleStatusSold only when the matching order hash is observed on
// chain; there is no way back. Cancellation deletes the row outright.
const (
	SaleStatusOnSale = "sale"
	SaleStatusSold   = "sold"
)

// Sale off chain listing backed by a signed, on chain verifiable order
type Sale struct {
	ID             int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	Network        Network         `sql:"size:16" json:"network"`
	CardID         int64           `sql:"INDEX:idx_sales_card" json:"card_id"`
	UserID         int64           `sql:"INDEX:idx_sales_user" json:"user_id"`
	TokensCount    int64           `json:"tokens_count"`
	Price          string          `sql:"size:80" json:"price"`
	PriceUsd       decimal.Decimal `sql:"type:decimal(24,8)" json:"price_usd"`
	CurrencySymbol string          `sql:"size:16" json:"currency_symbol"`
	CurrencyID     string          `sql:"size:64" json:"currency_id,omitempty"`
	SaleContract   string          `sql:"size:42" json:"sale_contract"`
	Order          OrderTuple      `sql:"type:text" json:"order"`
	OrderHash      string          `sql:"size:66;INDEX:idx_sales_order_hash" json:"order_hash"`
	Signature      string          `sql:"size:514" json:"signature"`
	PublishFrom    time.Time       `json:"publish_from"`
	PublishTo      *time.Time      `json:"publish_to,omitempty"`
	Status         string          `sql:"size:8;INDEX:idx_sales_status" json:"status"`
}

// SaleStore sale store interface
type SaleStore interface {
	Create(ctx context.Context, sale *Sale) error
	Find(ctx context.Context, id int64) (*Sale, error)
	ListByCard(ctx context.Context, cardID int64) ([]*Sale, error)
	// MarkSoldByHashes flips every matching sale to sold. It is a set
	// operation: replaying the same hashes is a no-op.
	MarkSoldByHashes(ctx context.Context, hashes []string) error
	Delete(ctx context.Context, id int64) error
	DeleteByCard(ctx context.Context, cardID int64) error
	DeleteByCardAndUser(ctx context.Context, cardID, userID int64) error
}

// CreateSaleInput user supplied listing parameters
type CreateSaleInput struct {
	Network     Network    `json:"network"`
	CardID      int64      `json:"card_id"`
	TokensCount int64      `json:"tokens_count"`
	Price       string     `json:"price"`
	Currency    string     `json:"currency"`
	PublishFrom time.Time  `json:"publish_from"`
	PublishTo   *time.Time `json:"publish_to,omitempty"`
	Signature   string     `json:"signature"`
}

// SaleService sale lifecycle interface
type SaleService interface {
	Create(ctx context.Context, user *User, input *CreateSaleInput) (*Sale, error)
	Cancel(ctx context.Context, user *User, id int64) error
}
