package core

import (
	"context"
	"time"
)

// TokenStandard calling convention of the token contract
type TokenStandard string

const (
	// StandardERC721 single owner tokens
	StandardERC721 TokenStandard = "erc721"
	// StandardERC1155 multi edition tokens
	StandardERC1155 TokenStandard = "erc1155"
)

// Card tokenized digital asset listed on the marketplace
type Card struct {
	ID              int64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt       time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt       time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	Network         Network       `sql:"size:16;UNIQUE_INDEX:idx_cards_token" json:"network"`
	ContractAddress string        `sql:"size:42;UNIQUE_INDEX:idx_cards_token" json:"contract_address"`
	TokenID         string        `sql:"size:80;UNIQUE_INDEX:idx_cards_token" json:"token_id"`
	Standard        TokenStandard `sql:"size:8" json:"standard"`
	Supply          int64         `json:"supply"`
	URI             string        `sql:"size:512" json:"uri,omitempty"`
}

// CardBalance amount of a card's tokens held by one owner
type CardBalance struct {
	ID        int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	CardID    int64     `sql:"UNIQUE_INDEX:idx_card_balances_owner" json:"card_id"`
	Owner     string    `sql:"size:42;UNIQUE_INDEX:idx_card_balances_owner" json:"owner"`
	Amount    int64     `json:"amount"`
}

// Collection token contract discovered on chain
type Collection struct {
	ID        int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	Network   Network   `sql:"size:16;UNIQUE_INDEX:idx_collections_address" json:"network"`
	Address   string    `sql:"size:42;UNIQUE_INDEX:idx_collections_address" json:"address"`
	Creator   string    `sql:"size:42" json:"creator"`
}

// CardStore card store interface. Balance mutations are set operations
// keyed by (card, owner) so that replaying a block is harmless.
type CardStore interface {
	UpsertCard(ctx context.Context, card *Card) error
	Find(ctx context.Context, id int64) (*Card, error)
	FindToken(ctx context.Context, network Network, contract, tokenID string) (*Card, error)
	SetBalance(ctx context.Context, cardID int64, owner string, amount int64) error
	FindBalance(ctx context.Context, cardID int64, owner string) (*CardBalance, error)
	UpsertCollection(ctx context.Context, collection *Collection) error
}
