package core

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Exchange protocol constants. These are fixed by the settlement
// contract, never user input.
const (
	FeeMethodSplit  uint8 = 1
	SideSell        uint8 = 1
	SaleKindFixed   uint8 = 0
	HowToCallDirect uint8 = 0
)

// OrderTuple fixed shape sale order consumed by the exchange contract.
// It serializes as a 9 element heterogeneous array; the positions are
// part of the wire contract and must not be reordered.
type OrderTuple struct {
	Addrs              []string `json:"-"`
	Uints              []string `json:"-"`
	FeeMethod          uint8    `json:"-"`
	Side               uint8    `json:"-"`
	SaleKind           uint8    `json:"-"`
	HowToCall          uint8    `json:"-"`
	Calldata           string   `json:"-"`
	ReplacementPattern string   `json:"-"`
	StaticExtradata    string   `json:"-"`
}

// MarshalJSON encode as the positional protocol array
func (o OrderTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		o.Addrs,
		o.Uints,
		o.FeeMethod,
		o.Side,
		o.SaleKind,
		o.HowToCall,
		o.Calldata,
		o.ReplacementPattern,
		o.StaticExtradata,
	})
}

// UnmarshalJSON decode the positional protocol array
func (o *OrderTuple) UnmarshalJSON(data []byte) error {
	raw := []interface{}{
		&o.Addrs,
		&o.Uints,
		&o.FeeMethod,
		&o.Side,
		&o.SaleKind,
		&o.HowToCall,
		&o.Calldata,
		&o.ReplacementPattern,
		&o.StaticExtradata,
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) != 9 {
		return errors.New("order tuple must have 9 elements")
	}

	return nil
}

// Value implement driver.Valuer, persisted as json text
func (o OrderTuple) Value() (driver.Value, error) {
	data, err := json.Marshal(o)
	return string(data), err
}

// Scan implement sql.Scanner
func (o *OrderTuple) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	}
	return errors.New("order tuple: unsupported scan source")
}

// OrderInput everything the builder needs to assemble a signable order
type OrderInput struct {
	Network      Network
	Maker        string
	Card         *Card
	TokensCount  int64
	BasePrice    string
	PaymentToken string
	PublishFrom  time.Time
	PublishTo    *time.Time
	Salt         string
}

// SignableOrder assembled tuple together with the hash the exchange
// contract computed for it
type SignableOrder struct {
	Order        OrderTuple
	OrderHash    string
	SaleContract string
}

// OrderBook builds exchange compatible orders and obtains their
// canonical hash from the exchange contract. One implementation per
// network variant, selected by the network key.
type OrderBook interface {
	BuildOrder(ctx context.Context, input *OrderInput) (*SignableOrder, error)
}
