package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config cardmarket config
type Config struct {
	App      App             `json:"app"`
	DB       db.Config       `json:"db"`
	Networks []NetworkConfig `json:"networks"`
	Quote    Quote           `json:"quote"`
}

// App app config
type App struct {
	// AESKey hex encoded 32 byte key for the symmetric secret store
	AESKey string `json:"aes_key"`
	// ChallengeTTL how long a login challenge stays valid
	ChallengeTTL time.Duration `json:"challenge_ttl"`
	// RequestSkew replay window for external client requests
	RequestSkew time.Duration `json:"request_skew"`
	// Currencies listing currencies the marketplace accepts
	Currencies []Currency `json:"currencies"`
	Location   string     `json:"location"`
}

// Currency allowed listing currency
type Currency struct {
	Symbol       string `json:"symbol"`
	SymbolID     string `json:"symbol_id,omitempty"`
	PaymentToken string `json:"payment_token"`
}

// Quote usd quote source config
type Quote struct {
	EndPoint string        `json:"end_point"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

// FindCurrency look up an allowed currency by symbol
func (a *App) FindCurrency(symbol string) (*Currency, bool) {
	for idx := range a.Currencies {
		if a.Currencies[idx].Symbol == symbol {
			return &a.Currencies[idx], true
		}
	}
	return nil, false
}

// FindNetwork look up the wiring for a network key
func (c *Config) FindNetwork(network Network) (*NetworkConfig, bool) {
	for idx := range c.Networks {
		if c.Networks[idx].Network == network {
			return &c.Networks[idx], true
		}
	}
	return nil, false
}
