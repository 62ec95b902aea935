package core

// Network an evm network key
type Network string

const (
	// NetworkEthereum ethereum mainnet
	NetworkEthereum Network = "ethereum"
	// NetworkPolygon polygon pos
	NetworkPolygon Network = "polygon"
)

// IsValid report whether the network is a known one
func (n Network) IsValid() bool {
	switch n {
	case NetworkEthereum, NetworkPolygon:
		return true
	}
	return false
}

// NetworkConfig per network wiring. Contract addresses an operator
// leaves empty disable the listeners that watch them.
type NetworkConfig struct {
	Network           Network `json:"network"`
	ChainID           int64   `json:"chain_id"`
	Endpoint          string  `json:"endpoint"`
	ExchangeContract  string  `json:"exchange_contract"`
	ExchangeVersion   int     `json:"exchange_version"`
	TokenContract     string  `json:"token_contract"`
	FactoryContract   string  `json:"factory_contract"`
	LaunchpadContract string  `json:"launchpad_contract"`
	FeeRecipient      string  `json:"fee_recipient"`
	// InitialBlock where freshly provisioned cursors start
	InitialBlock uint64 `json:"initial_block"`
}
