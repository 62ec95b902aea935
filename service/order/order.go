// Package order assembles exchange protocol compatible sale orders and
// obtains their canonical hash from the exchange contract itself. The
// hash is never computed locally: a locally derived hash that drifts
// from the contract would let users sign unverifiable orders.
package order

import (
	"context"
	"math/big"
	"strings"
	"time"

	"cardmarket/core"
	"cardmarket/pkg/number"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const exchangeABI = `[{
	"name": "hashToSign_",
	"type": "function",
	"stateMutability": "view",
	"inputs": [
		{"name": "addrs", "type": "address[7]"},
		{"name": "uints", "type": "uint256[9]"},
		{"name": "feeMethod", "type": "uint8"},
		{"name": "side", "type": "uint8"},
		{"name": "saleKind", "type": "uint8"},
		{"name": "howToCall", "type": "uint8"},
		{"name": "calldata", "type": "bytes"},
		{"name": "replacementPattern", "type": "bytes"},
		{"name": "staticExtradata", "type": "bytes"}
	],
	"outputs": [{"name": "", "type": "bytes32"}]
}]`

const erc721ABI = `[{
	"name": "transferFrom",
	"type": "function",
	"inputs": [
		{"name": "from", "type": "address"},
		{"name": "to", "type": "address"},
		{"name": "tokenId", "type": "uint256"}
	],
	"outputs": []
}]`

const erc1155ABI = `[{
	"name": "safeTransferFrom",
	"type": "function",
	"inputs": [
		{"name": "from", "type": "address"},
		{"name": "to", "type": "address"},
		{"name": "id", "type": "uint256"},
		{"name": "amount", "type": "uint256"},
		{"name": "data", "type": "bytes"}
	],
	"outputs": []
}]`

// makerRelayerFeeBps relayer fee charged to the maker, protocol constant
const makerRelayerFeeBps = 250

type orderBook struct {
	cfg      core.NetworkConfig
	caller   core.ContractCaller
	exchange abi.ABI
	erc721   abi.ABI
	erc1155  abi.ABI
}

// New new order book for one network
func New(cfg core.NetworkConfig, caller core.ContractCaller) core.OrderBook {
	return &orderBook{
		cfg:      cfg,
		caller:   caller,
		exchange: mustParseABI(exchangeABI),
		erc721:   mustParseABI(erc721ABI),
		erc1155:  mustParseABI(erc1155ABI),
	}
}

// Table order books keyed by network. The set of networks is closed
// and small, a plain lookup map is all the dispatch needed.
type Table map[core.Network]core.OrderBook

// NewTable build one order book per configured network
func NewTable(cfgs []core.NetworkConfig, caller core.ContractCaller) Table {
	table := make(Table, len(cfgs))
	for _, cfg := range cfgs {
		table[cfg.Network] = New(cfg, caller)
	}
	return table
}

// Book select the order book for a network
func (t Table) Book(network core.Network) (core.OrderBook, bool) {
	book, ok := t[network]
	return book, ok
}

func (b *orderBook) BuildOrder(ctx context.Context, input *core.OrderInput) (*core.SignableOrder, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	calldata, replacementPattern, err := b.encodeTransfer(input)
	if err != nil {
		return nil, core.ErrOrderHash
	}

	tuple := b.assemble(input, calldata, replacementPattern)

	hash, err := b.computeHash(ctx, input.Maker, tuple)
	if err != nil {
		return nil, core.ErrOrderHash
	}

	return &core.SignableOrder{
		Order:        tuple,
		OrderHash:    hash,
		SaleContract: b.cfg.ExchangeContract,
	}, nil
}

func validate(input *core.OrderInput) error {
	if input.TokensCount <= 0 {
		return core.ErrInvalidTokensCount
	}

	// one minute of grace for clock drift between wallet and server
	if input.PublishFrom.Before(time.Now().Add(-time.Minute)) {
		return core.ErrStalePublishFrom
	}

	if input.PublishTo != nil && !input.PublishTo.After(input.PublishFrom) {
		return core.ErrInvalidPublishWindow
	}

	return nil
}

// encodeTransfer encodes the token transfer embedded in the order. The
// erc1155 convention carries an amount, the erc721 one does not. The
// replacement pattern masks the buyer slot so the counterpart order
// can fill it in at settlement.
func (b *orderBook) encodeTransfer(input *core.OrderInput) (calldata, replacementPattern []byte, err error) {
	maker := common.HexToAddress(input.Maker)
	tokenID, ok := new(big.Int).SetString(input.Card.TokenID, 10)
	if !ok {
		return nil, nil, core.ErrInvalidArguments
	}

	switch input.Card.Standard {
	case core.StandardERC1155:
		calldata, err = b.erc1155.Pack("safeTransferFrom",
			maker, common.Address{}, tokenID, big.NewInt(input.TokensCount), []byte{})
	default:
		calldata, err = b.erc721.Pack("transferFrom", maker, common.Address{}, tokenID)
	}
	if err != nil {
		return nil, nil, err
	}

	// second argument word, after the 4 byte selector
	replacementPattern = make([]byte, len(calldata))
	for i := 4 + 32; i < 4+64; i++ {
		replacementPattern[i] = 0xff
	}

	return calldata, replacementPattern, nil
}

func (b *orderBook) assemble(input *core.OrderInput, calldata, replacementPattern []byte) core.OrderTuple {
	listingTime := big.NewInt(input.PublishFrom.Unix())
	expirationTime := big.NewInt(0)
	if input.PublishTo != nil {
		expirationTime = big.NewInt(input.PublishTo.Unix())
	}

	basePrice := number.Decimal(input.BasePrice).Shift(18).BigInt()

	return core.OrderTuple{
		Addrs: []string{
			b.cfg.ExchangeContract,
			input.Maker,
			zeroAddress, // taker, open order
			b.cfg.FeeRecipient,
			input.Card.ContractAddress,
			zeroAddress, // static target
			input.PaymentToken,
		},
		Uints: []string{
			bigString(big.NewInt(makerRelayerFeeBps)),
			"0", // taker relayer fee
			"0", // maker protocol fee
			"0", // taker protocol fee
			bigString(basePrice),
			"0", // extra
			bigString(listingTime),
			bigString(expirationTime),
			input.Salt,
		},
		FeeMethod:          core.FeeMethodSplit,
		Side:               core.SideSell,
		SaleKind:           core.SaleKindFixed,
		HowToCall:          core.HowToCallDirect,
		Calldata:           hexutil.Encode(calldata),
		ReplacementPattern: hexutil.Encode(replacementPattern),
		StaticExtradata:    "0x",
	}
}

// computeHash runs the exchange contract's read only hash function
// over the assembled tuple, from the maker's address context.
func (b *orderBook) computeHash(ctx context.Context, maker string, tuple core.OrderTuple) (string, error) {
	var addrs [7]common.Address
	for i, a := range tuple.Addrs {
		addrs[i] = common.HexToAddress(a)
	}

	var uints [9]*big.Int
	for i, u := range tuple.Uints {
		v, ok := new(big.Int).SetString(u, 10)
		if !ok {
			return "", core.ErrInvalidArguments
		}
		uints[i] = v
	}

	calldata, err := hexutil.Decode(tuple.Calldata)
	if err != nil {
		return "", err
	}
	replacementPattern, err := hexutil.Decode(tuple.ReplacementPattern)
	if err != nil {
		return "", err
	}
	staticExtradata, err := hexutil.Decode(tuple.StaticExtradata)
	if err != nil {
		return "", err
	}

	data, err := b.exchange.Pack("hashToSign_",
		addrs, uints,
		tuple.FeeMethod, tuple.Side, tuple.SaleKind, tuple.HowToCall,
		calldata, replacementPattern, staticExtradata)
	if err != nil {
		return "", err
	}

	out, err := b.caller.Call(ctx, b.cfg.Network, maker, b.cfg.ExchangeContract, data)
	if err != nil {
		return "", err
	}

	if len(out) < 32 {
		return "", core.ErrOrderHash
	}

	return hexutil.Encode(out[:32]), nil
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

func bigString(v *big.Int) string {
	return v.String()
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
