// Package chain backs core.ChainReader and core.ContractCaller with
// one rpc client per configured network. Clients are dialed once at
// startup and owned by the service, there is no lazy global state.
package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"cardmarket/core"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

type chainService struct {
	clients map[core.Network]*ethclient.Client
}

// Service read only chain access for every configured network
type Service interface {
	core.ChainReader
	core.ContractCaller
}

// New dial every configured endpoint
func New(cfgs []core.NetworkConfig) (Service, error) {
	clients := make(map[core.Network]*ethclient.Client, len(cfgs))
	for _, cfg := range cfgs {
		client, err := ethclient.Dial(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		clients[cfg.Network] = client
	}

	return &chainService{clients: clients}, nil
}

func (s *chainService) client(network core.Network) (*ethclient.Client, error) {
	client, ok := s.clients[network]
	if !ok {
		return nil, core.ErrBlockSource
	}
	return client, nil
}

func (s *chainService) Block(ctx context.Context, network core.Network, number uint64) (*core.BlockInfo, error) {
	client, err := s.client(network)
	if err != nil {
		return nil, err
	}

	header, err := client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if errors.Is(err, ethereum.NotFound) {
		// chain has not reached this height yet
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &core.BlockInfo{
		Number: header.Number.Uint64(),
		Hash:   header.Hash().Hex(),
		Time:   time.Unix(int64(header.Time), 0),
	}, nil
}

func (s *chainService) Logs(ctx context.Context, network core.Network, number uint64, contract string) ([]types.Log, error) {
	client, err := s.client(network)
	if err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(number),
		ToBlock:   new(big.Int).SetUint64(number),
	}
	if contract != "" {
		query.Addresses = []common.Address{common.HexToAddress(contract)}
	}

	return client.FilterLogs(ctx, query)
}

func (s *chainService) Call(ctx context.Context, network core.Network, from, to string, data []byte) ([]byte, error) {
	client, err := s.client(network)
	if err != nil {
		return nil, err
	}

	target := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		From: common.HexToAddress(from),
		To:   &target,
		Data: data,
	}

	return client.CallContract(ctx, msg, nil)
}
