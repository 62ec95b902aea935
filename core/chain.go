package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
)

// BlockInfo the slice of a block header the sync engine cares about
type BlockInfo struct {
	Number uint64
	Hash   string
	Time   time.Time
}

// ChainReader authoritative block source for one or more networks
type ChainReader interface {
	// Block returns (nil, nil) when the chain has not reached the
	// requested height yet; that is "nothing to do", not an error.
	Block(ctx context.Context, network Network, number uint64) (*BlockInfo, error)
	// Logs returns the logs emitted by contract within the block.
	Logs(ctx context.Context, network Network, number uint64, contract string) ([]types.Log, error)
}

// ContractCaller executes read only calls against a network
type ContractCaller interface {
	Call(ctx context.Context, network Network, from, to string, data []byte) ([]byte, error)
}
