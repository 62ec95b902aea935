package chainsync

import (
	"math/big"

	"cardmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ordersMatchedTopic     = crypto.Keccak256Hash([]byte("OrdersMatched(bytes32,bytes32,address,address,uint256,bytes32)"))
	transferSingleTopic    = crypto.Keccak256Hash([]byte("TransferSingle(address,address,address,uint256,uint256)"))
	collectionCreatedTopic = crypto.Keccak256Hash([]byte("CollectionCreated(address,address)"))
	tokenPurchasedTopic    = crypto.Keccak256Hash([]byte("TokenPurchased(address,uint256,uint256)"))
)

type eventKind int

const (
	eventSaleMatched eventKind = iota
	eventTokenMoved
	eventCollectionCreated
)

// event one decoded chain event relevant to some job type
type event struct {
	kind eventKind

	// sale matched
	orderHashes []string

	// token moved (mint, burn, transfer, launchpad purchase)
	contract common.Address
	from     common.Address
	to       common.Address
	tokenID  *big.Int
	value    *big.Int

	// collection created
	creator    common.Address
	collection common.Address
}

// extract filters and decodes the logs the job type cares about.
// Anything malformed is skipped: a log that does not decode cannot be
// retried into decoding, and one bad log must not wedge the cursor.
func extract(jobType core.JobType, logs []types.Log) []*event {
	var events []*event

	for i := range logs {
		raw := logs[i]
		if len(raw.Topics) == 0 {
			continue
		}

		switch jobType {
		case core.JobTypeSaleListener:
			if raw.Topics[0] != ordersMatchedTopic || len(raw.Data) < 64 {
				continue
			}

			// buy and sell order hashes are the first two data words
			events = append(events, &event{
				kind: eventSaleMatched,
				orderHashes: []string{
					common.BytesToHash(raw.Data[:32]).Hex(),
					common.BytesToHash(raw.Data[32:64]).Hex(),
				},
			})

		case core.JobTypeCreatedContract:
			if raw.Topics[0] != collectionCreatedTopic || len(raw.Topics) < 2 || len(raw.Data) < 32 {
				continue
			}

			events = append(events, &event{
				kind:       eventCollectionCreated,
				creator:    common.BytesToAddress(raw.Topics[1].Bytes()),
				collection: common.BytesToAddress(raw.Data[:32]),
			})

		case core.JobTypeCreatedToken, core.JobTypeBurnedToken, core.JobTypeTransferToken:
			moved, ok := decodeTransferSingle(raw)
			if !ok {
				continue
			}

			if !matchesTransferKind(jobType, moved) {
				continue
			}

			events = append(events, moved)

		case core.JobTypeLaunchpadSale:
			if raw.Topics[0] != tokenPurchasedTopic || len(raw.Topics) < 2 || len(raw.Data) < 64 {
				continue
			}

			events = append(events, &event{
				kind:     eventTokenMoved,
				contract: raw.Address,
				to:       common.BytesToAddress(raw.Topics[1].Bytes()),
				tokenID:  new(big.Int).SetBytes(raw.Data[:32]),
				value:    new(big.Int).SetBytes(raw.Data[32:64]),
			})
		}
	}

	return events
}

func decodeTransferSingle(raw types.Log) (*event, bool) {
	if raw.Topics[0] != transferSingleTopic || len(raw.Topics) < 4 || len(raw.Data) < 64 {
		return nil, false
	}

	return &event{
		kind:     eventTokenMoved,
		contract: raw.Address,
		from:     common.BytesToAddress(raw.Topics[2].Bytes()),
		to:       common.BytesToAddress(raw.Topics[3].Bytes()),
		tokenID:  new(big.Int).SetBytes(raw.Data[:32]),
		value:    new(big.Int).SetBytes(raw.Data[32:64]),
	}, true
}

func matchesTransferKind(jobType core.JobType, moved *event) bool {
	zero := common.Address{}

	switch jobType {
	case core.JobTypeCreatedToken:
		return moved.from == zero && moved.to != zero
	case core.JobTypeBurnedToken:
		return moved.to == zero && moved.from != zero
	case core.JobTypeTransferToken:
		return moved.from != zero && moved.to != zero
	}
	return false
}
