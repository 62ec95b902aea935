package chainsync

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"cardmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJobs struct {
	job         *core.Job
	failAdvance int
}

func (s *memJobs) Create(ctx context.Context, job *core.Job) error {
	s.job = job
	return nil
}

func (s *memJobs) Find(ctx context.Context, network core.Network, typ core.JobType, contract string) (*core.Job, error) {
	if s.job == nil {
		return nil, nil
	}
	copied := *s.job
	return &copied, nil
}

func (s *memJobs) Advance(ctx context.Context, job *core.Job, blockTime time.Time) error {
	if s.failAdvance > 0 {
		s.failAdvance--
		return errors.New("connection reset")
	}

	if s.job.ProcessingBlockNumber != job.ProcessingBlockNumber {
		return errors.New("optimistic lock")
	}

	s.job.ProcessingBlockNumber++
	s.job.ProcessingBlockTime = blockTime
	return nil
}

type memSales struct {
	status    map[string]string
	markCalls int
}

func (s *memSales) Create(ctx context.Context, sale *core.Sale) error      { return nil }
func (s *memSales) Find(ctx context.Context, id int64) (*core.Sale, error) { return nil, nil }
func (s *memSales) ListByCard(ctx context.Context, cardID int64) ([]*core.Sale, error) {
	return nil, nil
}

func (s *memSales) MarkSoldByHashes(ctx context.Context, hashes []string) error {
	s.markCalls++
	for _, h := range hashes {
		if s.status[h] == core.SaleStatusOnSale {
			s.status[h] = core.SaleStatusSold
		}
	}
	return nil
}

func (s *memSales) Delete(ctx context.Context, id int64) error                     { return nil }
func (s *memSales) DeleteByCard(ctx context.Context, cardID int64) error           { return nil }
func (s *memSales) DeleteByCardAndUser(ctx context.Context, cardID, u int64) error { return nil }

type memCards struct {
	cards       map[string]*core.Card
	balances    map[string]int64
	collections map[string]string
	nextID      int64
}

func cardKey(network core.Network, contract, tokenID string) string {
	return string(network) + "/" + contract + "/" + tokenID
}

func (s *memCards) UpsertCard(ctx context.Context, card *core.Card) error {
	key := cardKey(card.Network, card.ContractAddress, card.TokenID)
	if existing, ok := s.cards[key]; ok {
		card.ID = existing.ID
		s.cards[key] = card
		return nil
	}
	s.nextID++
	card.ID = s.nextID
	s.cards[key] = card
	return nil
}

func (s *memCards) Find(ctx context.Context, id int64) (*core.Card, error) {
	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *memCards) FindToken(ctx context.Context, network core.Network, contract, tokenID string) (*core.Card, error) {
	c, ok := s.cards[cardKey(network, contract, tokenID)]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (s *memCards) SetBalance(ctx context.Context, cardID int64, owner string, amount int64) error {
	s.balances[owner] = amount
	return nil
}

func (s *memCards) FindBalance(ctx context.Context, cardID int64, owner string) (*core.CardBalance, error) {
	return &core.CardBalance{CardID: cardID, Owner: owner, Amount: s.balances[owner]}, nil
}

func (s *memCards) UpsertCollection(ctx context.Context, collection *core.Collection) error {
	s.collections[collection.Address] = collection.Creator
	return nil
}

type stubChain struct {
	blocks map[uint64][]types.Log
	head   uint64
}

func (s *stubChain) Block(ctx context.Context, network core.Network, number uint64) (*core.BlockInfo, error) {
	if number > s.head {
		return nil, nil
	}
	return &core.BlockInfo{Number: number, Time: time.Unix(1700000000+int64(number), 0)}, nil
}

func (s *stubChain) Logs(ctx context.Context, network core.Network, number uint64, contract string) ([]types.Log, error) {
	return s.blocks[number], nil
}

type stubBalances struct {
	amounts map[string]int64
}

func (s *stubBalances) Call(ctx context.Context, network core.Network, from, to string, data []byte) ([]byte, error) {
	// balanceOf(account, id): account is the first argument word
	owner := common.BytesToAddress(data[4:36]).Hex()
	out := make([]byte, 32)
	big.NewInt(s.amounts[owner]).FillBytes(out)
	return out, nil
}

func testNetworkConfig() core.NetworkConfig {
	return core.NetworkConfig{
		Network:          core.NetworkEthereum,
		ExchangeContract: "0x7f268357A8c2552623316e2562D90e642bB538E5",
		TokenContract:    "0x2953399124F0cBB46d2CbACD8A89cF0599974963",
	}
}

func newSyncer(jobType core.JobType, jobs core.JobStore, sales core.SaleStore, cards core.CardStore, chain core.ChainReader, caller core.ContractCaller) *Syncer {
	return New("", "@every 10s", core.NetworkEthereum, jobType, "", testNetworkConfig(), jobs, sales, cards, chain, caller)
}

func ordersMatchedLog(buyHash, sellHash common.Hash) types.Log {
	data := append(buyHash.Bytes(), sellHash.Bytes()...)
	data = append(data, make([]byte, 32)...) // price word
	return types.Log{
		Address: common.HexToAddress("0x7f268357A8c2552623316e2562D90e642bB538E5"),
		Topics:  []common.Hash{ordersMatchedTopic},
		Data:    data,
	}
}

func transferSingleLog(from, to common.Address, tokenID, value int64) types.Log {
	data := make([]byte, 64)
	big.NewInt(tokenID).FillBytes(data[:32])
	big.NewInt(value).FillBytes(data[32:64])

	return types.Log{
		Address: common.HexToAddress("0x2953399124F0cBB46d2CbACD8A89cF0599974963"),
		Topics: []common.Hash{
			transferSingleTopic,
			common.BytesToHash(from.Bytes()), // operator
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	}
}

func tokenPurchasedLog(buyer common.Address, tokenID, value int64) types.Log {
	data := make([]byte, 64)
	big.NewInt(tokenID).FillBytes(data[:32])
	big.NewInt(value).FillBytes(data[32:64])

	return types.Log{
		Address: common.HexToAddress("0x9a87C4AE4F26B29fB3Be17c2C4E1E4A32c48Ab57"),
		Topics: []common.Hash{
			tokenPurchasedTopic,
			common.BytesToHash(buyer.Bytes()),
		},
		Data: data,
	}
}

func TestSaleListenerConfirmsSale(t *testing.T) {
	sellHash := common.HexToHash("0xaaaa000000000000000000000000000000000000000000000000000000000001")

	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeSaleListener, ProcessingBlockNumber: 100}}
	sales := &memSales{status: map[string]string{sellHash.Hex(): core.SaleStatusOnSale}}

	chain := &stubChain{
		head: 100,
		blocks: map[uint64][]types.Log{
			100: {ordersMatchedLog(common.Hash{}, sellHash)},
		},
	}

	w := newSyncer(core.JobTypeSaleListener, jobs, sales, &memCards{}, chain, &stubBalances{})

	require.Nil(t, w.onWork(context.Background()))

	assert.Equal(t, core.SaleStatusSold, sales.status[sellHash.Hex()])
	assert.EqualValues(t, 101, jobs.job.ProcessingBlockNumber)
}

func TestReplayAfterCrashIsIdempotent(t *testing.T) {
	sellHash := common.HexToHash("0xaaaa000000000000000000000000000000000000000000000000000000000001")

	// advance fails once: events were applied but the cursor stayed put
	jobs := &memJobs{
		job:         &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeSaleListener, ProcessingBlockNumber: 100},
		failAdvance: 1,
	}
	sales := &memSales{status: map[string]string{sellHash.Hex(): core.SaleStatusOnSale}}

	chain := &stubChain{
		head: 100,
		blocks: map[uint64][]types.Log{
			100: {ordersMatchedLog(common.Hash{}, sellHash)},
		},
	}

	w := newSyncer(core.JobTypeSaleListener, jobs, sales, &memCards{}, chain, &stubBalances{})

	assert.NotNil(t, w.onWork(context.Background()))
	assert.Equal(t, core.SaleStatusSold, sales.status[sellHash.Hex()])
	assert.EqualValues(t, 100, jobs.job.ProcessingBlockNumber)

	// retry reprocesses the same block: same end state, cursor moves once
	require.Nil(t, w.onWork(context.Background()))
	assert.Equal(t, core.SaleStatusSold, sales.status[sellHash.Hex()])
	assert.EqualValues(t, 101, jobs.job.ProcessingBlockNumber)
	assert.Equal(t, 2, sales.markCalls)
}

func TestMissingCursorIsFatal(t *testing.T) {
	w := newSyncer(core.JobTypeSaleListener, &memJobs{}, &memSales{status: map[string]string{}}, &memCards{}, &stubChain{}, &stubBalances{})

	err := w.onWork(context.Background())
	assert.Equal(t, core.ErrJobNotProvisioned, err)

	// subsequent ticks refuse to run instead of retrying
	err = w.onWork(context.Background())
	assert.Equal(t, core.ErrJobNotProvisioned, err)
}

func TestBlockNotMinedYet(t *testing.T) {
	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeSaleListener, ProcessingBlockNumber: 100}}

	w := newSyncer(core.JobTypeSaleListener, jobs, &memSales{status: map[string]string{}}, &memCards{}, &stubChain{head: 99}, &stubBalances{})

	require.Nil(t, w.onWork(context.Background()))
	assert.EqualValues(t, 100, jobs.job.ProcessingBlockNumber)
}

func TestCursorProcessesBlocksInOrder(t *testing.T) {
	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeSaleListener, ProcessingBlockNumber: 100}}

	w := newSyncer(core.JobTypeSaleListener, jobs, &memSales{status: map[string]string{}}, &memCards{}, &stubChain{head: 200}, &stubBalances{})

	require.Nil(t, w.onWork(context.Background()))

	// bounded batch per invocation
	assert.EqualValues(t, 100+blocksPerRun, jobs.job.ProcessingBlockNumber)
}

func TestTransferReconcilesBalances(t *testing.T) {
	from := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	to := common.HexToAddress("0x5b3256965e7C3cF26E11FCAf296DfC8807C01073")

	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeTransferToken, ProcessingBlockNumber: 50}}
	cards := &memCards{cards: map[string]*core.Card{}, balances: map[string]int64{}, collections: map[string]string{}}
	cards.UpsertCard(context.Background(), &core.Card{
		Network:         core.NetworkEthereum,
		ContractAddress: "0x2953399124F0cBB46d2CbACD8A89cF0599974963",
		TokenID:         "42",
		Standard:        core.StandardERC1155,
	})

	chain := &stubChain{
		head: 50,
		blocks: map[uint64][]types.Log{
			50: {transferSingleLog(from, to, 42, 3)},
		},
	}

	// authoritative balances after the transfer
	balances := &stubBalances{amounts: map[string]int64{
		from.Hex(): 7,
		to.Hex():   3,
	}}

	w := newSyncer(core.JobTypeTransferToken, jobs, &memSales{status: map[string]string{}}, cards, chain, balances)

	require.Nil(t, w.onWork(context.Background()))

	assert.EqualValues(t, 7, cards.balances[from.Hex()])
	assert.EqualValues(t, 3, cards.balances[to.Hex()])

	// replay converges to the same state
	jobs.job.ProcessingBlockNumber = 50
	require.Nil(t, w.onWork(context.Background()))
	assert.EqualValues(t, 7, cards.balances[from.Hex()])
	assert.EqualValues(t, 3, cards.balances[to.Hex()])
}

func TestBurnZeroesBalance(t *testing.T) {
	owner := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")

	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeBurnedToken, ProcessingBlockNumber: 60}}
	cards := &memCards{cards: map[string]*core.Card{}, balances: map[string]int64{owner.Hex(): 10}, collections: map[string]string{}}
	cards.UpsertCard(context.Background(), &core.Card{
		Network:         core.NetworkEthereum,
		ContractAddress: "0x2953399124F0cBB46d2CbACD8A89cF0599974963",
		TokenID:         "42",
		Standard:        core.StandardERC1155,
	})

	chain := &stubChain{
		head: 60,
		blocks: map[uint64][]types.Log{
			60: {transferSingleLog(owner, common.Address{}, 42, 10)},
		},
	}

	w := newSyncer(core.JobTypeBurnedToken, jobs, &memSales{status: map[string]string{}}, cards, chain, &stubBalances{amounts: map[string]int64{}})

	require.Nil(t, w.onWork(context.Background()))
	assert.EqualValues(t, 0, cards.balances[owner.Hex()])
}

func TestMintDiscoversCard(t *testing.T) {
	to := common.HexToAddress("0x5b3256965e7C3cF26E11FCAf296DfC8807C01073")

	jobs := &memJobs{job: &core.Job{ID: 1, Network: core.NetworkEthereum, Type: core.JobTypeCreatedToken, ProcessingBlockNumber: 70}}
	cards := &memCards{cards: map[string]*core.Card{}, balances: map[string]int64{}, collections: map[string]string{}}

	chain := &stubChain{
		head: 70,
		blocks: map[uint64][]types.Log{
			70: {transferSingleLog(common.Address{}, to, 99, 100)},
		},
	}

	w := newSyncer(core.JobTypeCreatedToken, jobs, &memSales{status: map[string]string{}}, cards, chain, &stubBalances{amounts: map[string]int64{to.Hex(): 100}})

	require.Nil(t, w.onWork(context.Background()))

	card, err := cards.FindToken(context.Background(), core.NetworkEthereum, "0x2953399124F0cBB46d2CbACD8A89cF0599974963", "99")
	require.Nil(t, err)
	require.NotNil(t, card)
	assert.EqualValues(t, 100, card.Supply)
	assert.EqualValues(t, 100, cards.balances[to.Hex()])
}

func TestExtractFiltersByJobType(t *testing.T) {
	from := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	to := common.HexToAddress("0x5b3256965e7C3cF26E11FCAf296DfC8807C01073")

	logs := []types.Log{
		transferSingleLog(common.Address{}, to, 1, 1),   // mint
		transferSingleLog(from, common.Address{}, 2, 1), // burn
		transferSingleLog(from, to, 3, 1),               // transfer
		ordersMatchedLog(common.Hash{}, common.HexToHash("0x01")),
		tokenPurchasedLog(to, 4, 2), // launchpad purchase
	}

	assert.Len(t, extract(core.JobTypeCreatedToken, logs), 1)
	assert.Len(t, extract(core.JobTypeBurnedToken, logs), 1)
	assert.Len(t, extract(core.JobTypeTransferToken, logs), 1)
	assert.Len(t, extract(core.JobTypeSaleListener, logs), 1)
	assert.Len(t, extract(core.JobTypeLaunchpadSale, logs), 1)
	assert.Len(t, extract(core.JobTypeCreatedContract, logs), 0)
}

func TestExtractLaunchpadPurchase(t *testing.T) {
	buyer := common.HexToAddress("0x5b3256965e7C3cF26E11FCAf296DfC8807C01073")
	raw := tokenPurchasedLog(buyer, 77, 3)

	events := extract(core.JobTypeLaunchpadSale, []types.Log{raw})
	require.Len(t, events, 1)

	// a purchase is a mint shaped token move: nothing loses the tokens
	got := events[0]
	assert.Equal(t, eventTokenMoved, got.kind)
	assert.Equal(t, common.Address{}, got.from)
	assert.Equal(t, buyer, got.to)
	assert.Equal(t, raw.Address, got.contract)
	assert.EqualValues(t, 77, got.tokenID.Int64())
	assert.EqualValues(t, 3, got.value.Int64())
}
