// Package chainsync advances one sync cursor through block history and
// feeds the events it finds into the marketplace state. Every cursor
// key (network, job type, contract) gets its own worker; cursors never
// share state, so workers are independent of each other.
package chainsync

import (
	"context"
	"time"

	"cardmarket/core"
	"cardmarket/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// blocksPerRun bounds one invocation so a slow or hung step cannot
// hold the cursor for long.
const blocksPerRun = 5

// Syncer one cursor worker
type Syncer struct {
	worker.BaseJob

	network  core.Network
	jobType  core.JobType
	contract string

	cfg    core.NetworkConfig
	jobs   core.JobStore
	sales  core.SaleStore
	cards  core.CardStore
	chain  core.ChainReader
	caller core.ContractCaller

	fatal bool
}

// New new sync worker for one (network, type, contract) key
func New(
	location string,
	spec string,
	network core.Network,
	jobType core.JobType,
	contract string,
	cfg core.NetworkConfig,
	jobs core.JobStore,
	sales core.SaleStore,
	cards core.CardStore,
	chain core.ChainReader,
	caller core.ContractCaller,
) *Syncer {
	syncer := Syncer{
		network:  network,
		jobType:  jobType,
		contract: contract,
		cfg:      cfg,
		jobs:     jobs,
		sales:    sales,
		cards:    cards,
		chain:    chain,
		caller:   caller,
	}

	l, _ := time.LoadLocation(location)
	syncer.Cron = cron.New(cron.WithLocation(l))
	if spec == "" {
		spec = "@every 10s"
	}
	syncer.Cron.AddFunc(spec, syncer.Run)
	syncer.OnWork = func() error {
		return syncer.onWork(context.Background())
	}

	return &syncer
}

func (w *Syncer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).
		WithField("worker", "chainsync").
		WithField("network", w.network).
		WithField("type", w.jobType)
	ctx = logger.WithContext(ctx, log)

	if w.fatal {
		// provisioning bug, re-running will not fix it
		return core.ErrJobNotProvisioned
	}

	for i := 0; i < blocksPerRun; i++ {
		processed, err := w.processNext(ctx)
		if err != nil {
			return err
		}

		if !processed {
			break
		}
	}

	return nil
}

// processNext handles exactly one block. The cursor advances only
// after every event in the block is applied; a failure in between
// leaves the cursor unchanged so the same block is retried, which the
// idempotent handlers make safe.
func (w *Syncer) processNext(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	job, err := w.jobs.Find(ctx, w.network, w.jobType, w.contract)
	if err != nil {
		log.WithError(err).Errorln("jobs.Find")
		return false, err
	}

	if job == nil {
		log.Errorln("cursor missing, listener must be provisioned before it runs")
		w.fatal = true
		return false, core.ErrJobNotProvisioned
	}

	block, err := w.chain.Block(ctx, w.network, job.ProcessingBlockNumber)
	if err != nil {
		log.WithError(err).Errorln("chain.Block", job.ProcessingBlockNumber)
		return false, err
	}

	if block == nil {
		// chain has not reached this height yet
		return false, nil
	}

	logs, err := w.chain.Logs(ctx, w.network, block.Number, w.watchedContract())
	if err != nil {
		log.WithError(err).Errorln("chain.Logs", block.Number)
		return false, err
	}

	events := extract(w.jobType, logs)
	for _, event := range events {
		if err := w.handle(ctx, event); err != nil {
			log.WithError(err).Errorln("handle event", block.Number)
			return false, err
		}
	}

	if err := w.jobs.Advance(ctx, job, block.Time); err != nil {
		log.WithError(err).Errorln("jobs.Advance", job.ProcessingBlockNumber)
		return false, err
	}

	return true, nil
}

// watchedContract resolves which contract this cursor listens to. A
// contract pinned on the cursor row wins over the network default.
func (w *Syncer) watchedContract() string {
	if w.contract != "" {
		return w.contract
	}

	switch w.jobType {
	case core.JobTypeSaleListener:
		return w.cfg.ExchangeContract
	case core.JobTypeCreatedContract:
		return w.cfg.FactoryContract
	case core.JobTypeLaunchpadSale:
		return w.cfg.LaunchpadContract
	default:
		return w.cfg.TokenContract
	}
}
