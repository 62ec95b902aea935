package job

import (
	"context"
	"time"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type jobStore struct {
	db *db.DB
}

// New new job store
func New(db *db.DB) core.JobStore {
	return &jobStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Job{})

		if err := tx.AutoMigrate(core.Job{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *jobStore) Create(ctx context.Context, job *core.Job) error {
	return s.db.Update().Create(job).Error
}

func (s *jobStore) Find(ctx context.Context, network core.Network, typ core.JobType, contract string) (*core.Job, error) {
	var job core.Job

	err := s.db.View().
		Where("network = ? AND type = ? AND contract_address = ?", network, typ, contract).
		First(&job).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// Advance moves the cursor forward by exactly one block. The where
// clause pins the block number the caller processed, so a concurrent
// advance for the same cursor loses with db.ErrOptimisticLock instead
// of skipping or double counting a block.
func (s *jobStore) Advance(ctx context.Context, job *core.Job, blockTime time.Time) error {
	tx := s.db.Update().Model(core.Job{}).
		Where("id = ? AND processing_block_number = ?", job.ID, job.ProcessingBlockNumber).
		Updates(map[string]interface{}{
			"processing_block_number": job.ProcessingBlockNumber + 1,
			"processing_block_time":   blockTime,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	job.ProcessingBlockNumber++
	job.ProcessingBlockTime = blockTime
	return nil
}
