package core

import (
	"context"
	"time"
)

// JobType sync listener kind
type JobType string

const (
	// JobTypeSaleListener watches the exchange for matched orders
	JobTypeSaleListener JobType = "sale-listener"
	// JobTypeCreatedContract watches the factory for new collections
	JobTypeCreatedContract JobType = "created-contract"
	// JobTypeCreatedToken watches for token mints
	JobTypeCreatedToken JobType = "created-token"
	// JobTypeBurnedToken watches for token burns
	JobTypeBurnedToken JobType = "burned-token"
	// JobTypeTransferToken watches for token transfers
	JobTypeTransferToken JobType = "transfer-token"
	// JobTypeLaunchpadSale watches the launchpad for primary purchases
	JobTypeLaunchpadSale JobType = "launchpad-sale"
)

// IsValid report whether the job type is a known one
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeSaleListener, JobTypeCreatedContract, JobTypeCreatedToken,
		JobTypeBurnedToken, JobTypeTransferToken, JobTypeLaunchpadSale:
		return true
	}
	return false
}

// Job sync cursor, unique per (network, type, contract). It points at
// the next unprocessed block and only ever moves forward, one block
// per successful processing unit.
type Job struct {
	ID                    int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt             time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	Network               Network   `sql:"size:16;UNIQUE_INDEX:idx_jobs_key" json:"network"`
	Type                  JobType   `sql:"size:24;UNIQUE_INDEX:idx_jobs_key" json:"type"`
	ContractAddress       string    `sql:"size:42;UNIQUE_INDEX:idx_jobs_key" json:"contract_address,omitempty"`
	ProcessingBlockNumber uint64    `json:"processing_block_number"`
	ProcessingBlockTime   time.Time `json:"processing_block_time"`
}

// JobStore job cursor store interface
type JobStore interface {
	// Create provisions a cursor; it fails on an existing key.
	Create(ctx context.Context, job *Job) error
	Find(ctx context.Context, network Network, typ JobType, contract string) (*Job, error)
	// Advance bumps the cursor by exactly one block. The update is
	// conditional on the block number the caller read, so a lost race
	// surfaces as db.ErrOptimisticLock instead of a double advance.
	Advance(ctx context.Context, job *Job, blockTime time.Time) error
}
