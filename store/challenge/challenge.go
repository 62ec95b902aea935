package challenge

import (
	"context"
	"time"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type challengeStore struct {
	db *db.DB
}

// New new challenge store
func New(db *db.DB) core.ChallengeStore {
	return &challengeStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.SignatureChallenge{})

		if err := tx.AutoMigrate(core.SignatureChallenge{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *challengeStore) Create(ctx context.Context, challenge *core.SignatureChallenge) error {
	return s.db.Update().Create(challenge).Error
}

// Find only returns a challenge while it is alive. Rows are never
// deleted, expiry is enforced by the time bound here.
func (s *challengeStore) Find(ctx context.Context, requestID string, now time.Time) (*core.SignatureChallenge, error) {
	var challenge core.SignatureChallenge

	err := s.db.View().
		Where("request_id = ? AND expire_at > ?", requestID, now).
		First(&challenge).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &challenge, nil
}
