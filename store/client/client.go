package client

import (
	"context"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type clientStore struct {
	db *db.DB
}

// New new client store
func New(db *db.DB) core.ClientStore {
	return &clientStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Client{})

		if err := tx.AutoMigrate(core.Client{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *clientStore) Create(ctx context.Context, client *core.Client) error {
	return s.db.Update().Create(client).Error
}

func (s *clientStore) Find(ctx context.Context, clientID string) (*core.Client, error) {
	var client core.Client

	err := s.db.View().Where("client_id = ?", clientID).First(&client).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}
